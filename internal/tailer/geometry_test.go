// internal/tailer/geometry_test.go
package tailer

import "testing"

// slotsOf expands a plan back into the slot indices it reads, in read order.
func slotsOf(g Geometry, p Plan) []int {
	var out []int
	for _, r := range p.Ranges {
		for off := int(r.Offset); off < int(r.Offset)+int(r.Count); off += int(g.RecordWidth) {
			out = append(out, off/int(g.RecordWidth))
		}
	}
	return out
}

func TestPlan_WindowIsMostRecentSlots(t *testing.T) {
	g := DefaultGeometry()
	prevs := []uint16{0, 1, 10, 31, 32, 33, 12345, 65503, 65512, 65535}

	for _, prev := range prevs {
		for c := 0; c <= 0xffff; c++ {
			cur := uint16(c)
			p := g.Plan(prev, cur)

			delta := int(cur - prev)
			want := delta
			if want > int(g.MaxRecords) {
				want = int(g.MaxRecords)
			}

			if p.Records != want {
				t.Fatalf("plan(%d,%d): records=%d want %d", prev, cur, p.Records, want)
			}
			if p.Overrun != (delta > int(g.MaxRecords)) {
				t.Fatalf("plan(%d,%d): overrun=%v delta=%d", prev, cur, p.Overrun, delta)
			}
			if p.Overrun && p.Lost != delta-int(g.MaxRecords) {
				t.Fatalf("plan(%d,%d): lost=%d want %d", prev, cur, p.Lost, delta-int(g.MaxRecords))
			}
			if p.Registers() != 2*p.Records {
				t.Fatalf("plan(%d,%d): registers=%d want %d", prev, cur, p.Registers(), 2*p.Records)
			}
			if len(p.Ranges) > 2 {
				t.Fatalf("plan(%d,%d): %d ranges", prev, cur, len(p.Ranges))
			}

			slots := slotsOf(g, p)
			for i, s := range slots {
				seq := cur - uint16(want-1-i)
				if s != int(seq)%int(g.Slots) {
					t.Fatalf("plan(%d,%d): slot[%d]=%d want %d", prev, cur, i, s, int(seq)%int(g.Slots))
				}
			}
		}
	}
}

func TestPlan_NoChangeIsEmpty(t *testing.T) {
	g := DefaultGeometry()
	for _, s := range []uint16{0, 1, 31, 32, 4000, 65535} {
		p := g.Plan(s, s)
		if !p.Empty() || len(p.Ranges) != 0 || p.Overrun {
			t.Fatalf("plan(%d,%d) = %+v, want empty", s, s, p)
		}
	}
}

func TestPlan_CounterWrap(t *testing.T) {
	g := DefaultGeometry()

	wrapped := g.Plan(65530, 5)
	plain := g.Plan(0, 11)

	if wrapped.Records != 11 || plain.Records != 11 {
		t.Fatalf("records: wrapped=%d plain=%d, want 11", wrapped.Records, plain.Records)
	}
	if wrapped.Overrun {
		t.Fatalf("counter wrap must not be reported as overrun")
	}

	// Same window length, rotated by the slot difference.
	ws := slotsOf(g, wrapped)
	ps := slotsOf(g, plain)
	rot := (int(uint16(5)) - 11 + 32) % 32
	for i := range ps {
		if ws[i] != (ps[i]+rot)%32 {
			t.Fatalf("slot[%d]: wrapped=%d plain=%d", i, ws[i], ps[i])
		}
	}
}

func TestPlan_RingWrapSplitsInTwo(t *testing.T) {
	g := DefaultGeometry()

	// cur=5: window ends at slot 6, 11 records start at slot 27.
	p := g.Plan(65530, 5)
	if len(p.Ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %+v", p.Ranges)
	}
	if p.Ranges[0] != (Range{Offset: 54, Count: 10}) {
		t.Fatalf("first range = %+v", p.Ranges[0])
	}
	if p.Ranges[1] != (Range{Offset: 0, Count: 12}) {
		t.Fatalf("second range = %+v", p.Ranges[1])
	}
	if int(p.Ranges[0].Count)+int(p.Ranges[1].Count) != 2*p.Records {
		t.Fatalf("range lengths do not cover the window")
	}
}

func TestPlan_WindowEndingAtTopIsSingleRange(t *testing.T) {
	g := DefaultGeometry()

	// cur=31: end wraps to slot 0, nothing to read below it.
	p := g.Plan(28, 31)
	if len(p.Ranges) != 1 {
		t.Fatalf("expected 1 range, got %+v", p.Ranges)
	}
	if p.Ranges[0] != (Range{Offset: 58, Count: 6}) {
		t.Fatalf("range = %+v", p.Ranges[0])
	}
}

func TestPlan_OverrunClamp(t *testing.T) {
	g := DefaultGeometry()

	p := g.Plan(0, 5000)
	if p.Records != 24 {
		t.Fatalf("records=%d want 24", p.Records)
	}
	if !p.Overrun {
		t.Fatalf("expected overrun")
	}
	if p.Lost != 5000-24 {
		t.Fatalf("lost=%d want %d", p.Lost, 5000-24)
	}
}

func TestGeometry_Validate(t *testing.T) {
	cases := []struct {
		name string
		g    Geometry
		ok   bool
	}{
		{"default", DefaultGeometry(), true},
		{"zero", Geometry{}, false},
		{"not power of two", Geometry{Slots: 30, MaxRecords: 24, RecordWidth: 2}, false},
		{"window larger than ring", Geometry{Slots: 16, MaxRecords: 24, RecordWidth: 2}, false},
		{"ring too large for one read", Geometry{Slots: 64, MaxRecords: 24, RecordWidth: 2}, false},
		{"full ring window", Geometry{Slots: 32, MaxRecords: 32, RecordWidth: 2}, true},
	}

	for _, tc := range cases {
		err := tc.g.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
	}
}
