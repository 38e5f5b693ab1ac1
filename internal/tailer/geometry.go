// internal/tailer/geometry.go
package tailer

import (
	"errors"
	"fmt"
)

// maxReadRegisters is the Modbus limit for one read-registers request.
const maxReadRegisters = 125

// Device ring defaults.
const (
	DefaultSlots       = 32
	DefaultMaxRecords  = 24 // the oldest slots risk being overwritten mid-read
	DefaultRecordWidth = 2
)

// Geometry describes the device's circular record buffer.
// Pure: no IO, no state.
type Geometry struct {
	Slots       uint16
	MaxRecords  uint16
	RecordWidth uint16
}

// DefaultGeometry returns the gateway's ring layout.
func DefaultGeometry() Geometry {
	return Geometry{
		Slots:       DefaultSlots,
		MaxRecords:  DefaultMaxRecords,
		RecordWidth: DefaultRecordWidth,
	}
}

// Validate checks that the ring can be addressed by a 16-bit counter
// and read in at most two requests.
func (g Geometry) Validate() error {
	if g.Slots == 0 || g.MaxRecords == 0 || g.RecordWidth == 0 {
		return errors.New("geometry: slots, max records and record width must be > 0")
	}
	// slot = seq mod Slots must stay continuous across the 65535 -> 0 wrap.
	if g.Slots&(g.Slots-1) != 0 {
		return fmt.Errorf("geometry: slots must be a power of two, got %d", g.Slots)
	}
	if g.MaxRecords > g.Slots {
		return fmt.Errorf("geometry: max records %d exceeds ring size %d", g.MaxRecords, g.Slots)
	}
	if int(g.Slots)*int(g.RecordWidth) > maxReadRegisters {
		return fmt.Errorf(
			"geometry: ring of %d registers exceeds one read (%d)",
			int(g.Slots)*int(g.RecordWidth),
			maxReadRegisters,
		)
	}
	return nil
}

// RingRegisters is the register size of the whole ring.
func (g Geometry) RingRegisters() uint16 {
	return g.Slots * g.RecordWidth
}

// Plan computes which registers hold the records written between prev and cur.
//
// The window ends at slot (cur+1) mod Slots and spans at most MaxRecords
// slots. A window crossing the top of the ring is split in two ranges, the
// upper part first.
func (g Geometry) Plan(prev, cur uint16) Plan {
	delta := cur - prev // wraps at 65536
	if delta == 0 {
		return Plan{}
	}

	var p Plan
	n := int(delta)
	if n > int(g.MaxRecords) {
		p.Overrun = true
		p.Lost = n - int(g.MaxRecords)
		n = int(g.MaxRecords)
	}
	p.Records = n

	slots := int(g.Slots)
	width := int(g.RecordWidth)

	end := (int(cur) + 1) % slots
	start := ((end-n)%slots + slots) % slots

	startOff := start * width
	endOff := end * width

	if startOff < endOff {
		p.Ranges = []Range{{Offset: uint16(startOff), Count: uint16(endOff - startOff)}}
		return p
	}

	p.Ranges = []Range{{Offset: uint16(startOff), Count: uint16(slots*width - startOff)}}
	if endOff > 0 {
		p.Ranges = append(p.Ranges, Range{Offset: 0, Count: uint16(endOff)})
	}
	return p
}
