// internal/tailer/types.go
package tailer

import "time"

// Range is one contiguous register read, relative to the records base address.
// Geometry only: no semantics.
type Range struct {
	Offset uint16
	Count  uint16
}

// Plan is the fetch plan for one sequence delta.
// Reading Ranges in order and concatenating yields records oldest first.
type Plan struct {
	Ranges  []Range
	Records int // whole records delivered by the plan

	// Overrun is set when the device wrote more records than the window holds.
	// Lost records were already overwritten and are not recoverable.
	Overrun bool
	Lost    int
}

// Empty reports whether the plan fetches nothing.
func (p Plan) Empty() bool {
	return p.Records == 0
}

// Registers returns the total register count across all ranges.
func (p Plan) Registers() int {
	n := 0
	for _, r := range p.Ranges {
		n += int(r.Count)
	}
	return n
}

// Record is one raw fixed-width ring entry, copied verbatim from the device.
type Record struct {
	Sequence  uint16
	Registers []uint16
}

// Batch is the ordered set of records delivered by one poll cycle.
type Batch struct {
	At       time.Time
	Sequence uint16 // counter value the batch ends at
	Records  []Record
}

// PollResult is the outcome of one poll cycle.
type PollResult struct {
	At time.Time

	Previous uint16
	Sequence uint16
	Changed  bool

	Plan    Plan
	Records []Record

	// SequenceErr is set when the counter read failed; the cycle was skipped.
	SequenceErr error
	// Err is set when a record read failed; records were dropped, the
	// baseline still advanced.
	Err error
}

// Failed reports whether any read in the cycle failed.
func (r PollResult) Failed() bool {
	return r.SequenceErr != nil || r.Err != nil
}
