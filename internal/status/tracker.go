// internal/status/tracker.go
package status

import (
	"sync"
	"time"
)

// Observation is the outcome of one poll cycle as seen by the tracker.
type Observation struct {
	At       time.Time
	Sequence uint16
	Records  int
	Overrun  bool
	Lost     int

	SequenceErr error
	RecordErr   error
}

// Tracker accumulates observations. Written by the poll loop,
// read by anyone.
type Tracker struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewTracker returns a tracker in the unknown state.
func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Health: HealthUnknown}}
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

// Baseline records the starting sequence read.
func (t *Tracker) Baseline(at time.Time, seq uint16, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.snap.SequenceErrors++
		t.fail(at, err)
		return
	}
	t.snap.Baseline = seq
	t.snap.Sequence = seq
	t.ok()
}

// Observe folds one poll cycle into the snapshot.
func (t *Tracker) Observe(o Observation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.snap.Polls++

	if o.SequenceErr != nil {
		t.snap.SequenceErrors++
		t.fail(o.At, o.SequenceErr)
		return
	}

	t.snap.Sequence = o.Sequence
	t.snap.Records += uint64(o.Records)
	t.snap.Lost += uint64(o.Lost)
	if o.Overrun {
		t.snap.Overruns++
	}

	if o.RecordErr != nil {
		t.snap.RecordErrors++
		t.fail(o.At, o.RecordErr)
		return
	}
	t.ok()
}

// Stopped marks the tailer as exited. Counters are kept.
func (t *Tracker) Stopped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Health = HealthStopped
}

func (t *Tracker) ok() {
	t.snap.Health = HealthOK
	t.snap.LastErrorCode = ErrorCodeNone
	t.snap.LastError = ""
	t.snap.ErrorSince = time.Time{}
}

func (t *Tracker) fail(at time.Time, err error) {
	if t.snap.Health != HealthError {
		t.snap.ErrorSince = at
	}
	t.snap.Health = HealthError
	t.snap.LastErrorCode = ErrorCode(err)
	t.snap.LastError = err.Error()
}
