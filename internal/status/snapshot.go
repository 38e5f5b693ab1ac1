// internal/status/snapshot.go
package status

import "time"

// Snapshot is the tailer's view of the link and the record stream.
// It contains no logic beyond derived durations.
type Snapshot struct {
	Health        uint16
	LastErrorCode uint16
	LastError     string
	ErrorSince    time.Time // zero while healthy

	Baseline uint16
	Sequence uint16

	Polls          uint64
	Records        uint64
	Overruns       uint64
	Lost           uint64
	SequenceErrors uint64
	RecordErrors   uint64
}

// SecondsInError returns how long the link has been failing, capped at
// SecondsInErrorMax.
func (s Snapshot) SecondsInError(now time.Time) uint16 {
	if s.ErrorSince.IsZero() || now.Before(s.ErrorSince) {
		return 0
	}
	secs := int64(now.Sub(s.ErrorSince) / time.Second)
	if secs > SecondsInErrorMax {
		return SecondsInErrorMax
	}
	return uint16(secs)
}
