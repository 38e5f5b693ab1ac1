// internal/status/encode.go
package status

import (
	"strconv"
	"time"
)

// Field is one named value of a rendered snapshot.
type Field struct {
	Name  string
	Value string
}

// Encode converts a Snapshot into display fields in a fixed order.
// No IO. No side effects.
func Encode(s Snapshot, now time.Time) []Field {
	fields := []Field{
		{"health", HealthName(s.Health)},
		{"baseline", strconv.Itoa(int(s.Baseline))},
		{"sequence", strconv.Itoa(int(s.Sequence))},
		{"polls", strconv.FormatUint(s.Polls, 10)},
		{"records", strconv.FormatUint(s.Records, 10)},
		{"overruns", strconv.FormatUint(s.Overruns, 10)},
		{"lost", strconv.FormatUint(s.Lost, 10)},
		{"sequence_errors", strconv.FormatUint(s.SequenceErrors, 10)},
		{"record_errors", strconv.FormatUint(s.RecordErrors, 10)},
	}

	if s.Health == HealthError {
		fields = append(fields,
			Field{"last_error_code", strconv.Itoa(int(s.LastErrorCode))},
			Field{"last_error", s.LastError},
			Field{"seconds_in_error", strconv.Itoa(int(s.SecondsInError(now)))},
		)
	}

	return fields
}
