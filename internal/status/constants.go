// internal/status/constants.go
package status

// ---- HEALTH CODES ----

// HealthUnknown represents the state before the baseline read.
const HealthUnknown uint16 = 0

// HealthOK represents a device answering every read.
const HealthOK uint16 = 1

// HealthError represents a device whose last read failed.
const HealthError uint16 = 2

// HealthStopped represents a tailer that has exited.
const HealthStopped uint16 = 4

// ---- ERROR CODES ----

// ErrorCodeNone means no error.
const ErrorCodeNone uint16 = 0

// ErrorCodeGeneric is used for errors that carry no Modbus exception code.
const ErrorCodeGeneric uint16 = 1

// ---- LIMITS ----

// SecondsInErrorMax caps SecondsInError so it never wraps.
const SecondsInErrorMax = 65535

// HealthName returns a short label for a health code.
func HealthName(h uint16) string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStopped:
		return "stopped"
	default:
		return "invalid"
	}
}
