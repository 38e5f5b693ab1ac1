// internal/device/registers.go
package device

// Gateway register map.
// These values are fixed by the device firmware and MUST NOT be configurable.

// ---- IDENTITY (input registers) ----

const (
	AddrFirmwareLow   uint16 = 480
	AddrModuleNameLow uint16 = 482
)

// ---- SETTINGS (holding registers) ----

const (
	AddrBusAddress      uint16 = 484
	AddrSerialConfig    uint16 = 485
	AddrResponseDelay   uint16 = 487
	AddrWatchdogTimeout uint16 = 488 // tenths of a second
	AddrWatchdogCount   uint16 = 491
)

// ---- WATCHDOG (coil) ----

const AddrWatchdogEnabled uint16 = 260

// ---- COMMAND QUEUE (holding registers) ----

const (
	AddrReplyQueue   uint16 = 0
	AddrCommandQueue uint16 = 32
	AddrCommandReady uint16 = 256

	// CommandBlock is the queue depth per round trip.
	CommandBlock = 8
	// CommandDone is the ready register value once replies are available.
	CommandDone uint16 = 0xff
)

// ---- LIMITS ----

const (
	MinBusAddress = 1
	MaxBusAddress = 247

	// Watchdog timeout is stored in tenths of a second, 1..255.
	MinWatchdogTenths = 1
	MaxWatchdogTenths = 255
)
