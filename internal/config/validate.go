// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/dgwtail/internal/modbus"
	"github.com/tamzrod/dgwtail/internal/sink"
)

var validBaudRates = map[int]bool{
	1200: true, 2400: true, 4800: true, 9600: true,
	19200: true, 38400: true, 57600: true, 115200: true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	t := cfg.Transport

	mode := strings.ToLower(t.Mode)
	if mode != modbus.ModeRTU && mode != modbus.ModeTCP {
		return fmt.Errorf("transport.mode %q: must be rtu or tcp", t.Mode)
	}
	if strings.TrimSpace(t.Device) == "" {
		return fmt.Errorf("transport.device is required")
	}
	if t.SlaveID < 1 || t.SlaveID > 247 {
		return fmt.Errorf("transport.slave_id %d: must be 1..247", t.SlaveID)
	}
	if t.TimeoutMs <= 0 {
		return fmt.Errorf("transport.timeout_ms must be > 0")
	}

	if mode == modbus.ModeRTU {
		if !validBaudRates[t.BaudRate] {
			return fmt.Errorf("transport.baud_rate %d: unsupported", t.BaudRate)
		}
		if t.DataBits < 5 || t.DataBits > 8 {
			return fmt.Errorf("transport.data_bits %d: must be 5..8", t.DataBits)
		}
		if t.StopBits != 1 && t.StopBits != 2 {
			return fmt.Errorf("transport.stop_bits %d: must be 1 or 2", t.StopBits)
		}
		switch strings.ToUpper(t.Parity) {
		case "N", "E", "O":
		default:
			return fmt.Errorf("transport.parity %q: must be N, E or O", t.Parity)
		}
	}

	// ------------------------------------------------------------
	// RING GEOMETRY
	// ------------------------------------------------------------

	tl := cfg.Tail

	if tl.IntervalMs <= 0 {
		return fmt.Errorf("tail.interval_ms must be > 0")
	}
	if err := TailerConfig(cfg).Geometry.Validate(); err != nil {
		return fmt.Errorf("tail: %w", err)
	}

	seqEnd := int(tl.SequenceAddress)
	ringStart := int(tl.RecordsAddress)
	ringEnd := ringStart + int(tl.Slots)*int(tl.RecordWidth) - 1
	if ringEnd > 0xffff {
		return fmt.Errorf("tail: ring %d-%d exceeds the register space", ringStart, ringEnd)
	}
	// overlap check (inclusive)
	if !(seqEnd < ringStart || seqEnd > ringEnd) {
		return fmt.Errorf(
			"tail: sequence_address %d overlaps the ring %d-%d",
			tl.SequenceAddress, ringStart, ringEnd,
		)
	}

	if _, err := sink.ParseFormat(tl.Format); err != nil {
		return fmt.Errorf("tail.format: %w", err)
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be debug, info, warn or error", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("log.format %q: must be auto, console or json", cfg.Log.Format)
	}

	return nil
}
