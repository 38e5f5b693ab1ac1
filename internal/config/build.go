// internal/config/build.go
package config

import (
	"time"

	"github.com/tamzrod/dgwtail/internal/modbus"
	"github.com/tamzrod/dgwtail/internal/tailer"
)

// ModbusConfig builds the transport config. Frame tracing is wired by the caller.
func ModbusConfig(cfg *Config) modbus.Config {
	t := cfg.Transport
	return modbus.Config{
		Mode:     t.Mode,
		Address:  t.Device,
		SlaveID:  uint8(t.SlaveID),
		Timeout:  time.Duration(t.TimeoutMs) * time.Millisecond,
		BaudRate: t.BaudRate,
		DataBits: t.DataBits,
		Parity:   t.Parity,
		StopBits: t.StopBits,
		LockDir:  t.LockDir,
	}
}

// TailerConfig builds the immutable tailer config.
func TailerConfig(cfg *Config) tailer.Config {
	tl := cfg.Tail
	return tailer.Config{
		Device:          cfg.Transport.Device,
		Interval:        time.Duration(tl.IntervalMs) * time.Millisecond,
		SequenceAddress: tl.SequenceAddress,
		RecordsAddress:  tl.RecordsAddress,
		Geometry: tailer.Geometry{
			Slots:       tl.Slots,
			MaxRecords:  tl.MaxRecords,
			RecordWidth: tl.RecordWidth,
		},
	}
}
