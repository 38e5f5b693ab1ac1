// internal/config/defaults.go
package config

import (
	"github.com/tamzrod/dgwtail/internal/modbus"
	"github.com/tamzrod/dgwtail/internal/tailer"
)

// Default returns the gateway's factory settings.
func Default() Config {
	g := tailer.DefaultGeometry()
	return Config{
		Transport: TransportConfig{
			Mode:      modbus.ModeRTU,
			Device:    "/dev/ttyACM0",
			SlaveID:   1,
			TimeoutMs: 500,
			BaudRate:  38400,
			DataBits:  8,
			Parity:    "N",
			StopBits:  1,
		},
		Tail: TailConfig{
			IntervalMs:      int(tailer.DefaultInterval.Milliseconds()),
			SequenceAddress: tailer.DefaultSequenceAddress,
			RecordsAddress:  tailer.DefaultRecordsAddress,
			Slots:           g.Slots,
			MaxRecords:      g.MaxRecords,
			RecordWidth:     g.RecordWidth,
			Format:          "raw",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}
