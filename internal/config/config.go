// internal/config/config.go
package config

type Config struct {
	Transport TransportConfig `yaml:"transport" toml:"transport"`
	Tail      TailConfig      `yaml:"tail" toml:"tail"`
	Log       LogConfig       `yaml:"log" toml:"log"`
}

// ---- TRANSPORT ----

type TransportConfig struct {
	Mode      string `yaml:"mode" toml:"mode"`       // rtu | tcp
	Device    string `yaml:"device" toml:"device"`   // serial path or host:port
	SlaveID   int    `yaml:"slave_id" toml:"slave_id"`
	TimeoutMs int    `yaml:"timeout_ms" toml:"timeout_ms"`

	// Serial line (rtu only)
	BaudRate int    `yaml:"baud_rate" toml:"baud_rate"`
	DataBits int    `yaml:"data_bits" toml:"data_bits"`
	Parity   string `yaml:"parity" toml:"parity"`
	StopBits int    `yaml:"stop_bits" toml:"stop_bits"`

	// Debug traces raw frames on the log side channel.
	Debug   bool   `yaml:"debug" toml:"debug"`
	LockDir string `yaml:"lock_dir" toml:"lock_dir"`
}

// ---- RING GEOMETRY ----

type TailConfig struct {
	IntervalMs      int    `yaml:"interval_ms" toml:"interval_ms"`
	SequenceAddress uint16 `yaml:"sequence_address" toml:"sequence_address"`
	RecordsAddress  uint16 `yaml:"records_address" toml:"records_address"`
	Slots           uint16 `yaml:"slots" toml:"slots"`
	MaxRecords      uint16 `yaml:"max_records" toml:"max_records"`
	RecordWidth     uint16 `yaml:"record_width" toml:"record_width"`
	Format          string `yaml:"format" toml:"format"` // raw | records
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug | info | warn | error
	Format string `yaml:"format" toml:"format"` // auto | console | json
}
