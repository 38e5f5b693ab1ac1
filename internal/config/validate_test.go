// internal/config/validate_test.go
package config

import "testing"

// helper to derive a config from defaults quickly
func with(mut func(c *Config)) *Config {
	c := Default()
	mut(&c)
	return &c
}

// ---- tests ----

func TestValidate_DefaultsAreValid(t *testing.T) {
	c := Default()
	if err := Validate(&c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_TCPSkipsSerialChecks(t *testing.T) {
	cfg := with(func(c *Config) {
		c.Transport.Mode = "TCP"
		c.Transport.Device = "10.0.0.5:502"
		c.Transport.BaudRate = 0
		c.Transport.Parity = ""
	})

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]*Config{
		"mode":          with(func(c *Config) { c.Transport.Mode = "ascii" }),
		"device":        with(func(c *Config) { c.Transport.Device = "  " }),
		"slave id":      with(func(c *Config) { c.Transport.SlaveID = 248 }),
		"timeout":       with(func(c *Config) { c.Transport.TimeoutMs = 0 }),
		"baud":          with(func(c *Config) { c.Transport.BaudRate = 12345 }),
		"parity":        with(func(c *Config) { c.Transport.Parity = "X" }),
		"stop bits":     with(func(c *Config) { c.Transport.StopBits = 3 }),
		"interval":      with(func(c *Config) { c.Tail.IntervalMs = 0 }),
		"slots":         with(func(c *Config) { c.Tail.Slots = 24 }),
		"window":        with(func(c *Config) { c.Tail.MaxRecords = 40 }),
		"format":        with(func(c *Config) { c.Tail.Format = "xml" }),
		"log level":     with(func(c *Config) { c.Log.Level = "trace" }),
		"log format":    with(func(c *Config) { c.Log.Format = "logfmt" }),
		"ring past end": with(func(c *Config) { c.Tail.RecordsAddress = 0xfff0 }),
	}

	for name, cfg := range cases {
		if err := Validate(cfg); err == nil {
			t.Fatalf("%s: expected error, got nil", name)
		}
	}
}

func TestValidate_SequenceInsideRingDetected(t *testing.T) {
	cfg := with(func(c *Config) {
		c.Tail.SequenceAddress = 1024 + 10 // inside 1024-1087
	})

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}
}

func TestValidate_SequenceTouchingRingAllowed(t *testing.T) {
	cfg := with(func(c *Config) {
		c.Tail.SequenceAddress = 1023
	})

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalize(t *testing.T) {
	cfg := with(func(c *Config) {
		c.Transport.Mode = "RTU"
		c.Transport.Parity = "e"
		c.Transport.Device = " /dev/ttyUSB0 "
		c.Tail.Format = ""
		c.Log.Level = "DEBUG"
	})

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Normalize(cfg)

	if cfg.Transport.Mode != "rtu" || cfg.Transport.Parity != "E" || cfg.Transport.Device != "/dev/ttyUSB0" {
		t.Fatalf("transport not normalized: %+v", cfg.Transport)
	}
	if cfg.Tail.Format != "raw" || cfg.Log.Level != "debug" {
		t.Fatalf("tail/log not normalized: %+v %+v", cfg.Tail, cfg.Log)
	}
}

func TestTailerConfig(t *testing.T) {
	c := Default()
	tc := TailerConfig(&c)

	if tc.Interval.Milliseconds() != 100 {
		t.Fatalf("interval=%s", tc.Interval)
	}
	if tc.SequenceAddress != 322 || tc.RecordsAddress != 1024 {
		t.Fatalf("addresses %d/%d", tc.SequenceAddress, tc.RecordsAddress)
	}
	if tc.Geometry.Slots != 32 || tc.Geometry.MaxRecords != 24 || tc.Geometry.RecordWidth != 2 {
		t.Fatalf("geometry %+v", tc.Geometry)
	}
}
