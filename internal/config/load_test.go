// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "dgwtail.yaml", `
transport:
  device: /dev/ttyUSB1
  baud_rate: 19200
tail:
  interval_ms: 250
  format: records
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}

	if cfg.Transport.Device != "/dev/ttyUSB1" || cfg.Transport.BaudRate != 19200 {
		t.Fatalf("transport=%+v", cfg.Transport)
	}
	if cfg.Tail.IntervalMs != 250 || cfg.Tail.Format != "records" {
		t.Fatalf("tail=%+v", cfg.Tail)
	}
	// untouched keys keep defaults
	if cfg.Tail.MaxRecords != 24 || cfg.Transport.SlaveID != 1 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "dgwtail.toml", `
[transport]
mode = "tcp"
device = "192.168.1.10:502"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Transport.Mode != "tcp" || cfg.Transport.Device != "192.168.1.10:502" {
		t.Fatalf("transport=%+v", cfg.Transport)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log=%+v", cfg.Log)
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	path := writeFile(t, "dgwtail.yaml", "transport:\n  speed: 9600\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoad_EmptyFileIsDefaults(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if *cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
