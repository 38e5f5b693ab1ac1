// internal/config/normalize.go
package config

import "strings"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Transport.Mode = strings.ToLower(cfg.Transport.Mode)
	cfg.Transport.Device = strings.TrimSpace(cfg.Transport.Device)
	cfg.Transport.Parity = strings.ToUpper(cfg.Transport.Parity)

	cfg.Tail.Format = strings.ToLower(cfg.Tail.Format)
	if cfg.Tail.Format == "" {
		cfg.Tail.Format = "raw"
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if cfg.Log.Format == "" {
		cfg.Log.Format = "auto"
	}
}
