// cmd/dgwtail/context.go
package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tamzrod/dgwtail/internal/config"
	"github.com/tamzrod/dgwtail/internal/logging"
	"github.com/tamzrod/dgwtail/internal/modbus"
)

type globalFlags struct {
	config    string
	device    string
	speed     int
	slaveID   int
	mode      string
	parity    string
	logLevel  string
	logFormat string
	debug     bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	logger     *zap.Logger
	configErr  error

	// dial is replaced in tests.
	dial func(cfg *config.Config, logger *zap.Logger) (*modbus.Client, error)
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{
		flags: flags,
		dial:  dialModbus,
	}
}

// ensureConfig loads the config file (if any), applies flag overrides,
// validates and builds the logger. Runs once per process.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := c.loadConfig(cmd)
		if err != nil {
			c.configErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: cmd.ErrOrStderr(),
		})
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

func (c *commandContext) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if path := strings.TrimSpace(c.flags.config); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		def := config.Default()
		cfg = &def
	}

	c.applyFlags(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}

// applyFlags overrides config values with explicitly set flags.
func (c *commandContext) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	f := c.flags

	if changed("device") {
		cfg.Transport.Device = f.device
	}
	if changed("speed") {
		cfg.Transport.BaudRate = f.speed
	}
	if changed("mb-addr") {
		cfg.Transport.SlaveID = f.slaveID
	}
	if changed("mode") {
		cfg.Transport.Mode = f.mode
	}
	if changed("parity") {
		cfg.Transport.Parity = f.parity
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if changed("debug") {
		cfg.Transport.Debug = f.debug
	}
	if cfg.Transport.Debug && !changed("log-level") {
		cfg.Log.Level = "debug"
	}
}

func (c *commandContext) withClient(fn func(*modbus.Client) error) error {
	client, err := c.dial(c.config, c.logger)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func dialModbus(cfg *config.Config, logger *zap.Logger) (*modbus.Client, error) {
	mc := config.ModbusConfig(cfg)
	if cfg.Transport.Debug {
		mc.Logger = logging.StdLog(logger.Named("modbus"))
	}
	return modbus.New(mc)
}
