// cmd/dgwtail/set_command.go
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tamzrod/dgwtail/internal/device"
	"github.com/tamzrod/dgwtail/internal/modbus"
)

type setFlags struct {
	addr            int
	serial          string
	watchdogEnable  bool
	watchdogDisable bool
	watchdogTimeout float64
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	var f setFlags

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change gateway parameters, then show the resulting settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.watchdogEnable && f.watchdogDisable {
				return errors.New("--watchdog-enable and --watchdog-disable are mutually exclusive")
			}
			changed := cmd.Flags().Changed
			if !changed("addr") && !changed("serial") && !changed("watchdog-timeout") &&
				!f.watchdogEnable && !f.watchdogDisable {
				return errors.New("nothing to set")
			}

			return ctx.withClient(func(client *modbus.Client) error {
				dev := device.New(client, ctx.logger.Named("device"))
				if err := applySettings(cmd, dev, f, ctx.logger); err != nil {
					return fmt.Errorf("setting parameters: %w", err)
				}
				return printInfo(cmd, dev)
			})
		},
	}

	cmd.Flags().IntVar(&f.addr, "addr", 0, "New Modbus address (1-247)")
	cmd.Flags().StringVar(&f.serial, "serial", "", "New serial settings BAUD[,N|O|E]")
	cmd.Flags().BoolVar(&f.watchdogEnable, "watchdog-enable", false, "Enable the watchdog")
	cmd.Flags().BoolVar(&f.watchdogDisable, "watchdog-disable", false, "Disable the watchdog")
	cmd.Flags().Float64Var(&f.watchdogTimeout, "watchdog-timeout", 0, "Watchdog timeout in seconds (0.1-25.5)")

	return cmd
}

// applySettings writes the requested parameters in a fixed order.
func applySettings(cmd *cobra.Command, dev *device.Device, f setFlags, logger *zap.Logger) error {
	changed := cmd.Flags().Changed

	if changed("addr") {
		logger.Info("setting module address", zap.Int("addr", f.addr))
		if err := dev.SetAddress(f.addr); err != nil {
			return err
		}
	}
	if changed("serial") {
		if err := dev.SetSerial(f.serial); err != nil {
			return err
		}
	}
	if f.watchdogEnable || f.watchdogDisable {
		if err := dev.SetWatchdogEnabled(f.watchdogEnable); err != nil {
			return err
		}
	}
	if changed("watchdog-timeout") {
		if err := dev.SetWatchdogTimeout(f.watchdogTimeout); err != nil {
			return err
		}
	}
	return nil
}
