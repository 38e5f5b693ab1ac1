// cmd/dgwtail/info_command.go
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tamzrod/dgwtail/internal/device"
	"github.com/tamzrod/dgwtail/internal/modbus"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show gateway identity and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *modbus.Client) error {
				dev := device.New(client, ctx.logger.Named("device"))
				return printInfo(cmd, dev)
			})
		},
	}
}

func printInfo(cmd *cobra.Command, dev *device.Device) error {
	info, err := dev.ReadInfo(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading info: %w", err)
	}
	writeInfo(cmd.OutOrStdout(), info)
	return nil
}

func writeInfo(w io.Writer, info device.Info) {
	watchdog := "disabled"
	if info.WatchdogEnabled {
		watchdog = "enabled"
	}

	rows := [][2]string{
		{"Firmware version", fmt.Sprintf("0x%08x", info.Firmware)},
		{"Module name", fmt.Sprintf("0x%08x", info.ModuleName)},
		{"Module address", fmt.Sprintf("%d", info.BusAddress)},
		{"Serial port", info.Serial.String()},
		{"Watchdog", watchdog},
		{"Watchdog timeout", fmt.Sprintf("%.1f s", info.WatchdogTimeout.Seconds())},
	}
	fmt.Fprintln(w, renderKeyValues("", rows))
}
