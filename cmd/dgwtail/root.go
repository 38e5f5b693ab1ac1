// cmd/dgwtail/root.go
package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	return buildRootCommand(newCommandContext(&globalFlags{}))
}

func buildRootCommand(ctx *commandContext) *cobra.Command {
	flags := ctx.flags

	rootCmd := &cobra.Command{
		Use:           "dgwtail",
		Short:         "Diagnostics client for DGW-521 Modbus gateways",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file path (.yaml or .toml)")
	pf.StringVarP(&flags.device, "device", "d", "", "Serial device or host:port")
	pf.IntVarP(&flags.speed, "speed", "s", 0, "Serial baud rate")
	pf.IntVar(&flags.slaveID, "mb-addr", 0, "Modbus address of the gateway")
	pf.StringVar(&flags.mode, "mode", "", "Transport: rtu or tcp")
	pf.StringVar(&flags.parity, "parity", "", "Serial parity: N, E or O")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: auto, console or json")
	pf.BoolVar(&flags.debug, "debug", false, "Trace Modbus frames on stderr")

	rootCmd.AddCommand(newTailCommand(ctx))
	rootCmd.AddCommand(newInfoCommand(ctx))
	rootCmd.AddCommand(newSetCommand(ctx))
	rootCmd.AddCommand(newSendCommand(ctx))

	return rootCmd
}
