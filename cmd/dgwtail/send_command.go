// cmd/dgwtail/send_command.go
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tamzrod/dgwtail/internal/device"
	"github.com/tamzrod/dgwtail/internal/modbus"
)

func newSendCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "send CMD...",
		Short: "Send hex command words through the gateway command queue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmds, err := parseCommands(args)
			if err != nil {
				return err
			}

			return ctx.withClient(func(client *modbus.Client) error {
				dev := device.New(client, ctx.logger.Named("device"))
				replies, err := dev.Send(cmd.Context(), cmds)
				out := cmd.OutOrStdout()
				for i, r := range replies {
					fmt.Fprintf(out, "%04x => %04x\n", cmds[i], r)
				}
				if err != nil {
					return fmt.Errorf("sending commands: %w", err)
				}
				return nil
			})
		},
	}
}

// parseCommands parses 16-bit hex words, with or without a 0x prefix.
func parseCommands(args []string) ([]uint16, error) {
	cmds := make([]uint16, 0, len(args))
	for _, a := range args {
		s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(a)), "0x")
		v, err := strconv.ParseUint(s, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid command %q: %w", a, err)
		}
		cmds = append(cmds, uint16(v))
	}
	return cmds, nil
}
