// cmd/dgwtail/tail_command.go
package main

import (
	"github.com/spf13/cobra"

	"github.com/tamzrod/dgwtail/internal/config"
	"github.com/tamzrod/dgwtail/internal/runner"
	"github.com/tamzrod/dgwtail/internal/sink"
)

func newTailCommand(ctx *commandContext) *cobra.Command {
	var (
		intervalMs int
		format     string
		maxRecords uint16
	)

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow the gateway event log and print new records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *ctx.config
			if cmd.Flags().Changed("interval") {
				cfg.Tail.IntervalMs = intervalMs
			}
			if cmd.Flags().Changed("format") {
				cfg.Tail.Format = format
			}
			if cmd.Flags().Changed("max-records") {
				cfg.Tail.MaxRecords = maxRecords
			}
			if err := config.Validate(&cfg); err != nil {
				return err
			}
			config.Normalize(&cfg)

			out, err := sink.New(cmd.OutOrStdout(), sink.Format(cfg.Tail.Format))
			if err != nil {
				return err
			}

			return runner.Run(cmd.Context(), runner.Options{
				Dial: func() (runner.Transport, error) {
					client, err := ctx.dial(&cfg, ctx.logger)
					if err != nil {
						return nil, err
					}
					return client, nil
				},
				Tailer: config.TailerConfig(&cfg),
				Sink:   out,
				Logger: ctx.logger,
			})
		},
	}

	cmd.Flags().IntVar(&intervalMs, "interval", 0, "Poll interval in milliseconds")
	cmd.Flags().StringVar(&format, "format", "", "Output format: raw or records")
	cmd.Flags().Uint16Var(&maxRecords, "max-records", 0, "Records delivered per poll before reporting an overrun")

	return cmd
}
