package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manualmanul/XBN/internal/preflight"
)

func newStatusCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check binaries, directories, and the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintf(out, "Config file: %s\n\n", cctx.resolvedConfigPath())

			failed := 0
			var rows [][]string
			for _, status := range preflight.CheckSystemDeps(cfg) {
				label := paint("ok", ansiGreen, colorize)
				detail := status.Command
				if !status.Available {
					if !status.Optional {
						failed++
					}
					label = paint("FAIL", ansiRed, colorize)
					detail = status.Detail
				}
				rows = append(rows, []string{status.Name, label, detail})
			}
			for _, result := range preflight.RunAll(cfg) {
				label := paint("ok", ansiGreen, colorize)
				if !result.Passed {
					failed++
					label = paint("FAIL", ansiRed, colorize)
				}
				rows = append(rows, []string{result.Name, label, result.Detail})
			}

			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows))
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
