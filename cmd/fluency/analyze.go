package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wiaanjvr/fluency-next-sub010/internal/cli"
	"github.com/wiaanjvr/fluency-next-sub010/internal/stats"
)

func newAnalyzeCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze review history",
	}
	command.AddCommand(newAnalyzeReportCommand())
	return command
}

func newAnalyzeReportCommand() *cobra.Command {
	var year, month int

	command := &cobra.Command{
		Use:   "report",
		Short: "Show per-month review statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 0 || month > 12 {
				return fmt.Errorf("month out of range: %d", month)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			events, err := newRepository(cfg).Events(cmd.Context())
			if err != nil {
				return fmt.Errorf("load review events > %w", err)
			}

			cli.PrintReport(cmd.OutOrStdout(), stats.Calculate(events, year, month))
			return nil
		},
	}
	command.Flags().IntVar(&year, "year", 0, "only include this year")
	command.Flags().IntVar(&month, "month", 0, "only include this month (requires --year)")
	return command
}
