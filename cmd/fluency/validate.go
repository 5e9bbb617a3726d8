package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wiaanjvr/fluency-next-sub010/internal/deck"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate deck and review event files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			result, err := deck.NewValidator(cfg.Decks).Validate()
			if err != nil {
				return fmt.Errorf("validate decks > %w", err)
			}

			out := cmd.OutOrStdout()
			for _, e := range result.DeckErrors {
				fmt.Fprintf(out, "ERROR  %s\n", e.Error())
			}
			for _, e := range result.ConsistencyErrors {
				fmt.Fprintf(out, "ERROR  %s\n", e.Error())
			}
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "WARN   %s\n", w.Error())
			}

			if result.HasErrors() {
				return fmt.Errorf("validation failed: %d errors",
					len(result.DeckErrors)+len(result.ConsistencyErrors))
			}
			fmt.Fprintln(out, "All deck and event files are valid.")
			return nil
		},
	}
}
