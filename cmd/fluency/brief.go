package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wiaanjvr/fluency-next-sub010/internal/content"
	"github.com/wiaanjvr/fluency-next-sub010/internal/corpus"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

func newBriefCommand() *cobra.Command {
	var wordCount int
	var pdf bool

	command := &cobra.Command{
		Use:   "brief [deck]",
		Short: "Generate a reading brief from the words worth practicing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			deckID := ""
			if len(args) > 0 {
				deckID = args[0]
			}

			repo := newRepository(cfg)
			var items []srs.Item
			if deckID == "" {
				items, err = repo.FindAll(cmd.Context())
			} else {
				items, err = repo.FindByDeck(cmd.Context(), deckID)
			}
			if err != nil {
				return fmt.Errorf("load items > %w", err)
			}

			ranks, err := corpus.NewClient(cfg.Corpus).TableFor(cmd.Context(), items)
			if err != nil {
				return fmt.Errorf("load frequency ranks > %w", err)
			}

			target := wordCount
			if target <= 0 {
				target = cfg.Content.TargetWords
			}

			brief := content.BuildBrief(deckID, items, ranks, target, time.Now(), nil)
			path, err := content.NewGenerator(cfg.Content).WriteMarkdown(brief)
			if err != nil {
				return fmt.Errorf("write brief > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

			if pdf {
				pdfPath, err := content.ConvertToPDF(path)
				if err != nil {
					return fmt.Errorf("convert brief to PDF > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", pdfPath)
			}
			return nil
		},
	}
	command.Flags().IntVar(&wordCount, "words", 0, "number of words to select (default from config)")
	command.Flags().BoolVar(&pdf, "pdf", false, "also render the brief as a PDF")
	return command
}
