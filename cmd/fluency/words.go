package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wiaanjvr/fluency-next-sub010/internal/deck"
	"github.com/wiaanjvr/fluency-next-sub010/internal/query"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

func newWordsCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "words",
		Short: "Manage vocabulary items",
	}
	command.AddCommand(newWordsAddCommand(), newWordsListCommand())
	return command
}

func newWordsAddCommand() *cobra.Command {
	var definition, class, siblingGroup string
	var tags, examples []string

	command := &cobra.Command{
		Use:   "add <deck> <lemma>",
		Short: "Add a new word to a deck",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			deckID, lemma := args[0], args[1]

			repo := newRepository(cfg)
			decks, err := repo.Decks(cmd.Context())
			if err != nil {
				return fmt.Errorf("load decks > %w", err)
			}
			language := ""
			for _, d := range decks {
				if d.ID == deckID {
					language = d.Language
				}
			}

			item := srs.NewItem(lemma, language, time.Now())
			item.Deck = deckID
			item.Definition = definition
			item.Class = class
			item.SiblingGroup = siblingGroup
			item.Tags = tags
			item.Examples = examples

			if err := repo.BatchCreate(cmd.Context(), []srs.Item{item}); err != nil {
				return fmt.Errorf("create item > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q to deck %q (%s)\n", lemma, deckID, item.ID)
			return nil
		},
	}
	command.Flags().StringVar(&definition, "definition", "", "definition shown on the answer side")
	command.Flags().StringVar(&class, "class", "", "word class: noun, verb, ...")
	command.Flags().StringVar(&siblingGroup, "sibling-group", "", "group of near-duplicate cards")
	command.Flags().StringSliceVar(&tags, "tag", nil, "tags, repeatable")
	command.Flags().StringSliceVar(&examples, "example", nil, "example sentences, repeatable")
	return command
}

func newWordsListCommand() *cobra.Command {
	var rawQuery string

	command := &cobra.Command{
		Use:   "list [deck]",
		Short: "List items, optionally narrowed by a search query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			repo := newRepository(cfg)
			var items []srs.Item
			if len(args) > 0 {
				items, err = repo.FindByDeck(cmd.Context(), args[0])
			} else {
				items, err = repo.FindAll(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("load items > %w", err)
			}

			pq := query.Parse(rawQuery)
			now := time.Now()
			out := cmd.OutOrStdout()

			count := 0
			for _, item := range items {
				if !deck.MatchItem(item, pq, now, cfg.Scheduler.LeechThreshold) {
					continue
				}
				count++
				fmt.Fprintf(out, "%-24s  %-10s  %-9s  reps=%d ease=%.2f lapses=%d\n",
					item.Lemma, item.Deck, item.Status,
					item.Repetitions, item.EaseFactor, item.Lapses)
			}
			fmt.Fprintf(out, "\n%d items (%s)\n", count, query.Describe(pq))
			return nil
		},
	}
	command.Flags().StringVarP(&rawQuery, "query", "q", "", "search query")
	return command
}
