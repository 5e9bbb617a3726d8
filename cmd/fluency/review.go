package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wiaanjvr/fluency-next-sub010/internal/cli"
)

func newReviewCommand() *cobra.Command {
	var rawQuery string
	var offline bool

	command := &cobra.Command{
		Use:   "review [deck]",
		Short: "Run an interactive review session over the due queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var sink cli.EventSink
			if offline {
				ob, err := openOutbox(cfg)
				if err != nil {
					return fmt.Errorf("open outbox > %w", err)
				}
				defer func() {
					_ = ob.Close()
				}()
				sink = ob
				fmt.Fprintln(cmd.OutOrStdout(), "Offline mode: review events will be queued for sync.")
			}

			deckID := ""
			if len(args) > 0 {
				deckID = args[0]
			}

			session := cli.NewReviewSession(newReviewService(cfg), sink, os.Stdin, os.Stdout)
			return session.Start(cmd.Context(), deckID, rawQuery)
		},
	}
	command.Flags().StringVarP(&rawQuery, "query", "q", "", "search query narrowing the queue")
	command.Flags().BoolVar(&offline, "offline", false, "queue review events in the local outbox")
	return command
}

func newQueueCommand() *cobra.Command {
	var rawQuery string

	command := &cobra.Command{
		Use:   "queue [deck]",
		Short: "List the cards currently due",
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

			queue, err := newReviewService(cfg).Queue(cmd.Context(), deckID, rawQuery)
			if err != nil {
				return fmt.Errorf("build queue > %w", err)
			}
			cli.PrintQueue(cmd.OutOrStdout(), queue, time.Now())
			return nil
		},
	}
	command.Flags().StringVarP(&rawQuery, "query", "q", "", "search query narrowing the queue")
	return command
}
