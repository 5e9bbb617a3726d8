package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wiaanjvr/fluency-next-sub010/internal/database"
	"github.com/wiaanjvr/fluency-next-sub010/internal/datasync"
	"github.com/wiaanjvr/fluency-next-sub010/internal/deck"
	"github.com/wiaanjvr/fluency-next-sub010/schemas"
)

func newSyncCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize local YAML data with the database",
	}
	command.AddCommand(newSyncImportDBCommand(), newSyncFlushCommand())
	return command
}

func newSyncImportDBCommand() *cobra.Command {
	var dryRun, updateExisting bool

	command := &cobra.Command{
		Use:   "import-db",
		Short: "Import YAML decks, items and review events into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			importer := datasync.NewImporter(
				newRepository(cfg),
				deck.NewDBRepository(db),
				cmd.OutOrStdout(),
			)
			result, err := importer.Import(cmd.Context(), datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			})
			if err != nil {
				return fmt.Errorf("import > %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"\nDecks: %d new, %d skipped\nItems: %d new, %d updated, %d skipped\nEvents: %d new, %d skipped\nWarnings: %d\n",
				result.DecksNew, result.DecksSkipped,
				result.ItemsNew, result.ItemsUpdated, result.ItemsSkipped,
				result.EventsNew, result.EventsSkipped,
				result.Warnings,
			)
			if dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), "(dry run: nothing was written)")
			}
			return nil
		},
	}
	command.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	command.Flags().BoolVar(&updateExisting, "update", false, "overwrite items that already exist in the database")
	return command
}

func newSyncFlushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Flush the offline outbox into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ob, err := openOutbox(cfg)
			if err != nil {
				return fmt.Errorf("open outbox > %w", err)
			}
			defer func() {
				_ = ob.Close()
			}()

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			flusher := datasync.NewFlusher(ob, deck.NewDBRepository(db), cmd.OutOrStdout())
			flushed, err := flusher.Flush(cmd.Context())
			if err != nil {
				return fmt.Errorf("flush > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Flushed %d events.\n", flushed)
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}
	command.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply the embedded schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			if err := database.Migrate(cmd.Context(), db, schemas.Migrations); err != nil {
				return fmt.Errorf("database.Migrate > %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	})
	return command
}
