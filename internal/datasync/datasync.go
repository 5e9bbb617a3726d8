// Package datasync provides import/export orchestration between YAML
// deck files, the offline outbox, and the database.
package datasync

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/wiaanjvr/fluency-next-sub010/internal/deck"
	"github.com/wiaanjvr/fluency-next-sub010/internal/outbox"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	DecksNew      int
	DecksSkipped  int
	ItemsNew      int
	ItemsUpdated  int
	ItemsSkipped  int
	EventsNew     int
	EventsSkipped int
	Warnings      int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer copies decks, items and review events from one repository
// into another, typically YAML notebooks into the database.
type Importer struct {
	source deck.Repository
	target deck.Repository
	writer io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(source, target deck.Repository, writer io.Writer) *Importer {
	return &Importer{
		source: source,
		target: target,
		writer: writer,
	}
}

// Import copies everything the target does not have yet. Existing items
// are overwritten only with UpdateExisting; events are append-only and
// deduplicated by event ID.
func (imp *Importer) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult

	itemDecks, err := imp.importDecks(ctx, opts, &result)
	if err != nil {
		return nil, err
	}
	if err := imp.importItems(ctx, opts, &result); err != nil {
		return nil, err
	}
	if err := imp.importEvents(ctx, opts, itemDecks, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// importDecks copies missing deck indexes and returns the item ID to
// deck ID mapping of the source, which event import needs.
func (imp *Importer) importDecks(ctx context.Context, opts ImportOptions, result *ImportResult) (map[string]string, error) {
	sourceDecks, err := imp.source.Decks(ctx)
	if err != nil {
		return nil, fmt.Errorf("source.Decks() > %w", err)
	}
	targetDecks, err := imp.target.Decks(ctx)
	if err != nil {
		return nil, fmt.Errorf("target.Decks() > %w", err)
	}

	existing := make(map[string]bool, len(targetDecks))
	for _, d := range targetDecks {
		existing[d.ID] = true
	}

	for _, d := range sourceDecks {
		if existing[d.ID] {
			fmt.Fprintf(imp.writer, "  [SKIP]  deck %q\n", d.ID)
			result.DecksSkipped++
			continue
		}
		if !opts.DryRun {
			if err := imp.target.SaveDeck(ctx, d); err != nil {
				return nil, fmt.Errorf("SaveDeck(%s) > %w", d.ID, err)
			}
		}
		fmt.Fprintf(imp.writer, "  [NEW]   deck %q (%s)\n", d.ID, d.Name)
		result.DecksNew++
	}

	items, err := imp.source.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("source.FindAll() > %w", err)
	}
	itemDecks := make(map[string]string, len(items))
	for _, item := range items {
		itemDecks[item.ID] = item.Deck
	}
	return itemDecks, nil
}

func (imp *Importer) importItems(ctx context.Context, opts ImportOptions, result *ImportResult) error {
	sourceItems, err := imp.source.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("source.FindAll() > %w", err)
	}
	targetItems, err := imp.target.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("target.FindAll() > %w", err)
	}

	existing := make(map[string]bool, len(targetItems))
	for _, item := range targetItems {
		existing[item.ID] = true
	}

	var created []srs.Item
	for _, item := range sourceItems {
		if !existing[item.ID] {
			created = append(created, item)
			fmt.Fprintf(imp.writer, "  [NEW]   %q (%s)\n", item.Lemma, item.ID)
			result.ItemsNew++
			continue
		}
		if !opts.UpdateExisting {
			fmt.Fprintf(imp.writer, "  [SKIP]  %q (%s)\n", item.Lemma, item.ID)
			result.ItemsSkipped++
			continue
		}
		if !opts.DryRun {
			if err := imp.target.SaveItem(ctx, item); err != nil {
				return fmt.Errorf("SaveItem(%s) > %w", item.ID, err)
			}
		}
		fmt.Fprintf(imp.writer, "  [UPDATE] %q (%s)\n", item.Lemma, item.ID)
		result.ItemsUpdated++
	}

	if len(created) > 0 && !opts.DryRun {
		if err := imp.target.BatchCreate(ctx, created); err != nil {
			return fmt.Errorf("BatchCreate() > %w", err)
		}
	}
	return nil
}

func (imp *Importer) importEvents(ctx context.Context, opts ImportOptions, itemDecks map[string]string, result *ImportResult) error {
	sourceEvents, err := imp.source.Events(ctx)
	if err != nil {
		return fmt.Errorf("source.Events() > %w", err)
	}
	targetEvents, err := imp.target.Events(ctx)
	if err != nil {
		return fmt.Errorf("target.Events() > %w", err)
	}

	existing := make(map[string]bool, len(targetEvents))
	for _, event := range targetEvents {
		existing[event.ID] = true
	}

	byDeck := make(map[string][]srs.ReviewEvent)
	for _, event := range sourceEvents {
		if existing[event.ID] {
			result.EventsSkipped++
			continue
		}
		deckID, ok := itemDecks[event.ItemID]
		if !ok {
			fmt.Fprintf(imp.writer, "  [WARN]  event %s references unknown item %s\n", event.ID, event.ItemID)
			result.Warnings++
			continue
		}
		byDeck[deckID] = append(byDeck[deckID], event)
		result.EventsNew++
	}

	deckIDs := make([]string, 0, len(byDeck))
	for deckID := range byDeck {
		deckIDs = append(deckIDs, deckID)
	}
	sort.Strings(deckIDs)

	for _, deckID := range deckIDs {
		if opts.DryRun {
			continue
		}
		if err := imp.target.AppendEvents(ctx, deckID, byDeck[deckID]); err != nil {
			return fmt.Errorf("AppendEvents(%s) > %w", deckID, err)
		}
	}
	return nil
}

// Flusher drains the offline outbox into a repository.
type Flusher struct {
	outbox *outbox.Outbox
	target deck.Repository
	writer io.Writer
}

// NewFlusher creates a new Flusher.
func NewFlusher(ob *outbox.Outbox, target deck.Repository, writer io.Writer) *Flusher {
	return &Flusher{
		outbox: ob,
		target: target,
		writer: writer,
	}
}

// Flush appends every pending review event to its deck's event log and
// marks the outbox rows flushed. It returns how many events moved.
func (f *Flusher) Flush(ctx context.Context) (int, error) {
	pending, err := f.outbox.Pending(ctx)
	if err != nil {
		return 0, fmt.Errorf("outbox.Pending() > %w", err)
	}
	if len(pending) == 0 {
		fmt.Fprintln(f.writer, "outbox is empty")
		return 0, nil
	}

	byDeck := make(map[string][]srs.ReviewEvent)
	ids := make([]int64, 0, len(pending))
	for _, p := range pending {
		byDeck[p.DeckID] = append(byDeck[p.DeckID], p.Event)
		ids = append(ids, p.ID)
	}

	deckIDs := make([]string, 0, len(byDeck))
	for deckID := range byDeck {
		deckIDs = append(deckIDs, deckID)
	}
	sort.Strings(deckIDs)

	for _, deckID := range deckIDs {
		if err := f.target.AppendEvents(ctx, deckID, byDeck[deckID]); err != nil {
			return 0, fmt.Errorf("AppendEvents(%s) > %w", deckID, err)
		}
		fmt.Fprintf(f.writer, "  flushed %d events into deck %q\n", len(byDeck[deckID]), deckID)
	}

	if err := f.outbox.MarkFlushed(ctx, ids); err != nil {
		return 0, fmt.Errorf("outbox.MarkFlushed() > %w", err)
	}
	return len(pending), nil
}
