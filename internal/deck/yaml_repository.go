package deck

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wiaanjvr/fluency-next-sub010/internal/config"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

const indexFileName = "index.yml"

// YAMLRepository stores decks as directories of YAML files. Each deck
// directory holds an index.yml describing the deck plus any number of
// word files, each a list of items. Review events live apart from the
// decks, one file per deck, newest first.
type YAMLRepository struct {
	directories []string
	eventsDir   string
}

// NewYAMLRepository creates a new YAMLRepository.
func NewYAMLRepository(cfg config.DecksConfig) *YAMLRepository {
	return &YAMLRepository{
		directories: cfg.Directories,
		eventsDir:   cfg.EventsDirectory,
	}
}

// deckDir pairs a deck index with the directory it was read from.
type deckDir struct {
	path string
	deck Deck
}

func (r *YAMLRepository) deckDirs() ([]deckDir, error) {
	var dirs []deckDir
	for _, root := range r.directories {
		entries, err := os.ReadDir(root)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("os.ReadDir(%s)> %w", root, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			path := filepath.Join(root, entry.Name())
			index, err := readYamlFile[Deck](filepath.Join(path, indexFileName))
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return nil, err
			}
			if index.ID == "" {
				index.ID = entry.Name()
			}
			dirs = append(dirs, deckDir{path: path, deck: index})
		}
	}

	sort.Slice(dirs, func(i, j int) bool {
		return dirs[i].deck.ID < dirs[j].deck.ID
	})
	return dirs, nil
}

func wordFileFilter(path string, info os.FileInfo) bool {
	return isYamlFile(path, info) && filepath.Base(path) != indexFileName
}

func (r *YAMLRepository) loadDeckItems(d deckDir) ([]srs.Item, error) {
	files, err := loadYamlFiles[[]srs.Item](d.path, wordFileFilter)
	if err != nil {
		return nil, err
	}

	var items []srs.Item
	for _, file := range files {
		for _, item := range file.contents {
			// The directory an item lives in decides its deck.
			item.Deck = d.deck.ID
			// Hand-written word files may omit the status.
			if !item.Status.IsValid() {
				item.Status = srs.StatusNew
			}
			items = append(items, item)
		}
	}
	return items, nil
}

// Decks returns the index of every deck directory, sorted by ID.
func (r *YAMLRepository) Decks(ctx context.Context) ([]Deck, error) {
	dirs, err := r.deckDirs()
	if err != nil {
		return nil, err
	}

	decks := make([]Deck, 0, len(dirs))
	for _, d := range dirs {
		decks = append(decks, d.deck)
	}
	return decks, nil
}

// SaveDeck writes the deck index, creating the deck directory under the
// first configured root when the deck is new.
func (r *YAMLRepository) SaveDeck(ctx context.Context, d Deck) error {
	if d.ID == "" {
		return fmt.Errorf("save deck: %w", ErrDeckNotFound)
	}

	dirs, err := r.deckDirs()
	if err != nil {
		return err
	}
	for _, existing := range dirs {
		if existing.deck.ID == d.ID {
			return WriteYamlFile(filepath.Join(existing.path, indexFileName), d)
		}
	}

	if len(r.directories) == 0 {
		return fmt.Errorf("save deck %s: no deck directories configured", d.ID)
	}
	path := filepath.Join(r.directories[0], d.ID)
	return WriteYamlFile(filepath.Join(path, indexFileName), d)
}

// BatchCreate appends new items to the words file of their deck. Every
// item's deck must already exist.
func (r *YAMLRepository) BatchCreate(ctx context.Context, items []srs.Item) error {
	if len(items) == 0 {
		return nil
	}

	byDeck := make(map[string][]srs.Item)
	for _, item := range items {
		byDeck[item.Deck] = append(byDeck[item.Deck], item)
	}

	dirs, err := r.deckDirs()
	if err != nil {
		return err
	}
	paths := make(map[string]string, len(dirs))
	for _, d := range dirs {
		paths[d.deck.ID] = d.path
	}

	deckIDs := make([]string, 0, len(byDeck))
	for deckID := range byDeck {
		deckIDs = append(deckIDs, deckID)
	}
	sort.Strings(deckIDs)

	for _, deckID := range deckIDs {
		path, ok := paths[deckID]
		if !ok {
			return fmt.Errorf("create items in deck %s: %w", deckID, ErrDeckNotFound)
		}

		wordsPath := filepath.Join(path, "words.yml")
		existing, err := readYamlFile[[]srs.Item](wordsPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		existing = append(existing, byDeck[deckID]...)
		if err := WriteYamlFile(wordsPath, existing); err != nil {
			return err
		}
	}
	return nil
}

// FindAll returns every item from every deck.
func (r *YAMLRepository) FindAll(ctx context.Context) ([]srs.Item, error) {
	dirs, err := r.deckDirs()
	if err != nil {
		return nil, err
	}

	var items []srs.Item
	for _, d := range dirs {
		loaded, err := r.loadDeckItems(d)
		if err != nil {
			return nil, err
		}
		items = append(items, loaded...)
	}
	return items, nil
}

// FindByDeck returns every item of a single deck.
func (r *YAMLRepository) FindByDeck(ctx context.Context, deckID string) ([]srs.Item, error) {
	dirs, err := r.deckDirs()
	if err != nil {
		return nil, err
	}

	for _, d := range dirs {
		if d.deck.ID != deckID {
			continue
		}
		return r.loadDeckItems(d)
	}
	return nil, fmt.Errorf("find deck %s: %w", deckID, ErrDeckNotFound)
}

// FindItem returns a single item by ID.
func (r *YAMLRepository) FindItem(ctx context.Context, itemID string) (srs.Item, error) {
	items, err := r.FindAll(ctx)
	if err != nil {
		return srs.Item{}, err
	}

	for _, item := range items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return srs.Item{}, fmt.Errorf("find item %s: %w", itemID, ErrItemNotFound)
}

// SaveItem overwrites one item in the word file it was read from.
func (r *YAMLRepository) SaveItem(ctx context.Context, item srs.Item) error {
	return r.SaveItems(ctx, []srs.Item{item})
}

// SaveItems overwrites items in place. Every item must already exist in
// a word file; files that contain none of the items are left untouched.
func (r *YAMLRepository) SaveItems(ctx context.Context, items []srs.Item) error {
	if len(items) == 0 {
		return nil
	}

	byID := make(map[string]srs.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	dirs, err := r.deckDirs()
	if err != nil {
		return err
	}

	for _, d := range dirs {
		files, err := loadYamlFiles[[]srs.Item](d.path, wordFileFilter)
		if err != nil {
			return err
		}

		for _, file := range files {
			changed := false
			for i, existing := range file.contents {
				updated, ok := byID[existing.ID]
				if !ok {
					continue
				}
				file.contents[i] = updated
				delete(byID, existing.ID)
				changed = true
			}
			if !changed {
				continue
			}
			if err := WriteYamlFile(file.path, file.contents); err != nil {
				return err
			}
		}
	}

	if len(byID) > 0 {
		missing := make([]string, 0, len(byID))
		for id := range byID {
			missing = append(missing, id)
		}
		sort.Strings(missing)
		return fmt.Errorf("save items %s: %w", strings.Join(missing, ", "), ErrItemNotFound)
	}
	return nil
}

// AppendEvents prepends the events to the deck's event file, keeping the
// file ordered newest first.
func (r *YAMLRepository) AppendEvents(ctx context.Context, deckID string, events []srs.ReviewEvent) error {
	if len(events) == 0 {
		return nil
	}

	path := filepath.Join(r.eventsDir, deckID+".yml")
	existing, err := readYamlFile[[]srs.ReviewEvent](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	merged := make([]srs.ReviewEvent, 0, len(events)+len(existing))
	for i := len(events) - 1; i >= 0; i-- {
		merged = append(merged, events[i])
	}
	merged = append(merged, existing...)

	return WriteYamlFile(path, merged)
}

// Events returns every recorded review event across all decks.
func (r *YAMLRepository) Events(ctx context.Context) ([]srs.ReviewEvent, error) {
	if _, err := os.Stat(r.eventsDir); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	files, err := loadYamlFiles[[]srs.ReviewEvent](r.eventsDir, isYamlFile)
	if err != nil {
		return nil, err
	}

	var events []srs.ReviewEvent
	for _, file := range files {
		events = append(events, file.contents...)
	}
	return events, nil
}

// UnburyDeck clears the burial of every buried item in the deck and
// returns how many items changed.
func (r *YAMLRepository) UnburyDeck(ctx context.Context, deckID string) (int, error) {
	items, err := r.FindByDeck(ctx, deckID)
	if err != nil {
		return 0, err
	}

	var changed []srs.Item
	for _, item := range items {
		if item.BuriedUntil == nil {
			continue
		}
		changed = append(changed, srs.Unbury(item))
	}
	if len(changed) == 0 {
		return 0, nil
	}

	if err := r.SaveItems(ctx, changed); err != nil {
		return 0, err
	}
	return len(changed), nil
}
