package deck

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/wiaanjvr/fluency-next-sub010/internal/database"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// itemRecord is the flat row shape of the items table.
type itemRecord struct {
	ID            string         `db:"id"`
	DeckID        string         `db:"deck_id"`
	Lemma         string         `db:"lemma"`
	Language      string         `db:"language"`
	Definition    sql.NullString `db:"definition"`
	Note          sql.NullString `db:"note"`
	Source        string         `db:"source"`
	Class         string         `db:"class"`
	EaseFactor    float64        `db:"ease_factor"`
	Repetitions   int            `db:"repetitions"`
	IntervalDays  float64        `db:"interval_days"`
	NextReview    sql.NullTime   `db:"next_review"`
	Status        string         `db:"status"`
	Suspended     bool           `db:"suspended"`
	BuriedUntil   sql.NullTime   `db:"buried_until"`
	Lapses        int            `db:"lapses"`
	SiblingGroup  string         `db:"sibling_group"`
	Flag          int            `db:"flag"`
	FrequencyRank int            `db:"frequency_rank"`
	AddedAt       sql.NullTime   `db:"added_at"`
	LastReview    sql.NullTime   `db:"last_review"`
	LastRating    sql.NullInt64  `db:"last_rating"`
}

type itemTagRecord struct {
	ItemID string `db:"item_id"`
	Tag    string `db:"tag"`
}

type itemExampleRecord struct {
	ItemID    string `db:"item_id"`
	Example   string `db:"example"`
	SortOrder int    `db:"sort_order"`
}

// eventRecord is the row shape of the review_events table.
type eventRecord struct {
	ID             string       `db:"id"`
	ItemID         string       `db:"item_id"`
	Rating         int          `db:"rating"`
	ReviewedAt     time.Time    `db:"reviewed_at"`
	ResponseTimeMs int64        `db:"response_time_ms"`
	EaseFactor     float64      `db:"ease_factor"`
	Repetitions    int          `db:"repetitions"`
	IntervalDays   float64      `db:"interval_days"`
	NextReview     sql.NullTime `db:"next_review"`
	Status         string       `db:"status"`
}

var itemColumns = []string{
	"id", "deck_id", "lemma", "language", "definition", "note", "source", "class",
	"ease_factor", "repetitions", "interval_days", "next_review", "status",
	"suspended", "buried_until", "lapses", "sibling_group", "flag",
	"frequency_rank", "added_at", "last_review", "last_rating",
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func newItemRecord(item srs.Item) itemRecord {
	rec := itemRecord{
		ID:            item.ID,
		DeckID:        item.Deck,
		Lemma:         item.Lemma,
		Language:      item.Language,
		Definition:    nullString(item.Definition),
		Note:          nullString(item.Note),
		Source:        item.Source,
		Class:         item.Class,
		EaseFactor:    item.EaseFactor,
		Repetitions:   item.Repetitions,
		IntervalDays:  item.IntervalDays,
		NextReview:    nullTime(item.NextReview),
		Status:        string(item.Status),
		Suspended:     item.Suspended,
		Lapses:        item.Lapses,
		SiblingGroup:  item.SiblingGroup,
		Flag:          item.Flag,
		FrequencyRank: item.FrequencyRank,
		AddedAt:       nullTime(item.AddedAt),
	}
	if item.BuriedUntil != nil {
		rec.BuriedUntil = sql.NullTime{Time: *item.BuriedUntil, Valid: true}
	}
	if item.LastReview != nil {
		rec.LastReview = sql.NullTime{Time: *item.LastReview, Valid: true}
	}
	if item.LastRating != nil {
		rec.LastRating = sql.NullInt64{Int64: int64(*item.LastRating), Valid: true}
	}
	return rec
}

func (rec itemRecord) toItem() srs.Item {
	item := srs.Item{
		ID:            rec.ID,
		Deck:          rec.DeckID,
		Lemma:         rec.Lemma,
		Language:      rec.Language,
		Definition:    rec.Definition.String,
		Note:          rec.Note.String,
		Source:        rec.Source,
		Class:         rec.Class,
		EaseFactor:    rec.EaseFactor,
		Repetitions:   rec.Repetitions,
		IntervalDays:  rec.IntervalDays,
		Status:        srs.Status(rec.Status),
		Suspended:     rec.Suspended,
		Lapses:        rec.Lapses,
		SiblingGroup:  rec.SiblingGroup,
		Flag:          rec.Flag,
		FrequencyRank: rec.FrequencyRank,
	}
	if rec.NextReview.Valid {
		item.NextReview = rec.NextReview.Time
	}
	if rec.AddedAt.Valid {
		item.AddedAt = rec.AddedAt.Time
	}
	if rec.BuriedUntil.Valid {
		t := rec.BuriedUntil.Time
		item.BuriedUntil = &t
	}
	if rec.LastReview.Valid {
		t := rec.LastReview.Time
		item.LastReview = &t
	}
	if rec.LastRating.Valid {
		rating := srs.Rating(rec.LastRating.Int64)
		item.LastRating = &rating
	}
	return item
}

func (rec itemRecord) insertArgs() []interface{} {
	return []interface{}{
		rec.ID, rec.DeckID, rec.Lemma, rec.Language, rec.Definition, rec.Note,
		rec.Source, rec.Class, rec.EaseFactor, rec.Repetitions, rec.IntervalDays,
		rec.NextReview, rec.Status, rec.Suspended, rec.BuriedUntil, rec.Lapses,
		rec.SiblingGroup, rec.Flag, rec.FrequencyRank, rec.AddedAt,
		rec.LastReview, rec.LastRating,
	}
}

// Decks returns every deck row, sorted by ID.
func (r *DBRepository) Decks(ctx context.Context) ([]Deck, error) {
	var decks []Deck
	if err := r.db.SelectContext(ctx, &decks, "SELECT id, name, language FROM decks ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load all decks: %w", err)
	}
	return decks, nil
}

// SaveDeck inserts or updates a deck row.
func (r *DBRepository) SaveDeck(ctx context.Context, d Deck) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO decks (id, name, language) VALUES (?, ?, ?) "+
			"ON DUPLICATE KEY UPDATE name = VALUES(name), language = VALUES(language)",
		d.ID, d.Name, d.Language)
	if err != nil {
		return fmt.Errorf("save deck: %w", err)
	}
	return nil
}

// FindAll returns every item with its tags and examples.
func (r *DBRepository) FindAll(ctx context.Context) ([]srs.Item, error) {
	return r.findItems(ctx, "SELECT * FROM items ORDER BY id")
}

// FindByDeck returns every item of a single deck with its tags and examples.
func (r *DBRepository) FindByDeck(ctx context.Context, deckID string) ([]srs.Item, error) {
	return r.findItems(ctx, "SELECT * FROM items WHERE deck_id = ? ORDER BY id", deckID)
}

// FindItem returns a single item by ID.
func (r *DBRepository) FindItem(ctx context.Context, itemID string) (srs.Item, error) {
	items, err := r.findItems(ctx, "SELECT * FROM items WHERE id = ?", itemID)
	if err != nil {
		return srs.Item{}, err
	}
	if len(items) == 0 {
		return srs.Item{}, fmt.Errorf("find item %s: %w", itemID, ErrItemNotFound)
	}
	return items[0], nil
}

func (r *DBRepository) findItems(ctx context.Context, query string, args ...interface{}) ([]srs.Item, error) {
	var records []itemRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	return r.attachRelations(ctx, records)
}

func (r *DBRepository) attachRelations(ctx context.Context, records []itemRecord) ([]srs.Item, error) {
	items := make([]srs.Item, len(records))
	for i, rec := range records {
		items[i] = rec.toItem()
	}
	if len(records) == 0 {
		return items, nil
	}

	ids := make([]string, len(records))
	index := make(map[string]int, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
		index[rec.ID] = i
	}

	query, args, err := sqlx.In("SELECT item_id, tag FROM item_tags WHERE item_id IN (?) ORDER BY tag", ids)
	if err != nil {
		return nil, fmt.Errorf("build item tags query: %w", err)
	}
	var tags []itemTagRecord
	if err := r.db.SelectContext(ctx, &tags, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load item tags: %w", err)
	}
	for _, tag := range tags {
		i := index[tag.ItemID]
		items[i].Tags = append(items[i].Tags, tag.Tag)
	}

	query, args, err = sqlx.In("SELECT item_id, example, sort_order FROM item_examples WHERE item_id IN (?) ORDER BY sort_order", ids)
	if err != nil {
		return nil, fmt.Errorf("build item examples query: %w", err)
	}
	var examples []itemExampleRecord
	if err := r.db.SelectContext(ctx, &examples, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load item examples: %w", err)
	}
	for _, example := range examples {
		i := index[example.ItemID]
		items[i].Examples = append(items[i].Examples, example.Example)
	}

	return items, nil
}

// BatchCreate inserts multiple items with their tags and examples in a
// single transaction using multi-row INSERTs.
func (r *DBRepository) BatchCreate(ctx context.Context, items []srs.Item) error {
	if len(items) == 0 {
		return nil
	}

	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		query := database.BuildMultiRowInsert("items", itemColumns, len(items))
		var args []interface{}
		for _, item := range items {
			args = append(args, newItemRecord(item).insertArgs()...)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert items: %w", err)
		}

		return insertRelations(ctx, tx, items)
	})
}

// SaveItem overwrites one item's snapshot including tags and examples.
func (r *DBRepository) SaveItem(ctx context.Context, item srs.Item) error {
	return r.SaveItems(ctx, []srs.Item{item})
}

// SaveItems upserts item snapshots and replaces their tags and examples
// in a single transaction.
func (r *DBRepository) SaveItems(ctx context.Context, items []srs.Item) error {
	if len(items) == 0 {
		return nil
	}

	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, item := range items {
			if _, err := tx.ExecContext(ctx, upsertItemQuery, newItemRecord(item).insertArgs()...); err != nil {
				return fmt.Errorf("upsert item: %w", err)
			}
		}

		ids := make([]string, len(items))
		for i, item := range items {
			ids[i] = item.ID
		}
		for _, table := range []string{"item_tags", "item_examples"} {
			query, args, err := sqlx.In("DELETE FROM "+table+" WHERE item_id IN (?)", ids)
			if err != nil {
				return fmt.Errorf("build %s delete query: %w", table, err)
			}
			if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}

		return insertRelations(ctx, tx, items)
	})
}

func insertRelations(ctx context.Context, tx *sqlx.Tx, items []srs.Item) error {
	var tagArgs []interface{}
	var tagCount int
	for _, item := range items {
		for _, tag := range item.Tags {
			tagArgs = append(tagArgs, item.ID, tag)
			tagCount++
		}
	}
	if tagCount > 0 {
		q := database.BuildMultiRowInsert("item_tags", []string{"item_id", "tag"}, tagCount)
		if _, err := tx.ExecContext(ctx, q, tagArgs...); err != nil {
			return fmt.Errorf("insert item tags: %w", err)
		}
	}

	var exampleArgs []interface{}
	var exampleCount int
	for _, item := range items {
		for i, example := range item.Examples {
			exampleArgs = append(exampleArgs, item.ID, example, i)
			exampleCount++
		}
	}
	if exampleCount > 0 {
		q := database.BuildMultiRowInsert("item_examples", []string{"item_id", "example", "sort_order"}, exampleCount)
		if _, err := tx.ExecContext(ctx, q, exampleArgs...); err != nil {
			return fmt.Errorf("insert item examples: %w", err)
		}
	}

	return nil
}

const upsertItemQuery = "INSERT INTO items (id, deck_id, lemma, language, definition, note, source, class, " +
	"ease_factor, repetitions, interval_days, next_review, status, suspended, buried_until, lapses, " +
	"sibling_group, flag, frequency_rank, added_at, last_review, last_rating) " +
	"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) " +
	"ON DUPLICATE KEY UPDATE " +
	"deck_id = VALUES(deck_id), lemma = VALUES(lemma), language = VALUES(language), " +
	"definition = VALUES(definition), note = VALUES(note), source = VALUES(source), class = VALUES(class), " +
	"ease_factor = VALUES(ease_factor), repetitions = VALUES(repetitions), interval_days = VALUES(interval_days), " +
	"next_review = VALUES(next_review), status = VALUES(status), suspended = VALUES(suspended), " +
	"buried_until = VALUES(buried_until), lapses = VALUES(lapses), sibling_group = VALUES(sibling_group), " +
	"flag = VALUES(flag), frequency_rank = VALUES(frequency_rank), added_at = VALUES(added_at), " +
	"last_review = VALUES(last_review), last_rating = VALUES(last_rating)"

// AppendEvents inserts review events. Events are stored globally by
// item, so the deck ID only matters for the YAML backend.
func (r *DBRepository) AppendEvents(ctx context.Context, deckID string, events []srs.ReviewEvent) error {
	if len(events) == 0 {
		return nil
	}

	columns := []string{"id", "item_id", "rating", "reviewed_at", "response_time_ms",
		"ease_factor", "repetitions", "interval_days", "next_review", "status"}
	query := database.BuildMultiRowInsert("review_events", columns, len(events))

	var args []interface{}
	for _, e := range events {
		args = append(args, e.ID, e.ItemID, int(e.Rating), e.ReviewedAt, e.ResponseTimeMs,
			e.EaseFactor, e.Repetitions, e.IntervalDays, nullTime(e.NextReview), string(e.Status))
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert review events: %w", err)
	}
	return nil
}

// Events returns every recorded review event, oldest first.
func (r *DBRepository) Events(ctx context.Context) ([]srs.ReviewEvent, error) {
	var records []eventRecord
	if err := r.db.SelectContext(ctx, &records, "SELECT * FROM review_events ORDER BY reviewed_at"); err != nil {
		return nil, fmt.Errorf("load review events: %w", err)
	}

	events := make([]srs.ReviewEvent, len(records))
	for i, rec := range records {
		events[i] = srs.ReviewEvent{
			ID:             rec.ID,
			ItemID:         rec.ItemID,
			Rating:         srs.Rating(rec.Rating),
			ReviewedAt:     rec.ReviewedAt,
			ResponseTimeMs: rec.ResponseTimeMs,
			EaseFactor:     rec.EaseFactor,
			Repetitions:    rec.Repetitions,
			IntervalDays:   rec.IntervalDays,
			Status:         srs.Status(rec.Status),
		}
		if rec.NextReview.Valid {
			events[i].NextReview = rec.NextReview.Time
		}
	}
	return events, nil
}

// UnburyDeck clears the burial of every buried item in the deck in one
// statement and returns how many rows changed.
func (r *DBRepository) UnburyDeck(ctx context.Context, deckID string) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE items SET buried_until = NULL WHERE deck_id = ? AND buried_until IS NOT NULL", deckID)
	if err != nil {
		return 0, fmt.Errorf("unbury deck: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get unbury row count: %w", err)
	}
	return int(affected), nil
}
