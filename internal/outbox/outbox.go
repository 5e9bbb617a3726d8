// Package outbox queues review events in a local SQLite database when
// the main database is unreachable, so offline sessions lose nothing.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

const schemaVersion = 1

// Outbox is a local queue of review events awaiting a flush into the
// main database.
type Outbox struct {
	db *sql.DB
}

// PendingReview is one queued review event.
type PendingReview struct {
	ID         int64
	DeckID     string
	Event      srs.ReviewEvent
	EnqueuedAt time.Time
}

// DefaultPath returns the default location of the outbox database.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("os.UserHomeDir > %w", err)
	}
	return filepath.Join(home, ".local", "share", "fluency", "outbox.db"), nil
}

// Open opens (or creates) the outbox database at path and applies its
// schema.
func Open(path string) (*Outbox, error) {
	if path == "" {
		return nil, fmt.Errorf("open outbox: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("open outbox: create directory: %w", err)
	}

	dsn := "file:" + path + "?mode=rwc&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open outbox: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping outbox: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate outbox: %w", err)
	}
	return &Outbox{db: db}, nil
}

func (o *Outbox) Close() error {
	return o.db.Close()
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current); err != nil {
		return fmt.Errorf("read current version: %w", err)
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// The event column stores the review event as JSON so the queue
	// schema survives new event fields.
	if _, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS pending_reviews (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			deck_id TEXT NOT NULL,
			event TEXT NOT NULL,
			enqueued_at TEXT NOT NULL,
			flushed_at TEXT NULL
		);
	`); err != nil {
		return fmt.Errorf("create pending_reviews table: %w", err)
	}
	if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_pending_reviews_flushed_at ON pending_reviews(flushed_at);`); err != nil {
		return fmt.Errorf("create idx_pending_reviews_flushed_at: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?);`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Enqueue appends one review event to the queue and returns its queue ID.
func (o *Outbox) Enqueue(ctx context.Context, deckID string, event srs.ReviewEvent) (int64, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("json.Marshal > %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	result, err := o.db.ExecContext(ctx,
		`INSERT INTO pending_reviews (deck_id, event, enqueued_at, flushed_at) VALUES (?, ?, ?, NULL)`,
		deckID, payload, now,
	)
	if err != nil {
		return 0, fmt.Errorf("enqueue review: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("enqueue review id: %w", err)
	}
	return id, nil
}

// Pending returns the unflushed reviews, oldest first.
func (o *Outbox) Pending(ctx context.Context) ([]PendingReview, error) {
	rows, err := o.db.QueryContext(ctx,
		`SELECT id, deck_id, event, enqueued_at FROM pending_reviews WHERE flushed_at IS NULL ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending reviews: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var pending []PendingReview
	for rows.Next() {
		var (
			review     PendingReview
			payload    []byte
			enqueuedAt string
		)
		if err := rows.Scan(&review.ID, &review.DeckID, &payload, &enqueuedAt); err != nil {
			return nil, fmt.Errorf("scan pending review: %w", err)
		}
		if err := json.Unmarshal(payload, &review.Event); err != nil {
			return nil, fmt.Errorf("json.Unmarshal > %w", err)
		}
		at, err := time.Parse(time.RFC3339Nano, enqueuedAt)
		if err != nil {
			return nil, fmt.Errorf("parse enqueued_at: %w", err)
		}
		review.EnqueuedAt = at
		pending = append(pending, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending reviews: %w", err)
	}
	return pending, nil
}

// MarkFlushed stamps the given queue rows as flushed. Flushed rows stay
// behind as an audit trail until the file is deleted.
func (o *Outbox) MarkFlushed(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	query, args, err := sqlx.In(`UPDATE pending_reviews SET flushed_at = ? WHERE id IN (?)`, now, ids)
	if err != nil {
		return fmt.Errorf("sqlx.In > %w", err)
	}
	if _, err := o.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark reviews flushed: %w", err)
	}
	return nil
}
