// Package deck provides deck and item storage backed by YAML notebooks
// or MySQL.
package deck

import (
	"context"
	"errors"

	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

var (
	// ErrDeckNotFound is returned when a deck ID does not exist in storage.
	ErrDeckNotFound = errors.New("deck: deck not found")
	// ErrItemNotFound is returned when an item ID does not exist in storage.
	ErrItemNotFound = errors.New("deck: item not found")
)

// Deck is the index record of a deck directory or row.
type Deck struct {
	ID       string `yaml:"id" db:"id"`
	Name     string `yaml:"name" db:"name"`
	Language string `yaml:"language" db:"language"`
}

//go:generate mockgen -source=deck.go -destination=../mocks/deck/mock_repository.go -package=mock_deck

// Repository defines operations for managing decks and their items.
type Repository interface {
	Decks(ctx context.Context) ([]Deck, error)
	SaveDeck(ctx context.Context, d Deck) error
	FindAll(ctx context.Context) ([]srs.Item, error)
	FindByDeck(ctx context.Context, deckID string) ([]srs.Item, error)
	FindItem(ctx context.Context, itemID string) (srs.Item, error)
	BatchCreate(ctx context.Context, items []srs.Item) error
	SaveItem(ctx context.Context, item srs.Item) error
	SaveItems(ctx context.Context, items []srs.Item) error
	AppendEvents(ctx context.Context, deckID string, events []srs.ReviewEvent) error
	Events(ctx context.Context) ([]srs.ReviewEvent, error)
	UnburyDeck(ctx context.Context, deckID string) (int, error)
}
