// Package review orchestrates review sessions over a deck repository:
// queue building, answer submission, and visibility flag changes.
package review

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wiaanjvr/fluency-next-sub010/internal/deck"
	"github.com/wiaanjvr/fluency-next-sub010/internal/query"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

// Service coordinates the scheduler and the deck repository.
type Service struct {
	repo      deck.Repository
	scheduler *srs.Scheduler
	now       func() time.Time
}

// NewService creates a new Service.
func NewService(repo deck.Repository, scheduler *srs.Scheduler) *Service {
	return &Service{
		repo:      repo,
		scheduler: scheduler,
		now:       time.Now,
	}
}

// Queue is a review queue for one sitting.
type Queue struct {
	Deck        string
	Description string
	Items       []srs.Item
}

// SubmitResult is the outcome of recording one answer.
type SubmitResult struct {
	Item           srs.Item
	Event          srs.ReviewEvent
	BuriedSiblings []string
	// LeechWarning is set when this answer pushed the item over the
	// leech threshold.
	LeechWarning bool
}

// Queue builds the due queue for a deck, filtered by a raw search query
// and ordered most overdue first. An empty deck ID spans all decks.
func (s *Service) Queue(ctx context.Context, deckID, rawQuery string) (*Queue, error) {
	items, err := s.findItems(ctx, deckID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	pq := query.Parse(rawQuery)

	var due []srs.Item
	for _, item := range items {
		if !srs.IsDue(item, now) {
			continue
		}
		if !deck.MatchItem(item, pq, now, s.scheduler.LeechThreshold()) {
			continue
		}
		due = append(due, item)
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].NextReview.Equal(due[j].NextReview) {
			return due[i].ID < due[j].ID
		}
		return due[i].NextReview.Before(due[j].NextReview)
	})

	return &Queue{
		Deck:        deckID,
		Description: query.Describe(pq),
		Items:       due,
	}, nil
}

// Submit records one answer: the item snapshot is rescheduled and
// overwritten, the review event appended, and any siblings buried for
// the rest of the day so the sitting does not surface near duplicates.
func (s *Service) Submit(ctx context.Context, itemID string, rating srs.Rating, responseTimeMs int64) (*SubmitResult, error) {
	if err := rating.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	wasLeech := s.scheduler.IsLeech(item)

	updated, event, err := s.scheduler.Review(item, rating, now)
	if err != nil {
		return nil, err
	}
	event.ResponseTimeMs = responseTimeMs

	if err := s.repo.SaveItem(ctx, updated); err != nil {
		return nil, fmt.Errorf("save reviewed item: %w", err)
	}
	if err := s.repo.AppendEvents(ctx, updated.Deck, []srs.ReviewEvent{event}); err != nil {
		return nil, fmt.Errorf("append review event: %w", err)
	}

	buried, err := s.burySiblings(ctx, updated, now)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Item:           updated,
		Event:          event,
		BuriedSiblings: buried,
		LeechWarning:   !wasLeech && s.scheduler.IsLeech(updated),
	}, nil
}

func (s *Service) burySiblings(ctx context.Context, item srs.Item, now time.Time) ([]string, error) {
	if item.SiblingGroup == "" {
		return nil, nil
	}

	all, err := s.findItems(ctx, item.Deck)
	if err != nil {
		return nil, err
	}

	ids := srs.BurySiblings(item, all)
	if len(ids) == 0 {
		return nil, nil
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var buried []srs.Item
	for _, sibling := range all {
		if !wanted[sibling.ID] {
			continue
		}
		buried = append(buried, srs.BuryUntilTomorrow(sibling, now))
	}
	if err := s.repo.SaveItems(ctx, buried); err != nil {
		return nil, fmt.Errorf("bury siblings: %w", err)
	}
	return ids, nil
}

// Preview returns the would-be snapshot for every rating without
// persisting anything.
func (s *Service) Preview(ctx context.Context, itemID string) (map[srs.Rating]srs.Item, error) {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.scheduler.Preview(item, s.now()), nil
}

// Suspend removes the item from due computations until Unsuspend.
func (s *Service) Suspend(ctx context.Context, itemID string) (srs.Item, error) {
	return s.updateItem(ctx, itemID, srs.Suspend)
}

// Unsuspend returns the item to due computations.
func (s *Service) Unsuspend(ctx context.Context, itemID string) (srs.Item, error) {
	return s.updateItem(ctx, itemID, srs.Unsuspend)
}

// Bury hides the item until the learner's next day.
func (s *Service) Bury(ctx context.Context, itemID string) (srs.Item, error) {
	now := s.now()
	return s.updateItem(ctx, itemID, func(item srs.Item) srs.Item {
		return srs.BuryUntilTomorrow(item, now)
	})
}

// UnburyDeck clears every burial in the deck and returns how many items
// changed.
func (s *Service) UnburyDeck(ctx context.Context, deckID string) (int, error) {
	return s.repo.UnburyDeck(ctx, deckID)
}

func (s *Service) updateItem(ctx context.Context, itemID string, change func(srs.Item) srs.Item) (srs.Item, error) {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return srs.Item{}, err
	}

	updated := change(item)
	if err := s.repo.SaveItem(ctx, updated); err != nil {
		return srs.Item{}, fmt.Errorf("save item flags: %w", err)
	}
	return updated, nil
}

func (s *Service) findItems(ctx context.Context, deckID string) ([]srs.Item, error) {
	if deckID == "" {
		items, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("load items: %w", err)
		}
		return items, nil
	}
	items, err := s.repo.FindByDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("load deck items: %w", err)
	}
	return items, nil
}
