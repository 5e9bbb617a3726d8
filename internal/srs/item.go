package srs

import (
	"time"

	"github.com/google/uuid"
)

// Status is the learning stage of an item. It is derived from review
// outcomes by the Scheduler; nothing else may set it.
type Status string

const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusKnown    Status = "known"
	StatusMastered Status = "mastered"
)

// IsValid reports whether s is one of the defined statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusKnown, StatusMastered:
		return true
	}
	return false
}

// Item is a vocabulary word or flashcard under spaced repetition,
// together with the content fields the host application attaches to it.
// The scheduling fields form a snapshot: every review produces a new
// snapshot which the caller persists by overwrite.
type Item struct {
	ID         string   `yaml:"id"`
	Lemma      string   `yaml:"lemma"`
	Language   string   `yaml:"language,omitempty"`
	Definition string   `yaml:"definition,omitempty"`
	Examples   []string `yaml:"examples,omitempty"`
	Deck       string   `yaml:"deck,omitempty"`
	Tags       []string `yaml:"tags,omitempty"`
	Note       string   `yaml:"note,omitempty"`
	Source     string   `yaml:"source,omitempty"`
	Class      string   `yaml:"class,omitempty"` // word class: noun, verb, ...

	EaseFactor   float64   `yaml:"ease_factor,omitempty"`
	Repetitions  int       `yaml:"repetitions,omitempty"`
	IntervalDays float64   `yaml:"interval_days,omitempty"`
	NextReview   time.Time `yaml:"next_review,omitempty"`
	Status       Status    `yaml:"status,omitempty"`

	Suspended    bool       `yaml:"suspended,omitempty"`
	BuriedUntil  *time.Time `yaml:"buried_until,omitempty"`
	Lapses       int        `yaml:"lapses,omitempty"`
	SiblingGroup string     `yaml:"sibling_group,omitempty"`
	Flag         int        `yaml:"flag,omitempty"`

	// FrequencyRank is the item's corpus frequency rank, lower = more
	// common. Zero means unknown; only the content selector reads it.
	FrequencyRank int `yaml:"frequency_rank,omitempty"`

	AddedAt    time.Time  `yaml:"added_at,omitempty"`
	LastReview *time.Time `yaml:"last_review,omitempty"`
	LastRating *Rating    `yaml:"last_rating,omitempty"`
}

// NewItem creates a fresh item that is immediately reviewable.
func NewItem(lemma, language string, now time.Time) Item {
	return Item{
		ID:         uuid.NewString(),
		Lemma:      lemma,
		Language:   language,
		EaseFactor: DefaultEaseFactor,
		Status:     StatusNew,
		NextReview: now,
		AddedAt:    now,
	}
}

// ReviewEvent records a single review of an item, append-only. The
// resulting snapshot fields are carried for audit and statistics; the
// Scheduler never reads past events.
type ReviewEvent struct {
	ID             string    `yaml:"id"`
	ItemID         string    `yaml:"item_id"`
	Rating         Rating    `yaml:"rating"`
	ReviewedAt     time.Time `yaml:"reviewed_at"`
	ResponseTimeMs int64     `yaml:"response_time_ms,omitempty"`

	EaseFactor   float64   `yaml:"ease_factor,omitempty"`
	Repetitions  int       `yaml:"repetitions,omitempty"`
	IntervalDays float64   `yaml:"interval_days,omitempty"`
	NextReview   time.Time `yaml:"next_review,omitempty"`
	Status       Status    `yaml:"status,omitempty"`
}

func newEventID() string {
	return uuid.NewString()
}
