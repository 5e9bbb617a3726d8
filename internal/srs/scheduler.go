package srs

import (
	"math"
	"time"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 2.5

	DefaultLeechThreshold = 8
)

// reviewIntervalsDays is the graduated interval ladder, indexed by the
// repetition count after the review: 1 min, 10 min, 1 hour, then whole
// days. Past the end the last value doubles per repetition.
var reviewIntervalsDays = [...]float64{
	1.0 / 1440, 10.0 / 1440, 1.0 / 24, 1, 2, 4, 8, 16, 32, 64,
}

// failureIntervalDays is the retry interval after a failed recall.
const failureIntervalDays = 1.0 / 1440

// SchedulerConfig configures a Scheduler. Zero values produce defaults.
type SchedulerConfig struct {
	// LeechThreshold is the lapse count at which an item is flagged as a
	// leech. Zero means DefaultLeechThreshold.
	LeechThreshold int `yaml:"leech_threshold"`
	// MaxIntervalDays caps the computed review interval. Zero means no
	// cap, matching the unbounded doubling of the interval ladder.
	MaxIntervalDays float64 `yaml:"max_interval_days"`
}

// Scheduler computes the next scheduling snapshot for an item from a
// recall rating. It holds no mutable state; methods are safe for
// concurrent use.
type Scheduler struct {
	leechThreshold  int
	maxIntervalDays float64
}

// NewScheduler creates a Scheduler from the given config.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	threshold := cfg.LeechThreshold
	if threshold == 0 {
		threshold = DefaultLeechThreshold
	}
	return &Scheduler{
		leechThreshold:  threshold,
		maxIntervalDays: cfg.MaxIntervalDays,
	}
}

// Schedule applies one review with the given rating at the given time
// and returns the item's next snapshot. The input item is not mutated.
// It is pure: the same inputs always produce the same output, and the
// clock is the explicit now argument.
//
// Ratings 3..5 grow the easiness factor by the SM-2 delta (with a bonus
// for a perfect 5), rating 2 costs a flat penalty but still counts as a
// successful repetition, and ratings below 2 reset the repetition
// streak, record a lapse, and put the item back one minute out.
func (s *Scheduler) Schedule(item Item, rating Rating, now time.Time) (Item, error) {
	if err := rating.Validate(); err != nil {
		return Item{}, err
	}

	ease := item.EaseFactor
	if ease == 0 {
		ease = DefaultEaseFactor
	}
	reps := item.Repetitions

	switch {
	case rating.correct():
		q := float64(rating)
		ease += 0.1 - (5-q)*(0.08+(5-q)*0.02)
		if rating == MaxRating {
			ease += 0.1
		}
		reps++
	case rating == 2:
		ease -= 0.15
		reps++
	default:
		ease -= 0.2
		reps = 0
	}
	ease = math.Min(math.Max(ease, MinEaseFactor), MaxEaseFactor)

	next := item
	next.EaseFactor = ease
	next.Repetitions = reps

	if rating < 2 {
		next.IntervalDays = failureIntervalDays
		next.Status = StatusLearning
		next.Lapses++
	} else {
		next.IntervalDays = s.capInterval(intervalForRepetition(reps))
		next.Status = statusForReview(reps, rating)
	}
	next.NextReview = now.Add(daysToDuration(next.IntervalDays))

	return next, nil
}

// Review applies Schedule and additionally stamps the review metadata
// on the item and emits the append-only event for the caller to log.
func (s *Scheduler) Review(item Item, rating Rating, now time.Time) (Item, ReviewEvent, error) {
	next, err := s.Schedule(item, rating, now)
	if err != nil {
		return Item{}, ReviewEvent{}, err
	}
	next.LastReview = &now
	next.LastRating = &rating

	event := ReviewEvent{
		ID:           newEventID(),
		ItemID:       item.ID,
		Rating:       rating,
		ReviewedAt:   now,
		EaseFactor:   next.EaseFactor,
		Repetitions:  next.Repetitions,
		IntervalDays: next.IntervalDays,
		NextReview:   next.NextReview,
		Status:       next.Status,
	}
	return next, event, nil
}

// Preview returns the snapshot each possible rating would produce.
func (s *Scheduler) Preview(item Item, now time.Time) map[Rating]Item {
	result := make(map[Rating]Item, int(MaxRating)+1)
	for r := MinRating; r <= MaxRating; r++ {
		next, _ := s.Schedule(item, r, now)
		result[r] = next
	}
	return result
}

// IsLeech reports whether the item's lapse count has reached the
// configured leech threshold.
func (s *Scheduler) IsLeech(item Item) bool {
	return item.Lapses >= s.leechThreshold
}

// LeechThreshold returns the configured lapse threshold.
func (s *Scheduler) LeechThreshold() int {
	return s.leechThreshold
}

func (s *Scheduler) capInterval(days float64) float64 {
	if s.maxIntervalDays > 0 && days > s.maxIntervalDays {
		return s.maxIntervalDays
	}
	return days
}

// intervalForRepetition looks up the interval ladder, doubling the last
// rung for repetition counts past its end.
func intervalForRepetition(reps int) float64 {
	if reps < len(reviewIntervalsDays) {
		return reviewIntervalsDays[reps]
	}
	last := reviewIntervalsDays[len(reviewIntervalsDays)-1]
	return last * math.Pow(2, float64(reps-len(reviewIntervalsDays)+1))
}

// statusForReview derives the status after a successful review. A first
// ever success rated 4 or 5 jumps straight to known: the learner
// already knew the word before it entered the rotation.
func statusForReview(reps int, rating Rating) Status {
	if reps == 1 && rating >= 4 {
		return StatusKnown
	}
	switch {
	case reps >= 8 && rating >= 4:
		return StatusMastered
	case reps >= 4:
		return StatusKnown
	default:
		return StatusLearning
	}
}

func daysToDuration(days float64) time.Duration {
	return time.Duration(days * 24 * float64(time.Hour))
}
