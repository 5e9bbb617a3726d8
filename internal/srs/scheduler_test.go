package srs

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestScheduleEaseFactor(t *testing.T) {
	tests := []struct {
		name     string
		ease     float64
		rating   Rating
		expected float64
	}{
		{
			name:     "rating 5 adds delta plus perfect bonus",
			ease:     2.0,
			rating:   5,
			expected: 2.2, // 2.0 + 0.1 + 0.1
		},
		{
			name:     "rating 4 keeps ease unchanged",
			ease:     2.0,
			rating:   4,
			expected: 2.0, // delta 0.1 - 1*(0.08+0.02) = 0
		},
		{
			name:     "rating 3 decreases ease slightly",
			ease:     2.5,
			rating:   3,
			expected: 2.36, // 2.5 + 0.1 - 2*(0.08+0.04)
		},
		{
			name:     "rating 2 costs a flat penalty",
			ease:     2.0,
			rating:   2,
			expected: 1.85,
		},
		{
			name:     "rating 1 costs the failure penalty",
			ease:     2.0,
			rating:   1,
			expected: 1.8,
		},
		{
			name:     "rating 0 costs the failure penalty",
			ease:     2.0,
			rating:   0,
			expected: 1.8,
		},
		{
			name:     "never exceeds the maximum",
			ease:     2.5,
			rating:   5,
			expected: MaxEaseFactor,
		},
		{
			name:     "never goes below the minimum",
			ease:     1.3,
			rating:   0,
			expected: MinEaseFactor,
		},
		{
			name:     "zero ease defaults to 2.5",
			ease:     0,
			rating:   3,
			expected: 2.36,
		},
	}

	scheduler := NewScheduler(SchedulerConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := scheduler.Schedule(Item{EaseFactor: tt.ease}, tt.rating, testNow)
			if err != nil {
				t.Fatalf("Schedule() error = %v", err)
			}
			if math.Abs(next.EaseFactor-tt.expected) > 1e-9 {
				t.Errorf("Schedule(ease=%v, rating=%d).EaseFactor = %v, want %v", tt.ease, tt.rating, next.EaseFactor, tt.expected)
			}
		})
	}
}

func TestScheduleIntervals(t *testing.T) {
	tests := []struct {
		name         string
		repetitions  int
		rating       Rating
		expectedDays float64
	}{
		{
			name:         "failure goes back one minute",
			repetitions:  6,
			rating:       1,
			expectedDays: 1.0 / 1440,
		},
		{
			name:         "first success waits ten minutes",
			repetitions:  0,
			rating:       4,
			expectedDays: 10.0 / 1440,
		},
		{
			name:         "second success waits an hour",
			repetitions:  1,
			rating:       4,
			expectedDays: 1.0 / 24,
		},
		{
			name:         "third success waits a day",
			repetitions:  2,
			rating:       3,
			expectedDays: 1,
		},
		{
			name:         "rating 2 still advances the ladder",
			repetitions:  3,
			rating:       2,
			expectedDays: 2,
		},
		{
			name:         "ninth success reaches the last rung",
			repetitions:  8,
			rating:       4,
			expectedDays: 64,
		},
		{
			name:         "past the ladder the interval doubles",
			repetitions:  9,
			rating:       4,
			expectedDays: 128, // 64 * 2^(10-10+1)
		},
		{
			name:         "and keeps doubling",
			repetitions:  11,
			rating:       4,
			expectedDays: 512, // 64 * 2^(12-10+1)
		},
	}

	scheduler := NewScheduler(SchedulerConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := scheduler.Schedule(Item{EaseFactor: 2.5, Repetitions: tt.repetitions}, tt.rating, testNow)
			if err != nil {
				t.Fatalf("Schedule() error = %v", err)
			}
			if next.IntervalDays != tt.expectedDays {
				t.Errorf("Schedule(reps=%d, rating=%d).IntervalDays = %v, want %v", tt.repetitions, tt.rating, next.IntervalDays, tt.expectedDays)
			}
			wantReview := testNow.Add(daysToDuration(tt.expectedDays))
			if !next.NextReview.Equal(wantReview) {
				t.Errorf("NextReview = %v, want %v", next.NextReview, wantReview)
			}
		})
	}
}

func TestScheduleStatus(t *testing.T) {
	tests := []struct {
		name        string
		repetitions int
		rating      Rating
		expected    Status
	}{
		{
			name:        "failure returns to learning",
			repetitions: 7,
			rating:      0,
			expected:    StatusLearning,
		},
		{
			name:        "early successes stay learning",
			repetitions: 1,
			rating:      3,
			expected:    StatusLearning,
		},
		{
			name:        "first ever success rated 5 jumps to known",
			repetitions: 0,
			rating:      5,
			expected:    StatusKnown,
		},
		{
			name:        "first ever success rated 4 jumps to known",
			repetitions: 0,
			rating:      4,
			expected:    StatusKnown,
		},
		{
			name:        "first ever success rated 3 stays learning",
			repetitions: 0,
			rating:      3,
			expected:    StatusLearning,
		},
		{
			name:        "fourth success becomes known",
			repetitions: 3,
			rating:      3,
			expected:    StatusKnown,
		},
		{
			name:        "eighth success rated 4 becomes mastered",
			repetitions: 7,
			rating:      4,
			expected:    StatusMastered,
		},
		{
			name:        "eighth success rated 3 stays known",
			repetitions: 7,
			rating:      3,
			expected:    StatusKnown,
		},
		{
			name:        "rating 2 never masters",
			repetitions: 9,
			rating:      2,
			expected:    StatusKnown,
		},
	}

	scheduler := NewScheduler(SchedulerConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := scheduler.Schedule(Item{EaseFactor: 2.5, Repetitions: tt.repetitions}, tt.rating, testNow)
			if err != nil {
				t.Fatalf("Schedule() error = %v", err)
			}
			if next.Status != tt.expected {
				t.Errorf("Schedule(reps=%d, rating=%d).Status = %q, want %q", tt.repetitions, tt.rating, next.Status, tt.expected)
			}
		})
	}
}

func TestScheduleFirstPerfectRecall(t *testing.T) {
	scheduler := NewScheduler(SchedulerConfig{})
	item := Item{EaseFactor: 2.5, Repetitions: 0, Status: StatusNew}

	next, err := scheduler.Schedule(item, 5, testNow)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if next.EaseFactor != 2.5 {
		t.Errorf("EaseFactor = %v, want clamp at 2.5", next.EaseFactor)
	}
	if next.Repetitions != 1 {
		t.Errorf("Repetitions = %d, want 1", next.Repetitions)
	}
	if next.IntervalDays != 10.0/1440 {
		t.Errorf("IntervalDays = %v, want %v", next.IntervalDays, 10.0/1440)
	}
	if next.Status != StatusKnown {
		t.Errorf("Status = %q, want %q", next.Status, StatusKnown)
	}
}

func TestScheduleFailureAfterStreak(t *testing.T) {
	scheduler := NewScheduler(SchedulerConfig{})
	item := Item{EaseFactor: 2.3, Repetitions: 5, Status: StatusKnown}

	next, err := scheduler.Schedule(item, 0, testNow)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if math.Abs(next.EaseFactor-2.1) > 1e-9 {
		t.Errorf("EaseFactor = %v, want 2.1", next.EaseFactor)
	}
	if next.Repetitions != 0 {
		t.Errorf("Repetitions = %d, want 0", next.Repetitions)
	}
	if next.IntervalDays != 1.0/1440 {
		t.Errorf("IntervalDays = %v, want %v", next.IntervalDays, 1.0/1440)
	}
	if next.Status != StatusLearning {
		t.Errorf("Status = %q, want %q", next.Status, StatusLearning)
	}
	if next.Lapses != 1 {
		t.Errorf("Lapses = %d, want 1", next.Lapses)
	}
}

func TestScheduleInvalidRating(t *testing.T) {
	scheduler := NewScheduler(SchedulerConfig{})
	for _, rating := range []Rating{-1, 6, 100} {
		_, err := scheduler.Schedule(Item{}, rating, testNow)
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("Schedule(rating=%d) error = %v, want ErrInvalidRating", rating, err)
		}
	}
}

func TestScheduleDeterminism(t *testing.T) {
	scheduler := NewScheduler(SchedulerConfig{})
	item := Item{ID: "w1", EaseFactor: 2.1, Repetitions: 3, Lapses: 2}

	for rating := MinRating; rating <= MaxRating; rating++ {
		first, err := scheduler.Schedule(item, rating, testNow)
		if err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}
		second, err := scheduler.Schedule(item, rating, testNow)
		if err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Schedule(rating=%d) differs between calls: %+v vs %+v", rating, first, second)
		}
	}
}

func TestScheduleEaseStaysClamped(t *testing.T) {
	// Walk every rating sequence of length four from a fresh item and
	// check the easiness factor never leaves its bounds.
	scheduler := NewScheduler(SchedulerConfig{})
	var walk func(item Item, depth int)
	walk = func(item Item, depth int) {
		if depth == 0 {
			return
		}
		for rating := MinRating; rating <= MaxRating; rating++ {
			next, err := scheduler.Schedule(item, rating, testNow)
			if err != nil {
				t.Fatalf("Schedule() error = %v", err)
			}
			if next.EaseFactor < MinEaseFactor || next.EaseFactor > MaxEaseFactor {
				t.Fatalf("EaseFactor %v out of [%v, %v] after rating %d", next.EaseFactor, MinEaseFactor, MaxEaseFactor, rating)
			}
			walk(next, depth-1)
		}
	}
	walk(NewItem("haus", "de", testNow), 4)
}

func TestScheduleFailureResets(t *testing.T) {
	scheduler := NewScheduler(SchedulerConfig{})
	states := []Item{
		{EaseFactor: 2.5, Repetitions: 0, Status: StatusNew},
		{EaseFactor: 1.9, Repetitions: 2, Status: StatusLearning},
		{EaseFactor: 2.2, Repetitions: 6, Status: StatusKnown, Lapses: 3},
		{EaseFactor: 2.5, Repetitions: 12, Status: StatusMastered},
	}
	for _, item := range states {
		for _, rating := range []Rating{0, 1} {
			next, err := scheduler.Schedule(item, rating, testNow)
			if err != nil {
				t.Fatalf("Schedule() error = %v", err)
			}
			if next.Repetitions != 0 {
				t.Errorf("Repetitions = %d after failure, want 0", next.Repetitions)
			}
			if next.Status != StatusLearning {
				t.Errorf("Status = %q after failure, want %q", next.Status, StatusLearning)
			}
			if next.Lapses != item.Lapses+1 {
				t.Errorf("Lapses = %d, want %d", next.Lapses, item.Lapses+1)
			}
		}
	}
}

func TestScheduleMaxIntervalCap(t *testing.T) {
	scheduler := NewScheduler(SchedulerConfig{MaxIntervalDays: 100})
	next, err := scheduler.Schedule(Item{EaseFactor: 2.5, Repetitions: 9}, 4, testNow)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if next.IntervalDays != 100 {
		t.Errorf("IntervalDays = %v, want cap at 100", next.IntervalDays)
	}
}

func TestReviewStampsMetadataAndEmitsEvent(t *testing.T) {
	scheduler := NewScheduler(SchedulerConfig{})
	item := Item{ID: "w1", EaseFactor: 2.5, Repetitions: 1}

	next, event, err := scheduler.Review(item, 4, testNow)
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if next.LastReview == nil || !next.LastReview.Equal(testNow) {
		t.Errorf("LastReview = %v, want %v", next.LastReview, testNow)
	}
	if next.LastRating == nil || *next.LastRating != 4 {
		t.Errorf("LastRating = %v, want 4", next.LastRating)
	}
	if event.ID == "" {
		t.Error("event ID is empty")
	}
	if event.ItemID != "w1" {
		t.Errorf("event ItemID = %q, want w1", event.ItemID)
	}
	if event.Rating != 4 || !event.ReviewedAt.Equal(testNow) {
		t.Errorf("event = %+v, want rating 4 at %v", event, testNow)
	}
	if event.EaseFactor != next.EaseFactor || event.Repetitions != next.Repetitions ||
		event.IntervalDays != next.IntervalDays || event.Status != next.Status ||
		!event.NextReview.Equal(next.NextReview) {
		t.Errorf("event snapshot %+v does not match item %+v", event, next)
	}
}

func TestPreviewCoversEveryRating(t *testing.T) {
	scheduler := NewScheduler(SchedulerConfig{})
	item := Item{ID: "w1", EaseFactor: 2.2, Repetitions: 4}

	previews := scheduler.Preview(item, testNow)
	if len(previews) != 6 {
		t.Fatalf("Preview() returned %d entries, want 6", len(previews))
	}
	for rating := MinRating; rating <= MaxRating; rating++ {
		want, err := scheduler.Schedule(item, rating, testNow)
		if err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}
		if !reflect.DeepEqual(previews[rating], want) {
			t.Errorf("Preview()[%d] = %+v, want %+v", rating, previews[rating], want)
		}
	}
}
