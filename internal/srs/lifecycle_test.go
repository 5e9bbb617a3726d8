package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDue(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		item Item
		want bool
	}{
		{
			name: "overdue item is due",
			item: Item{NextReview: past},
			want: true,
		},
		{
			name: "due exactly now",
			item: Item{NextReview: now},
			want: true,
		},
		{
			name: "not yet due",
			item: Item{NextReview: future},
			want: false,
		},
		{
			name: "suspended overrides overdue",
			item: Item{NextReview: past, Suspended: true},
			want: false,
		},
		{
			name: "buried overrides overdue",
			item: Item{NextReview: past, BuriedUntil: &future},
			want: false,
		},
		{
			name: "expired burial no longer blocks",
			item: Item{NextReview: past, BuriedUntil: &past},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDue(tt.item, now))
		})
	}
}

func TestDueBecomesTrueAtNextReview(t *testing.T) {
	next := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	item := Item{NextReview: next}

	assert.False(t, IsDue(item, next.Add(-time.Nanosecond)))
	assert.True(t, IsDue(item, next))
	assert.True(t, IsDue(item, next.Add(time.Nanosecond)))
}

func TestSuspendAndUnsuspend(t *testing.T) {
	item := Item{ID: "w1", EaseFactor: 2.2, IntervalDays: 4}

	suspended := Suspend(item)
	assert.True(t, suspended.Suspended)
	assert.False(t, item.Suspended, "input item must not be mutated")
	assert.Equal(t, item.EaseFactor, suspended.EaseFactor)
	assert.Equal(t, item.IntervalDays, suspended.IntervalDays)

	assert.False(t, Unsuspend(suspended).Suspended)
}

func TestBuryUntilTomorrow(t *testing.T) {
	zone := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2026, 3, 14, 22, 15, 0, 0, zone)

	buried := BuryUntilTomorrow(Item{ID: "w1"}, now)
	require.NotNil(t, buried.BuriedUntil)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, zone), *buried.BuriedUntil)
	assert.True(t, Buried(buried, now))
	assert.False(t, Buried(buried, now.Add(2*time.Hour)), "burial expires at midnight")
}

func TestUnburyAll(t *testing.T) {
	until := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	items := []Item{
		{ID: "w1", BuriedUntil: &until},
		{ID: "w2"},
		{ID: "w3", BuriedUntil: &until},
	}

	cleared := UnburyAll(items)
	require.Len(t, cleared, 3)
	for _, item := range cleared {
		assert.Nil(t, item.BuriedUntil)
	}
	assert.NotNil(t, items[0].BuriedUntil, "input slice must not be mutated")
}

func TestBurySiblings(t *testing.T) {
	all := []Item{
		{ID: "w1", SiblingGroup: "sentence-7"},
		{ID: "w2", SiblingGroup: "sentence-7"},
		{ID: "w3", SiblingGroup: "sentence-9"},
		{ID: "w4"},
		{ID: "w5", SiblingGroup: "sentence-7"},
	}

	tests := []struct {
		name string
		item Item
		want []string
	}{
		{
			name: "returns every other member of the group",
			item: all[0],
			want: []string{"w2", "w5"},
		},
		{
			name: "no sibling group means no siblings",
			item: all[3],
			want: nil,
		},
		{
			name: "single member group has no siblings",
			item: all[2],
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BurySiblings(tt.item, all))
		})
	}
}

func TestIsLeech(t *testing.T) {
	assert.False(t, IsLeech(Item{Lapses: 7}, 0), "below default threshold")
	assert.True(t, IsLeech(Item{Lapses: 8}, 0), "default threshold is 8")
	assert.True(t, IsLeech(Item{Lapses: 3}, 3))
	assert.False(t, IsLeech(Item{Lapses: 2}, 3))

	scheduler := NewScheduler(SchedulerConfig{LeechThreshold: 4})
	assert.True(t, scheduler.IsLeech(Item{Lapses: 4}))
	assert.False(t, scheduler.IsLeech(Item{Lapses: 3}))
}

func TestEndOfDay(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "middle of the day",
			now:  time.Date(2026, 3, 14, 13, 45, 12, 0, time.UTC),
			want: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "keeps the local zone",
			now:  time.Date(2026, 3, 14, 23, 59, 59, 0, zone),
			want: time.Date(2026, 3, 15, 0, 0, 0, 0, zone),
		},
		{
			name: "rolls over month and year",
			now:  time.Date(2026, 12, 31, 8, 0, 0, 0, time.UTC),
			want: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EndOfDay(tt.now))
		})
	}
}

func TestNewItem(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	item := NewItem("haus", "de", now)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "haus", item.Lemma)
	assert.Equal(t, "de", item.Language)
	assert.Equal(t, DefaultEaseFactor, item.EaseFactor)
	assert.Equal(t, 0, item.Repetitions)
	assert.Equal(t, float64(0), item.IntervalDays)
	assert.Equal(t, StatusNew, item.Status)
	assert.True(t, item.NextReview.Equal(now), "new items are immediately reviewable")
	assert.True(t, item.AddedAt.Equal(now))
}
