package content

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiaanjvr/fluency-next-sub010/internal/corpus"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

var selectorNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func overdueItem(id string, days int, status srs.Status) srs.Item {
	return srs.Item{
		ID:         id,
		Lemma:      id,
		Status:     status,
		NextReview: selectorNow.AddDate(0, 0, -days),
	}
}

// tenItems builds four clear top scorers and six future items.
func tenItems() []srs.Item {
	items := []srs.Item{
		overdueItem("top-1", 10, srs.StatusLearning),
		overdueItem("top-2", 9, srs.StatusLearning),
		overdueItem("top-3", 8, srs.StatusKnown),
		overdueItem("top-4", 7, srs.StatusKnown),
	}
	for i := 0; i < 6; i++ {
		items = append(items, overdueItem(fmt.Sprintf("rest-%d", i+1), -1, srs.StatusKnown))
	}
	return items
}

func TestPickWords(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, PickWords(nil, 5, nil, selectorNow, nil))
	})

	t.Run("zero target", func(t *testing.T) {
		items := []srs.Item{overdueItem("item-1", 1, srs.StatusKnown)}
		assert.Empty(t, PickWords(items, 0, nil, selectorNow, nil))
	})

	t.Run("target covers everything", func(t *testing.T) {
		items := []srs.Item{
			overdueItem("item-1", 1, srs.StatusKnown),
			overdueItem("item-2", 3, srs.StatusKnown),
		}

		picked := PickWords(items, 5, nil, selectorNow, nil)
		require.Len(t, picked, 2)
		assert.Equal(t, "item-2", picked[0].ID)
		assert.Equal(t, "item-1", picked[1].ID)
	})

	t.Run("high priority slice always keeps the top scorers", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		picked := PickWords(tenItems(), 5, nil, selectorNow, rng)
		require.Len(t, picked, 5)

		ids := make([]string, 0, len(picked))
		for _, item := range picked {
			ids = append(ids, item.ID)
		}
		assert.Equal(t, []string{"top-1", "top-2", "top-3", "top-4"}, ids[:4])
		assert.True(t, strings.HasPrefix(ids[4], "rest-"))
	})

	t.Run("same seed picks the same words", func(t *testing.T) {
		first := PickWords(tenItems(), 5, nil, selectorNow, rand.New(rand.NewSource(7)))
		second := PickWords(tenItems(), 5, nil, selectorNow, rand.New(rand.NewSource(7)))
		assert.Equal(t, first, second)
	})

	t.Run("frequency rank breaks ties", func(t *testing.T) {
		items := []srs.Item{
			overdueItem("rare", 1, srs.StatusKnown),
			overdueItem("common", 1, srs.StatusKnown),
		}
		ranks := corpus.Table{"common": 200, "rare": 9000}

		picked := PickWords(items, 1, ranks, selectorNow, rand.New(rand.NewSource(1)))
		require.Len(t, picked, 1)
		assert.Equal(t, "common", picked[0].ID)
	})
}

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name     string
		item     srs.Item
		rank     int
		expected float64
	}{
		{
			name: "overdue learning word with a common rank",
			item: srs.Item{
				Status:     srs.StatusLearning,
				NextReview: selectorNow.Add(-48 * time.Hour),
			},
			rank:     500,
			expected: 2*10 + 5 + (100 - 5),
		},
		{
			name: "mastered word not yet due",
			item: srs.Item{
				Status:     srs.StatusMastered,
				NextReview: selectorNow.Add(24 * time.Hour),
			},
			expected: -2,
		},
		{
			name:     "unknown rank adds nothing",
			item:     srs.Item{Status: srs.StatusKnown, NextReview: selectorNow},
			rank:     0,
			expected: 0,
		},
		{
			name:     "very rare word adds nothing",
			item:     srs.Item{Status: srs.StatusKnown, NextReview: selectorNow},
			rank:     1000000,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, priorityScore(tt.item, tt.rank, selectorNow), 1e-9)
		})
	}
}
