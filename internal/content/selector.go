// Package content picks the vocabulary worth practicing and renders it
// into reading briefs.
package content

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/wiaanjvr/fluency-next-sub010/internal/corpus"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

// PickWords selects up to targetCount items worth weaving into generated
// reading material. The most pressing items fill the first seven tenths
// of the result; the rest is a uniform sample of the remainder, so
// briefs do not resurface the same overdue set forever. Output order
// only guarantees that the high-priority slice comes first. A nil rng is
// seeded from now.
func PickWords(items []srs.Item, targetCount int, ranks corpus.Table, now time.Time, rng *rand.Rand) []srs.Item {
	if len(items) == 0 || targetCount <= 0 {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(now.UnixNano()))
	}

	scored := make([]scoredItem, 0, len(items))
	for _, item := range items {
		scored = append(scored, scoredItem{
			item:  item,
			score: priorityScore(item, ranks[item.ID], now),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if targetCount >= len(scored) {
		picked := make([]srs.Item, 0, len(scored))
		for _, s := range scored {
			picked = append(picked, s.item)
		}
		return picked
	}

	highCount := int(math.Ceil(float64(targetCount) * 0.7))
	picked := make([]srs.Item, 0, targetCount)
	for _, s := range scored[:highCount] {
		picked = append(picked, s.item)
	}

	rest := make([]srs.Item, 0, len(scored)-highCount)
	for _, s := range scored[highCount:] {
		rest = append(rest, s.item)
	}
	rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	return append(picked, rest[:targetCount-highCount]...)
}

type scoredItem struct {
	item  srs.Item
	score float64
}

// priorityScore weights how urgently an item should reappear in content.
// Overdue days dominate, items still being learned get a nudge, mastered
// ones step back, and commoner words score higher. A zero frequency rank
// means the corpus does not know the word and adds nothing.
func priorityScore(item srs.Item, rank int, now time.Time) float64 {
	daysOverdue := now.Sub(item.NextReview).Hours() / 24
	score := math.Max(0, daysOverdue) * 10
	if item.Status == srs.StatusLearning {
		score += 5
	}
	if item.Status == srs.StatusMastered {
		score -= 2
	}
	if rank > 0 {
		score += math.Max(0, 100-float64(rank)/100)
	}
	return score
}
