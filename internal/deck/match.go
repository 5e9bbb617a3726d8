package deck

import (
	"strconv"
	"strings"
	"time"

	"github.com/wiaanjvr/fluency-next-sub010/internal/query"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

// MatchItem reports whether the item satisfies every filter and every
// free text term of the parsed query. Filters the item model carries no
// field for, such as stability, match nothing.
func MatchItem(item srs.Item, pq query.ParsedQuery, now time.Time, leechThreshold int) bool {
	for _, filter := range pq.Filters {
		if matchFilter(item, filter, now, leechThreshold) == filter.Negate {
			return false
		}
	}
	for _, term := range pq.TextTerms {
		if !matchText(item, term) {
			return false
		}
	}
	return true
}

func matchFilter(item srs.Item, filter query.Filter, now time.Time, leechThreshold int) bool {
	switch filter.Kind {
	case query.KindDeck:
		return strings.EqualFold(item.Deck, filter.Value)

	case query.KindTag:
		for _, tag := range item.Tags {
			if strings.EqualFold(tag, filter.Value) {
				return true
			}
		}
		return false

	case query.KindNote:
		return containsFold(item.Note, filter.Value)

	case query.KindSource:
		return strings.EqualFold(item.Source, filter.Value)

	case query.KindClass:
		return strings.EqualFold(item.Class, filter.Value)

	case query.KindState:
		return matchState(item, filter.Value)

	case query.KindDue:
		days, err := strconv.Atoi(filter.Value)
		if err != nil {
			return false
		}
		// due:0 is due today or overdue; each extra day widens the
		// window by one midnight.
		deadline := srs.EndOfDay(now).AddDate(0, 0, days)
		return !item.Suspended && !srs.Buried(item, now) && item.NextReview.Before(deadline)

	case query.KindSuspended:
		return item.Suspended

	case query.KindBuried:
		return srs.Buried(item, now)

	case query.KindLeech:
		return srs.IsLeech(item, leechThreshold)

	case query.KindEase:
		return compare(item.EaseFactor, filter.Operator, filter.NumericValue)

	case query.KindInterval:
		return compare(item.IntervalDays, filter.Operator, filter.NumericValue)

	case query.KindReps:
		return compare(float64(item.Repetitions), filter.Operator, filter.NumericValue)

	case query.KindLapses:
		return compare(float64(item.Lapses), filter.Operator, filter.NumericValue)

	case query.KindAdded:
		days, err := strconv.Atoi(filter.Value)
		if err != nil {
			return false
		}
		return !item.AddedAt.IsZero() && !item.AddedAt.Before(now.AddDate(0, 0, -days))

	case query.KindRated:
		return matchRated(item, filter.Value)

	case query.KindFlag:
		flag, err := strconv.Atoi(filter.Value)
		if err != nil {
			return false
		}
		return item.Flag == flag
	}

	return false
}

func matchState(item srs.Item, state string) bool {
	switch state {
	case "new":
		return item.Status == srs.StatusNew
	case "learning":
		return item.Status == srs.StatusLearning
	case "review":
		return item.Status == srs.StatusKnown || item.Status == srs.StatusMastered
	case "relearning":
		return item.Status == srs.StatusLearning && item.Lapses >= 1
	}
	return false
}

// ratedBuckets maps the four query rating buckets onto the zero to five
// rating scale: 1 covers complete failures, 4 covers perfect recalls.
var ratedBuckets = map[string][]srs.Rating{
	"1": {0, 1},
	"2": {2},
	"3": {3, 4},
	"4": {5},
}

func matchRated(item srs.Item, bucket string) bool {
	if item.LastRating == nil {
		return false
	}
	for _, rating := range ratedBuckets[bucket] {
		if *item.LastRating == rating {
			return true
		}
	}
	return false
}

func compare(value float64, operator string, target float64) bool {
	switch operator {
	case ">":
		return value > target
	case "<":
		return value < target
	case ">=":
		return value >= target
	case "<=":
		return value <= target
	}
	return value == target
}

func matchText(item srs.Item, term string) bool {
	return containsFold(item.Lemma, term) || containsFold(item.Definition, term)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
