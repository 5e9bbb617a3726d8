package srs

import "time"

// IsDue reports whether the item should appear in the review queue:
// not suspended, not currently buried, and its next review has arrived.
func IsDue(item Item, now time.Time) bool {
	if item.Suspended {
		return false
	}
	if Buried(item, now) {
		return false
	}
	return !item.NextReview.After(now)
}

// Buried reports whether the item is temporarily out of the queue.
func Buried(item Item, now time.Time) bool {
	return item.BuriedUntil != nil && item.BuriedUntil.After(now)
}

// Suspend removes the item from all due computations until Unsuspend.
// Scheduling state is left untouched.
func Suspend(item Item) Item {
	item.Suspended = true
	return item
}

// Unsuspend returns the item to normal due computations.
func Unsuspend(item Item) Item {
	item.Suspended = false
	return item
}

// Bury hides the item from the queue until the given time.
func Bury(item Item, until time.Time) Item {
	item.BuriedUntil = &until
	return item
}

// BuryUntilTomorrow hides the item for the rest of the learner's day.
func BuryUntilTomorrow(item Item, now time.Time) Item {
	return Bury(item, EndOfDay(now))
}

// Unbury clears the item's burial immediately.
func Unbury(item Item) Item {
	item.BuriedUntil = nil
	return item
}

// UnburyAll clears the burial of every item in one pass, for batch
// unbury over a scope such as a deck. The input slice is not mutated.
func UnburyAll(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		item.BuriedUntil = nil
		out[i] = item
	}
	return out
}

// BurySiblings returns the IDs of every other item sharing the item's
// sibling group, so a session does not surface near duplicates of a
// card the learner just saw. The caller applies the burial to the
// returned IDs. Items without a sibling group have no siblings.
func BurySiblings(item Item, all []Item) []string {
	if item.SiblingGroup == "" {
		return nil
	}
	var ids []string
	for _, other := range all {
		if other.ID == item.ID {
			continue
		}
		if other.SiblingGroup != item.SiblingGroup {
			continue
		}
		ids = append(ids, other.ID)
	}
	return ids
}

// IsLeech reports whether the item's lapses reached the threshold.
// A threshold of zero or below falls back to DefaultLeechThreshold.
func IsLeech(item Item, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultLeechThreshold
	}
	return item.Lapses >= threshold
}

// EndOfDay returns the next midnight in now's location.
func EndOfDay(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
}
