package srs

import (
	"errors"
	"fmt"
)

// ErrInvalidRating reports a rating outside the 0..5 scale.
// Use errors.Is to check.
var ErrInvalidRating = errors.New("srs: invalid rating")

// Rating grades a single recall on the 0..5 SM-2 scale: 0 is a total
// blackout, 2 is a failure the learner almost recovered, 3..5 are
// successes of increasing ease.
type Rating int

const (
	MinRating Rating = 0
	MaxRating Rating = 5
)

// Validate returns ErrInvalidRating when r is outside 0..5. Ratings are
// never clamped; an out-of-range value is a caller bug and clamping it
// would corrupt the scheduling history.
func (r Rating) Validate() error {
	if r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	return nil
}

// correct reports whether the recall counts as correct for the easiness
// formula. Rating 2 is handled separately: a flat penalty, but still a
// successful repetition.
func (r Rating) correct() bool {
	return r >= 3
}
