package deck

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wiaanjvr/fluency-next-sub010/internal/query"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

func TestMatchItem(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	lastRating := srs.Rating(5)
	buriedUntil := now.Add(10 * time.Hour)

	item := srs.Item{
		ID:         "item-1",
		Lemma:      "Haus",
		Definition: "house, building",
		Deck:       "german",
		Tags:       []string{"noun", "basics"},
		Source:     "textbook-1",
		Class:      "noun",
		Note:       "confused with Haus der Kunst",

		EaseFactor:   2.2,
		Repetitions:  5,
		IntervalDays: 4,
		NextReview:   now.Add(-2 * time.Hour),
		Status:       srs.StatusKnown,

		Lapses:     2,
		Flag:       3,
		AddedAt:    now.AddDate(0, 0, -3),
		LastRating: &lastRating,
	}

	tests := []struct {
		name  string
		query string
		item  srs.Item
		want  bool
	}{
		{name: "empty query matches everything", query: "", item: item, want: true},

		{name: "deck match is case insensitive", query: "deck:German", item: item, want: true},
		{name: "deck mismatch", query: "deck:french", item: item, want: false},
		{name: "negated deck", query: "-deck:french", item: item, want: true},

		{name: "tag match", query: "tag:basics", item: item, want: true},
		{name: "tag mismatch", query: "tag:verbs", item: item, want: false},
		{name: "negated tag excludes", query: "-tag:basics", item: item, want: false},

		{name: "note substring match", query: "note:kunst", item: item, want: true},
		{name: "source match", query: "source:textbook-1", item: item, want: true},
		{name: "class match", query: "class:noun", item: item, want: true},

		{name: "state review covers known", query: "is:review", item: item, want: true},
		{name: "state new mismatch", query: "is:new", item: item, want: false},
		{
			name:  "relearning needs a lapse",
			query: "is:relearning",
			item:  srs.Item{Status: srs.StatusLearning, Lapses: 1},
			want:  true,
		},
		{
			name:  "learning without lapse is not relearning",
			query: "is:relearning",
			item:  srs.Item{Status: srs.StatusLearning},
			want:  false,
		},

		{name: "due matches an overdue item", query: "is:due", item: item, want: true},
		{
			name:  "due matches later today",
			query: "due:today",
			item:  srs.Item{NextReview: now.Add(5 * time.Hour)},
			want:  true,
		},
		{
			name:  "due today excludes tomorrow",
			query: "due:today",
			item:  srs.Item{NextReview: now.AddDate(0, 0, 1)},
			want:  false,
		},
		{
			name:  "due tomorrow widens the window",
			query: "due:tomorrow",
			item:  srs.Item{NextReview: now.AddDate(0, 0, 1)},
			want:  true,
		},
		{
			name:  "suspended item is never due",
			query: "is:due",
			item:  srs.Item{NextReview: now.Add(-time.Hour), Suspended: true},
			want:  false,
		},
		{
			name:  "buried item is never due",
			query: "is:due",
			item:  srs.Item{NextReview: now.Add(-time.Hour), BuriedUntil: &buriedUntil},
			want:  false,
		},

		{name: "is:suspended", query: "is:suspended", item: srs.Item{Suspended: true}, want: true},
		{name: "is:buried", query: "is:buried", item: srs.Item{BuriedUntil: &buriedUntil}, want: true},
		{name: "is:leech uses the threshold", query: "is:leech", item: srs.Item{Lapses: 4}, want: true},
		{name: "below leech threshold", query: "is:leech", item: srs.Item{Lapses: 3}, want: false},

		{name: "ease greater than", query: "ease:>2.1", item: item, want: true},
		{name: "ease less than fails", query: "ease:<2.1", item: item, want: false},
		{name: "ease equality", query: "ease:2.2", item: item, want: true},
		{name: "interval at least", query: "interval:>=4", item: item, want: true},
		{name: "reps at most", query: "reps:<=5", item: item, want: true},
		{name: "lapses exact", query: "lapses:2", item: item, want: true},

		{name: "stability has no model field", query: "stability:>1", item: item, want: false},
		{name: "negated stability matches everything", query: "-stability:>1", item: item, want: true},

		{name: "added within window", query: "added:7", item: item, want: true},
		{name: "added outside window", query: "added:2", item: item, want: false},
		{
			name:  "added requires a timestamp",
			query: "added:7",
			item:  srs.Item{},
			want:  false,
		},

		{name: "rated bucket four covers perfect recall", query: "rated:4", item: item, want: true},
		{name: "rated bucket three misses perfect recall", query: "rated:3", item: item, want: false},
		{name: "rated needs a last rating", query: "rated:4", item: srs.Item{}, want: false},

		{name: "flag equality", query: "flag:3", item: item, want: true},
		{name: "flag mismatch", query: "flag:1", item: item, want: false},

		{name: "text matches lemma", query: "haus", item: item, want: true},
		{name: "text matches definition", query: "building", item: item, want: true},
		{name: "quoted phrase against definition", query: "\"house, building\"", item: item, want: true},
		{name: "all text terms must match", query: "haus missing", item: item, want: false},

		{
			name:  "combined filters and text",
			query: "deck:German is:due -tag:easy haus",
			item:  item,
			want:  true,
		},
		{
			name:  "combined query fails on one filter",
			query: "deck:German is:due tag:easy haus",
			item:  item,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pq := query.Parse(tt.query)
			got := MatchItem(tt.item, pq, now, 4)
			assert.Equal(t, tt.want, got)
		})
	}
}
