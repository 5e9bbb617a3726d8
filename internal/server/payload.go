package server

import (
	"time"

	"github.com/wiaanjvr/fluency-next-sub010/internal/query"
	"github.com/wiaanjvr/fluency-next-sub010/internal/review"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
	"github.com/wiaanjvr/fluency-next-sub010/internal/stats"
)

// itemPayload is the wire form of an item. Scheduling fields are always
// present so clients can render progress without knowing the defaults.
type itemPayload struct {
	ID         string   `json:"id"`
	Lemma      string   `json:"lemma"`
	Language   string   `json:"language,omitempty"`
	Definition string   `json:"definition,omitempty"`
	Examples   []string `json:"examples,omitempty"`
	Deck       string   `json:"deck,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Note       string   `json:"note,omitempty"`
	Source     string   `json:"source,omitempty"`
	Class      string   `json:"class,omitempty"`

	EaseFactor   float64    `json:"ease_factor"`
	Repetitions  int        `json:"repetitions"`
	IntervalDays float64    `json:"interval_days"`
	NextReview   time.Time  `json:"next_review"`
	Status       srs.Status `json:"status"`

	Suspended     bool       `json:"suspended"`
	BuriedUntil   *time.Time `json:"buried_until,omitempty"`
	Lapses        int        `json:"lapses"`
	SiblingGroup  string     `json:"sibling_group,omitempty"`
	Flag          int        `json:"flag,omitempty"`
	FrequencyRank int        `json:"frequency_rank,omitempty"`

	AddedAt    time.Time   `json:"added_at"`
	LastReview *time.Time  `json:"last_review,omitempty"`
	LastRating *srs.Rating `json:"last_rating,omitempty"`
}

func toItemPayload(item srs.Item) itemPayload {
	return itemPayload{
		ID:            item.ID,
		Lemma:         item.Lemma,
		Language:      item.Language,
		Definition:    item.Definition,
		Examples:      item.Examples,
		Deck:          item.Deck,
		Tags:          item.Tags,
		Note:          item.Note,
		Source:        item.Source,
		Class:         item.Class,
		EaseFactor:    item.EaseFactor,
		Repetitions:   item.Repetitions,
		IntervalDays:  item.IntervalDays,
		NextReview:    item.NextReview,
		Status:        item.Status,
		Suspended:     item.Suspended,
		BuriedUntil:   item.BuriedUntil,
		Lapses:        item.Lapses,
		SiblingGroup:  item.SiblingGroup,
		Flag:          item.Flag,
		FrequencyRank: item.FrequencyRank,
		AddedAt:       item.AddedAt,
		LastReview:    item.LastReview,
		LastRating:    item.LastRating,
	}
}

type eventPayload struct {
	ID             string     `json:"id"`
	ItemID         string     `json:"item_id"`
	Rating         srs.Rating `json:"rating"`
	ReviewedAt     time.Time  `json:"reviewed_at"`
	ResponseTimeMs int64      `json:"response_time_ms,omitempty"`

	EaseFactor   float64    `json:"ease_factor"`
	Repetitions  int        `json:"repetitions"`
	IntervalDays float64    `json:"interval_days"`
	NextReview   time.Time  `json:"next_review"`
	Status       srs.Status `json:"status"`
}

func toEventPayload(event srs.ReviewEvent) eventPayload {
	return eventPayload{
		ID:             event.ID,
		ItemID:         event.ItemID,
		Rating:         event.Rating,
		ReviewedAt:     event.ReviewedAt,
		ResponseTimeMs: event.ResponseTimeMs,
		EaseFactor:     event.EaseFactor,
		Repetitions:    event.Repetitions,
		IntervalDays:   event.IntervalDays,
		NextReview:     event.NextReview,
		Status:         event.Status,
	}
}

type queueResponse struct {
	Deck        string        `json:"deck,omitempty"`
	Description string        `json:"description"`
	Count       int           `json:"count"`
	Items       []itemPayload `json:"items"`
}

func toQueueResponse(queue *review.Queue) queueResponse {
	items := make([]itemPayload, 0, len(queue.Items))
	for _, item := range queue.Items {
		items = append(items, toItemPayload(item))
	}
	return queueResponse{
		Deck:        queue.Deck,
		Description: queue.Description,
		Count:       len(items),
		Items:       items,
	}
}

// submitRequest carries one graded answer. Rating is a pointer so a
// missing field can be told apart from a genuine zero rating.
type submitRequest struct {
	ItemID         string `json:"item_id"`
	Rating         *int   `json:"rating"`
	ResponseTimeMs int64  `json:"response_time_ms"`
}

type submitResponse struct {
	Item           itemPayload  `json:"item"`
	Event          eventPayload `json:"event"`
	BuriedSiblings []string     `json:"buried_siblings,omitempty"`
	LeechWarning   bool         `json:"leech_warning"`
}

func toSubmitResponse(result *review.SubmitResult) submitResponse {
	return submitResponse{
		Item:           toItemPayload(result.Item),
		Event:          toEventPayload(result.Event),
		BuriedSiblings: result.BuriedSiblings,
		LeechWarning:   result.LeechWarning,
	}
}

type itemResponse struct {
	Item itemPayload `json:"item"`
}

type unburyResponse struct {
	Deck     string `json:"deck"`
	Unburied int    `json:"unburied"`
}

type filterPayload struct {
	Kind         query.Kind `json:"kind"`
	Value        string     `json:"value"`
	Negate       bool       `json:"negate,omitempty"`
	Operator     string     `json:"operator,omitempty"`
	NumericValue float64    `json:"numeric_value,omitempty"`
}

type searchResponse struct {
	Query       string          `json:"query"`
	Description string          `json:"description"`
	Filters     []filterPayload `json:"filters"`
	TextTerms   []string        `json:"text_terms,omitempty"`
}

func toSearchResponse(raw string, pq query.ParsedQuery) searchResponse {
	filters := make([]filterPayload, 0, len(pq.Filters))
	for _, filter := range pq.Filters {
		filters = append(filters, filterPayload{
			Kind:         filter.Kind,
			Value:        filter.Value,
			Negate:       filter.Negate,
			Operator:     filter.Operator,
			NumericValue: filter.NumericValue,
		})
	}
	return searchResponse{
		Query:       raw,
		Description: query.Describe(pq),
		Filters:     filters,
		TextTerms:   pq.TextTerms,
	}
}

type statsPeriodPayload struct {
	Period         string `json:"period"`
	NewWordsCount  int    `json:"new_words_count"`
	NewWordsUnique int    `json:"new_words_unique"`
	RelearnsCount  int    `json:"relearns_count"`
	RelearnsUnique int    `json:"relearns_unique"`
	LapsesCount    int    `json:"lapses_count"`
	LapsesUnique   int    `json:"lapses_unique"`
}

type statsAggregatePayload struct {
	NewWordsCount  int `json:"new_words_count"`
	NewWordsUnique int `json:"new_words_unique"`
	RelearnsCount  int `json:"relearns_count"`
	RelearnsUnique int `json:"relearns_unique"`
	LapsesCount    int `json:"lapses_count"`
	LapsesUnique   int `json:"lapses_unique"`
}

type statsResponse struct {
	Periods   []statsPeriodPayload  `json:"periods"`
	Aggregate statsAggregatePayload `json:"aggregate"`
}

func toStatsResponse(result stats.Result) statsResponse {
	periods := make([]statsPeriodPayload, 0, len(result.Periods))
	for _, period := range result.Periods {
		periods = append(periods, statsPeriodPayload{
			Period:         period.Period,
			NewWordsCount:  period.NewWordsCount,
			NewWordsUnique: period.NewWordsUnique,
			RelearnsCount:  period.RelearnsCount,
			RelearnsUnique: period.RelearnsUnique,
			LapsesCount:    period.LapsesCount,
			LapsesUnique:   period.LapsesUnique,
		})
	}
	return statsResponse{
		Periods: periods,
		Aggregate: statsAggregatePayload{
			NewWordsCount:  result.Aggregate.NewWordsCount,
			NewWordsUnique: result.Aggregate.NewWordsUnique,
			RelearnsCount:  result.Aggregate.RelearnsCount,
			RelearnsUnique: result.Aggregate.RelearnsUnique,
			LapsesCount:    result.Aggregate.LapsesCount,
			LapsesUnique:   result.Aggregate.LapsesUnique,
		},
	}
}
