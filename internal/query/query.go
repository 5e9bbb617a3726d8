// Package query parses the search syntax used to slice the review
// queue into structured filters, and renders filters back into human
// readable descriptions or canonical query strings.
package query

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Kind identifies what a filter matches against.
type Kind string

const (
	KindDeck   Kind = "deck"
	KindTag    Kind = "tag"
	KindNote   Kind = "note"
	KindSource Kind = "source"
	KindClass  Kind = "class"

	KindState Kind = "state"
	KindDue   Kind = "due"

	KindSuspended Kind = "suspended"
	KindBuried    Kind = "buried"
	KindLeech     Kind = "leech"

	KindEase       Kind = "ease"
	KindInterval   Kind = "interval"
	KindReps       Kind = "reps"
	KindLapses     Kind = "lapses"
	KindStability  Kind = "stability"
	KindDifficulty Kind = "difficulty"

	KindAdded Kind = "added"
	KindRated Kind = "rated"
	KindFlag  Kind = "flag"
)

// Filter is one structured predicate from a search query. Operator and
// NumericValue are set for the numeric kinds only; for those, Value
// holds the canonical decimal form of the number.
type Filter struct {
	Kind         Kind
	Value        string
	Negate       bool
	Operator     string
	NumericValue float64
}

// ParsedQuery is the result of parsing a search query: structured
// filters plus the residual free text terms.
type ParsedQuery struct {
	Filters   []Filter
	TextTerms []string
}

// IsEmpty reports whether the query carries no filters and no text.
func (pq ParsedQuery) IsEmpty() bool {
	return len(pq.Filters) == 0 && len(pq.TextTerms) == 0
}

// numericValuePattern matches an optional comparison operator followed
// by a non-negative decimal number.
var numericValuePattern = regexp.MustCompile(`^(>=|<=|>|<|=)?(\d+(?:\.\d+)?)$`)

// Parse splits a raw search query into filters and free text terms. It
// never fails: malformed or unrecognized tokens degrade to free text so
// the search bar stays forgiving. A leading minus negates a token; if
// the rest of the token does not classify as a filter, the term keeps
// its minus sign as typed.
func Parse(raw string) ParsedQuery {
	var pq ParsedQuery
	for _, token := range tokenize(raw) {
		negate := false
		candidate := token
		if strings.HasPrefix(token, "-") && len(token) > 1 {
			negate = true
			candidate = token[1:]
		}

		filter, ok := classify(candidate)
		if !ok {
			pq.TextTerms = append(pq.TextTerms, token)
			continue
		}
		filter.Negate = negate
		pq.Filters = append(pq.Filters, filter)
	}
	return pq
}

// tokenize splits on whitespace outside of single or double quotes.
// Quoted spans keep their spaces; the quotes themselves are stripped.
func tokenize(raw string) []string {
	var tokens []string
	var current strings.Builder
	var quote rune

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range raw {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// classify matches a token against the filter rules in priority order.
// The first rule that matches wins; tokens matching nothing stay text.
func classify(token string) (Filter, bool) {
	key, value, found := strings.Cut(token, ":")
	if !found || value == "" {
		return Filter{}, false
	}

	switch key {
	case "deck", "tag", "note", "source", "class":
		return Filter{Kind: Kind(key), Value: value}, true

	case "is":
		switch value {
		case "new", "learning", "review", "relearning":
			return Filter{Kind: KindState, Value: value}, true
		case "due":
			// Due today or overdue.
			return Filter{Kind: KindDue, Value: "0"}, true
		case "suspended":
			return Filter{Kind: KindSuspended}, true
		case "buried":
			return Filter{Kind: KindBuried}, true
		case "leech":
			return Filter{Kind: KindLeech}, true
		}
		return Filter{}, false

	case "ease", "interval", "reps", "lapses", "stability", "difficulty":
		operator, number, ok := parseNumeric(value)
		if !ok {
			return Filter{}, false
		}
		return Filter{
			Kind:         Kind(key),
			Value:        strconv.FormatFloat(number, 'f', -1, 64),
			Operator:     operator,
			NumericValue: number,
		}, true

	case "due":
		switch value {
		case "today":
			return Filter{Kind: KindDue, Value: "0"}, true
		case "tomorrow":
			return Filter{Kind: KindDue, Value: "1"}, true
		}
		days, err := strconv.Atoi(value)
		if err != nil {
			return Filter{}, false
		}
		return Filter{Kind: KindDue, Value: strconv.Itoa(days)}, true

	case "added":
		days, err := strconv.Atoi(value)
		if err != nil {
			return Filter{}, false
		}
		return Filter{Kind: KindAdded, Value: strconv.Itoa(days)}, true

	case "rated":
		bucket, err := strconv.Atoi(value)
		if err != nil || bucket < 1 || bucket > 4 {
			return Filter{}, false
		}
		return Filter{Kind: KindRated, Value: strconv.Itoa(bucket)}, true

	case "flag":
		flag, err := strconv.Atoi(value)
		if err != nil {
			return Filter{}, false
		}
		return Filter{Kind: KindFlag, Value: strconv.Itoa(flag)}, true
	}

	return Filter{}, false
}

// parseNumeric splits an optional comparison operator off a numeric
// filter value. The operator defaults to equality.
func parseNumeric(value string) (operator string, number float64, ok bool) {
	match := numericValuePattern.FindStringSubmatch(value)
	if match == nil {
		return "", 0, false
	}
	operator = match[1]
	if operator == "" {
		operator = "="
	}
	number, err := strconv.ParseFloat(match[2], 64)
	if err != nil {
		return "", 0, false
	}
	return operator, number, true
}
