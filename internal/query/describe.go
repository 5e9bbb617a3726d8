package query

import (
	"fmt"
	"strings"
)

// DescribeAll is the description of a query with no filters and no
// text: nothing is excluded.
const DescribeAll = "All cards"

// Describe renders a parsed query as a human readable summary for the
// review queue header, for example `deck "German", due today, not tag
// "easy"`.
func Describe(pq ParsedQuery) string {
	if pq.IsEmpty() {
		return DescribeAll
	}

	parts := make([]string, 0, len(pq.Filters)+len(pq.TextTerms))
	for _, filter := range pq.Filters {
		parts = append(parts, describeFilter(filter))
	}
	for _, term := range pq.TextTerms {
		parts = append(parts, fmt.Sprintf("text: %q", term))
	}
	return strings.Join(parts, ", ")
}

func describeFilter(filter Filter) string {
	var phrase string
	switch filter.Kind {
	case KindDeck, KindTag, KindNote, KindSource, KindClass:
		phrase = fmt.Sprintf("%s %q", filter.Kind, filter.Value)
	case KindState:
		phrase = fmt.Sprintf("state %q", filter.Value)
	case KindDue:
		switch filter.Value {
		case "0":
			phrase = "due today"
		case "1":
			phrase = "due tomorrow"
		default:
			phrase = fmt.Sprintf("due in %s days", filter.Value)
		}
	case KindSuspended, KindBuried, KindLeech:
		phrase = string(filter.Kind)
	case KindEase, KindInterval, KindReps, KindLapses, KindStability, KindDifficulty:
		phrase = fmt.Sprintf("%s %s %s", filter.Kind, filter.Operator, filter.Value)
	case KindAdded:
		phrase = fmt.Sprintf("added in last %s days", filter.Value)
	case KindRated:
		phrase = fmt.Sprintf("rated %s", filter.Value)
	case KindFlag:
		phrase = fmt.Sprintf("flag %s", filter.Value)
	default:
		phrase = strings.TrimSpace(fmt.Sprintf("%s %s", filter.Kind, filter.Value))
	}

	if filter.Negate {
		phrase = "not " + phrase
	}
	return phrase
}

// Encode renders a parsed query back into canonical query syntax, so
// that Parse(Encode(pq)) reproduces pq for any pq produced by Parse.
// Filter values are re-quoted when they contain whitespace.
func Encode(pq ParsedQuery) string {
	parts := make([]string, 0, len(pq.Filters)+len(pq.TextTerms))
	for _, filter := range pq.Filters {
		parts = append(parts, encodeFilter(filter))
	}
	for _, term := range pq.TextTerms {
		parts = append(parts, quoteValue(term))
	}
	return strings.Join(parts, " ")
}

func encodeFilter(filter Filter) string {
	var token string
	switch filter.Kind {
	case KindState:
		token = "is:" + filter.Value
	case KindSuspended, KindBuried, KindLeech:
		token = "is:" + string(filter.Kind)
	case KindEase, KindInterval, KindReps, KindLapses, KindStability, KindDifficulty:
		operator := filter.Operator
		if operator == "=" {
			operator = ""
		}
		token = fmt.Sprintf("%s:%s%s", filter.Kind, operator, filter.Value)
	default:
		token = fmt.Sprintf("%s:%s", filter.Kind, quoteValue(filter.Value))
	}

	if filter.Negate {
		token = "-" + token
	}
	return token
}

// quoteValue wraps a value in quotes when the tokenizer would otherwise
// split it. Values containing a double quote are wrapped in single
// quotes instead.
func quoteValue(value string) string {
	if !strings.ContainsAny(value, " \t\n'\"") {
		return value
	}
	if strings.Contains(value, `"`) {
		return "'" + value + "'"
	}
	return `"` + value + `"`
}
