package deck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wiaanjvr/fluency-next-sub010/internal/config"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

// ValidationError represents a single validation error
type ValidationError struct {
	File        string
	Location    string
	Message     string
	Severity    string // "error" or "warning"
	Suggestions []string
}

func (e ValidationError) Error() string {
	location := ""
	if e.Location != "" {
		location = fmt.Sprintf(" (%s)", e.Location)
	}
	msg := fmt.Sprintf("%s%s: %s", e.File, location, e.Message)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" [Suggestion: %s]", strings.Join(e.Suggestions, "; "))
	}
	return msg
}

// ValidationResult contains all validation errors grouped by type
type ValidationResult struct {
	DeckErrors        []ValidationError
	ConsistencyErrors []ValidationError
	Warnings          []ValidationError
}

func (r *ValidationResult) HasErrors() bool {
	return len(r.DeckErrors) > 0 || len(r.ConsistencyErrors) > 0
}

func (r *ValidationResult) AddError(category string, err ValidationError) {
	err.Severity = "error"
	switch category {
	case "deck":
		r.DeckErrors = append(r.DeckErrors, err)
	case "consistency":
		r.ConsistencyErrors = append(r.ConsistencyErrors, err)
	}
}

func (r *ValidationResult) AddWarning(err ValidationError) {
	err.Severity = "warning"
	r.Warnings = append(r.Warnings, err)
}

// Validator checks deck directories and event files for broken or
// suspicious data before it reaches the scheduler.
type Validator struct {
	decksConfig config.DecksConfig
}

// NewValidator creates a new validator
func NewValidator(cfg config.DecksConfig) *Validator {
	return &Validator{decksConfig: cfg}
}

// Validate performs all validations
func (v *Validator) Validate() (*ValidationResult, error) {
	result := &ValidationResult{}

	repo := NewYAMLRepository(v.decksConfig)
	dirs, err := repo.deckDirs()
	if err != nil {
		return nil, fmt.Errorf("load deck directories > %w", err)
	}

	seenItems := make(map[string]string)  // item ID -> file
	siblingGroups := make(map[string]int) // group -> member count
	for _, d := range dirs {
		v.validateIndex(d, result)

		files, err := loadYamlFiles[[]srs.Item](d.path, wordFileFilter)
		if err != nil {
			result.AddError("deck", ValidationError{
				File:    d.path,
				Message: fmt.Sprintf("failed to read word files: %v", err),
				Suggestions: []string{
					"check the YAML syntax of the word files in this deck",
				},
			})
			continue
		}

		for _, file := range files {
			for i, item := range file.contents {
				location := fmt.Sprintf("item #%d", i+1)
				if item.Lemma != "" {
					location = fmt.Sprintf("item %q", item.Lemma)
				}
				v.validateItem(file.path, location, item, result)

				if item.ID != "" {
					if previous, ok := seenItems[item.ID]; ok {
						result.AddError("consistency", ValidationError{
							File:     file.path,
							Location: location,
							Message:  fmt.Sprintf("duplicate item ID %s, first seen in %s", item.ID, previous),
							Suggestions: []string{
								"give every item a unique ID",
							},
						})
					} else {
						seenItems[item.ID] = file.path
					}
				}
				if item.SiblingGroup != "" {
					siblingGroups[item.SiblingGroup]++
				}
			}
		}
	}

	for _, group := range sortedGroupKeys(siblingGroups) {
		if siblingGroups[group] == 1 {
			result.AddWarning(ValidationError{
				File:    "decks",
				Message: fmt.Sprintf("sibling group %q has a single member", group),
				Suggestions: []string{
					"remove the sibling_group field or add the missing variants",
				},
			})
		}
	}

	v.validateEvents(seenItems, result)
	return result, nil
}

func (v *Validator) validateIndex(d deckDir, result *ValidationResult) {
	indexPath := filepath.Join(d.path, indexFileName)
	if d.deck.Name == "" {
		result.AddWarning(ValidationError{
			File:        indexPath,
			Message:     "deck has no name",
			Suggestions: []string{"add a name field to the deck index"},
		})
	}
	if d.deck.Language == "" {
		result.AddWarning(ValidationError{
			File:        indexPath,
			Message:     "deck has no language",
			Suggestions: []string{"add a language field so corpus lookups can work"},
		})
	}
}

func (v *Validator) validateItem(file, location string, item srs.Item, result *ValidationResult) {
	if item.ID == "" {
		result.AddError("deck", ValidationError{
			File:        file,
			Location:    location,
			Message:     "item has no ID",
			Suggestions: []string{"add a unique id field, e.g. a UUID"},
		})
	}
	if item.Lemma == "" {
		result.AddError("deck", ValidationError{
			File:     file,
			Location: location,
			Message:  "item has no lemma",
		})
	}
	if item.EaseFactor != 0 && (item.EaseFactor < srs.MinEaseFactor || item.EaseFactor > srs.MaxEaseFactor) {
		result.AddError("deck", ValidationError{
			File:     file,
			Location: location,
			Message: fmt.Sprintf("ease factor %.2f outside [%.1f, %.1f]",
				item.EaseFactor, srs.MinEaseFactor, srs.MaxEaseFactor),
			Suggestions: []string{"reset ease_factor to 2.5 and let reviews adjust it"},
		})
	}
	if item.Repetitions < 0 || item.Lapses < 0 || item.IntervalDays < 0 {
		result.AddError("deck", ValidationError{
			File:     file,
			Location: location,
			Message:  "negative repetitions, lapses or interval",
		})
	}
	if item.Status.IsValid() && item.Status != srs.StatusNew && item.NextReview.IsZero() {
		result.AddWarning(ValidationError{
			File:     file,
			Location: location,
			Message:  fmt.Sprintf("status %s but no next_review set", item.Status),
			Suggestions: []string{
				"set next_review, or reset the item to status new",
			},
		})
	}
	if item.BuriedUntil != nil && item.BuriedUntil.Before(time.Now().Add(-365*24*time.Hour)) {
		result.AddWarning(ValidationError{
			File:     file,
			Location: location,
			Message:  "buried_until is over a year in the past",
			Suggestions: []string{
				"remove the stale buried_until field",
			},
		})
	}
}

func (v *Validator) validateEvents(seenItems map[string]string, result *ValidationResult) {
	eventsDir := v.decksConfig.EventsDirectory
	if _, err := os.Stat(eventsDir); errors.Is(err, os.ErrNotExist) {
		return
	}

	files, err := loadYamlFiles[[]srs.ReviewEvent](eventsDir, isYamlFile)
	if err != nil {
		result.AddError("consistency", ValidationError{
			File:        eventsDir,
			Message:     fmt.Sprintf("failed to read event files: %v", err),
			Suggestions: []string{"check the YAML syntax of the event files"},
		})
		return
	}

	for _, file := range files {
		for i, event := range file.contents {
			location := fmt.Sprintf("event #%d", i+1)
			if err := event.Rating.Validate(); err != nil {
				result.AddError("consistency", ValidationError{
					File:     file.path,
					Location: location,
					Message:  fmt.Sprintf("invalid rating %d", int(event.Rating)),
				})
			}
			if event.ReviewedAt.IsZero() {
				result.AddError("consistency", ValidationError{
					File:     file.path,
					Location: location,
					Message:  "event has no reviewed_at timestamp",
				})
			}
			if event.ItemID == "" {
				result.AddError("consistency", ValidationError{
					File:     file.path,
					Location: location,
					Message:  "event has no item_id",
				})
				continue
			}
			if _, ok := seenItems[event.ItemID]; !ok {
				result.AddWarning(ValidationError{
					File:     file.path,
					Location: location,
					Message:  fmt.Sprintf("event references unknown item %s", event.ItemID),
					Suggestions: []string{
						"the item may have been deleted; events are kept for audit",
					},
				})
			}
		}
	}
}

func sortedGroupKeys(groups map[string]int) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
