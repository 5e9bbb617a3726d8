// Package testutil provides temp-dir fixtures shared by command and
// integration tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiaanjvr/fluency-next-sub010/internal/deck"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

// SetupTestConfig writes a config file whose directories all live under
// tmpDir and returns its path.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	contents := fmt.Sprintf(`decks:
  directories:
    - %s
  events_directory: %s
corpus:
  cache_directory: %s
scheduler:
  leech_threshold: 8
  max_interval_days: 0
content:
  target_words: 5
  output_directory: %s
outbox:
  path: %s
`,
		filepath.Join(tmpDir, "decks"),
		filepath.Join(tmpDir, "events"),
		filepath.Join(tmpDir, "corpus-cache"),
		filepath.Join(tmpDir, "briefs"),
		filepath.Join(tmpDir, "outbox.db"),
	)

	configPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(contents), 0o644))
	return configPath
}

// CreateDeck writes a deck index and word file under tmpDir/decks.
func CreateDeck(t *testing.T, tmpDir, deckID string, items []srs.Item) {
	t.Helper()

	require.NoError(t, deck.WriteYamlFile(
		filepath.Join(tmpDir, "decks", deckID, "index.yml"),
		deck.Deck{ID: deckID, Name: deckID, Language: "de"},
	))
	require.NoError(t, deck.WriteYamlFile(
		filepath.Join(tmpDir, "decks", deckID, "words.yml"),
		items,
	))
}

// CreateEvents writes a review event file under tmpDir/events.
func CreateEvents(t *testing.T, tmpDir, deckID string, events []srs.ReviewEvent) {
	t.Helper()

	require.NoError(t, deck.WriteYamlFile(
		filepath.Join(tmpDir, "events", deckID+".yml"),
		events,
	))
}
