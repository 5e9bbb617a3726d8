package content

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wiaanjvr/fluency-next-sub010/internal/assets"
	"github.com/wiaanjvr/fluency-next-sub010/internal/config"
	"github.com/wiaanjvr/fluency-next-sub010/internal/corpus"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

// sectionOrder fixes how learning stages appear in a brief, shakiest
// words first.
var sectionOrder = []srs.Status{
	srs.StatusLearning,
	srs.StatusNew,
	srs.StatusKnown,
	srs.StatusMastered,
}

var sectionHeadings = map[srs.Status]string{
	srs.StatusLearning: "Still learning",
	srs.StatusNew:      "New words",
	srs.StatusKnown:    "Keep warm",
	srs.StatusMastered: "Mastered",
}

// BuildBrief selects up to target words and arranges them into
// reading-brief template data, grouped by learning stage.
func BuildBrief(deck string, items []srs.Item, ranks corpus.Table, target int, now time.Time, rng *rand.Rand) assets.BriefTemplate {
	picked := PickWords(items, target, ranks, now, rng)

	title := "Reading brief"
	if deck != "" {
		title = fmt.Sprintf("Reading brief: %s", deck)
	}

	byStatus := make(map[srs.Status][]assets.BriefWord, len(sectionOrder))
	for _, item := range picked {
		byStatus[item.Status] = append(byStatus[item.Status], assets.BriefWord{
			Lemma:      item.Lemma,
			Class:      item.Class,
			Definition: item.Definition,
			Examples:   item.Examples,
			Tags:       item.Tags,
			Rank:       ranks[item.ID],
		})
	}

	brief := assets.BriefTemplate{
		Title:     title,
		Deck:      deck,
		Date:      now,
		WordCount: len(picked),
	}
	for _, status := range sectionOrder {
		words := byStatus[status]
		if len(words) == 0 {
			continue
		}
		brief.Sections = append(brief.Sections, assets.BriefSection{
			Heading: sectionHeadings[status],
			Words:   words,
		})
	}
	return brief
}

// Generator writes briefs under the configured output directory, using
// the configured template override when one is set.
type Generator struct {
	config config.ContentConfig
}

func NewGenerator(cfg config.ContentConfig) *Generator {
	return &Generator{config: cfg}
}

// WriteMarkdown renders a brief to
// <output_directory>/brief-<deck>-<date>.md and returns the path.
func (g *Generator) WriteMarkdown(brief assets.BriefTemplate) (string, error) {
	if err := os.MkdirAll(g.config.OutputDirectory, 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s)> %w", g.config.OutputDirectory, err)
	}

	name := fmt.Sprintf("brief-%s-%s.md", briefSlug(brief.Deck), brief.Date.Format("2006-01-02"))
	path := filepath.Join(g.config.OutputDirectory, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("os.Create(%s)> %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := assets.WriteReadingBrief(file, g.config.BriefTemplate, brief); err != nil {
		return "", fmt.Errorf("assets.WriteReadingBrief > %w", err)
	}
	return path, nil
}

func briefSlug(deck string) string {
	if deck == "" {
		return "all"
	}
	return strings.ReplaceAll(strings.ToLower(deck), " ", "-")
}
