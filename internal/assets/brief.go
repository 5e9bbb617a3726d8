package assets

import (
	"fmt"
	"io"
	"time"
)

// BriefTemplate is the top-level data structure for reading brief templates
type BriefTemplate struct {
	Title     string
	Deck      string
	Date      time.Time
	WordCount int
	Sections  []BriefSection
}

// BriefSection groups the words of one learning stage
type BriefSection struct {
	Heading string
	Words   []BriefWord
}

// BriefWord is a vocabulary word prepared for template rendering
type BriefWord struct {
	Lemma      string
	Class      string
	Definition string
	Examples   []string
	Tags       []string
	Rank       int
}

func WriteReadingBrief(output io.Writer, templatePath string, templateData BriefTemplate) error {
	tmpl, err := parseTemplateWithFallback(templatePath, fallbackReadingBriefTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
