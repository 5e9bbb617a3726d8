// Package cli implements the interactive terminal surfaces of the
// fluency command: review sessions, queue listings and reports.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/wiaanjvr/fluency-next-sub010/internal/review"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

// errEnd signals a normal end of the session.
var errEnd = errors.New("session ended")

// EventSink receives a copy of every submitted review event, used to
// queue events for a later database flush when reviewing offline.
type EventSink interface {
	Enqueue(ctx context.Context, deckID string, event srs.ReviewEvent) (int64, error)
}

// ReviewSession runs an interactive review sitting over a due queue.
type ReviewSession struct {
	service *review.Service
	sink    EventSink

	queue []srs.Item

	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	warn         *color.Color
	now          func() time.Time
}

// NewReviewSession creates a session reading answers from in and
// printing to out. A nil sink disables offline queueing.
func NewReviewSession(service *review.Service, sink EventSink, in io.Reader, out io.Writer) *ReviewSession {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &ReviewSession{
		service:      service,
		sink:         sink,
		stdinReader:  bufio.NewReader(in),
		stdoutWriter: out,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		warn:         color.New(color.FgYellow, color.Bold),
		now:          time.Now,
	}
}

// Start builds the due queue and runs the prompt loop until the queue
// is empty, the learner quits, or the process is interrupted.
func (s *ReviewSession) Start(ctx context.Context, deckID, rawQuery string) error {
	queue, err := s.service.Queue(ctx, deckID, rawQuery)
	if err != nil {
		return fmt.Errorf("build review queue > %w", err)
	}
	s.queue = queue.Items

	fmt.Fprintf(s.stdoutWriter, "Review queue (%s): %d cards\n\n", queue.Description, len(s.queue))
	if len(s.queue) == 0 {
		fmt.Fprintln(s.stdoutWriter, "No cards due.")
		return nil
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := s.session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(s.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("review session > %w", err)
		}
	}
	return nil
}

// session handles one card: prompt, reveal, rate, submit.
func (s *ReviewSession) session(ctx context.Context) error {
	if len(s.queue) == 0 {
		fmt.Fprintln(s.stdoutWriter, "Session complete.")
		return errEnd
	}
	card := s.queue[0]
	s.queue = s.queue[1:]

	fmt.Fprintf(s.stdoutWriter, "%s  ", s.bold.Sprint(card.Lemma))
	s.italic.Fprintf(s.stdoutWriter, "(%s, %d left)\n", card.Deck, len(s.queue)+1)

	if quit, err := s.prompt("Press enter to show the answer (q to quit): "); err != nil || quit {
		if err != nil {
			return err
		}
		return errEnd
	}

	shownAt := s.now()
	s.showAnswer(card)

	rating, quit, err := s.readRating()
	if err != nil {
		return err
	}
	if quit {
		return errEnd
	}
	responseTimeMs := s.now().Sub(shownAt).Milliseconds()

	result, err := s.service.Submit(ctx, card.ID, rating, responseTimeMs)
	if err != nil {
		return fmt.Errorf("submit answer for %s > %w", card.ID, err)
	}
	if s.sink != nil {
		if _, err := s.sink.Enqueue(ctx, result.Item.Deck, result.Event); err != nil {
			return fmt.Errorf("queue event for sync > %w", err)
		}
	}

	fmt.Fprintf(s.stdoutWriter, "Next review %s (%s)\n",
		formatInterval(result.Item.IntervalDays), result.Item.Status)
	if result.LeechWarning {
		s.warn.Fprintf(s.stdoutWriter, "%q keeps lapsing - consider suspending it\n", card.Lemma)
	}
	if buried := s.dropBuried(result.BuriedSiblings); buried > 0 {
		fmt.Fprintf(s.stdoutWriter, "Buried %d sibling cards until tomorrow\n", buried)
	}
	fmt.Fprintln(s.stdoutWriter)
	return nil
}

func (s *ReviewSession) showAnswer(card srs.Item) {
	if card.Definition != "" {
		fmt.Fprintf(s.stdoutWriter, "  %s\n", card.Definition)
	}
	for _, example := range card.Examples {
		s.italic.Fprintf(s.stdoutWriter, "  e.g. %s\n", example)
	}
	if card.Note != "" {
		fmt.Fprintf(s.stdoutWriter, "  note: %s\n", card.Note)
	}
}

// prompt reads one line; quit is true for a "q" answer.
func (s *ReviewSession) prompt(message string) (quit bool, err error) {
	fmt.Fprint(s.stdoutWriter, message)
	line, err := s.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		return false, fmt.Errorf("read input > %w", err)
	}
	return strings.TrimSpace(line) == "q", nil
}

// readRating loops until the learner enters a valid 0..5 rating or quits.
func (s *ReviewSession) readRating() (srs.Rating, bool, error) {
	for {
		fmt.Fprint(s.stdoutWriter, "Rate your recall 0-5 (q to quit): ")
		line, err := s.stdinReader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, true, nil
			}
			return 0, false, fmt.Errorf("read rating > %w", err)
		}
		answer := strings.TrimSpace(line)
		if answer == "q" {
			return 0, true, nil
		}

		value, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(s.stdoutWriter, "Please enter a number between 0 and 5.")
			continue
		}
		rating := srs.Rating(value)
		if err := rating.Validate(); err != nil {
			fmt.Fprintln(s.stdoutWriter, "Please enter a number between 0 and 5.")
			continue
		}
		return rating, false, nil
	}
}

// dropBuried removes buried siblings from the rest of the sitting.
func (s *ReviewSession) dropBuried(ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	buried := make(map[string]bool, len(ids))
	for _, id := range ids {
		buried[id] = true
	}

	kept := s.queue[:0]
	dropped := 0
	for _, card := range s.queue {
		if buried[card.ID] {
			dropped++
			continue
		}
		kept = append(kept, card)
	}
	s.queue = kept
	return dropped
}

// formatInterval renders a fractional day count the way a learner reads
// it: minutes, hours, then days.
func formatInterval(days float64) string {
	switch {
	case days < 1.0/24:
		minutes := int(days*24*60 + 0.5)
		if minutes <= 1 {
			return "in 1 minute"
		}
		return fmt.Sprintf("in %d minutes", minutes)
	case days < 1:
		hours := int(days*24 + 0.5)
		if hours <= 1 {
			return "in 1 hour"
		}
		return fmt.Sprintf("in %d hours", hours)
	case days < 1.5:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", int(days+0.5))
	}
}
