package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/wiaanjvr/fluency-next-sub010/internal/review"
)

// PrintQueue lists a due queue without starting a session.
func PrintQueue(w io.Writer, queue *review.Queue, now time.Time) {
	bold := color.New(color.Bold)

	bold.Fprintf(w, "%s\n", queue.Description)
	if len(queue.Items) == 0 {
		fmt.Fprintln(w, "No cards due.")
		return
	}

	fmt.Fprintf(w, "%-24s  %-10s  %-9s  %s\n", "Lemma", "Deck", "Status", "Overdue")
	for _, item := range queue.Items {
		overdue := now.Sub(item.NextReview)
		fmt.Fprintf(w, "%-24s  %-10s  %-9s  %s\n",
			item.Lemma, item.Deck, item.Status, formatOverdue(overdue))
	}
	fmt.Fprintf(w, "\n%d cards due\n", len(queue.Items))
}

func formatOverdue(d time.Duration) string {
	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
