package cli

import (
	"fmt"
	"io"

	"github.com/wiaanjvr/fluency-next-sub010/internal/stats"
)

// PrintReport displays a review statistics report.
func PrintReport(w io.Writer, result stats.Result) {
	if len(result.Periods) == 0 {
		fmt.Fprintln(w, "No review records found for the specified period.")
		return
	}

	fmt.Fprintln(w, "Review Statistics Report")
	fmt.Fprintln(w, "========================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-10s  %-24s  %-24s  %-22s\n", "Period", "New Words (Total/Unique)", "Relearns (Total/Unique)", "Lapses (Total/Unique)")
	fmt.Fprintf(w, "%-10s  %-24s  %-24s  %-22s\n", "------", "------------------------", "-----------------------", "---------------------")

	for _, s := range result.Periods {
		fmt.Fprintf(w, "%-10s  %-24s  %-24s  %-22s\n",
			s.Period,
			fmt.Sprintf("%d / %d", s.NewWordsCount, s.NewWordsUnique),
			fmt.Sprintf("%d / %d", s.RelearnsCount, s.RelearnsUnique),
			fmt.Sprintf("%d / %d", s.LapsesCount, s.LapsesUnique),
		)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-10s  %-24s  %-24s  %-22s\n",
		"Totals:",
		fmt.Sprintf("%d / %d", result.Aggregate.NewWordsCount, result.Aggregate.NewWordsUnique),
		fmt.Sprintf("%d / %d", result.Aggregate.RelearnsCount, result.Aggregate.RelearnsUnique),
		fmt.Sprintf("%d / %d", result.Aggregate.LapsesCount, result.Aggregate.LapsesUnique),
	)
}
