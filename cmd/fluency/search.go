package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wiaanjvr/fluency-next-sub010/internal/query"
)

func newSearchCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "search",
		Short: "Search query tools",
	}
	command.AddCommand(newSearchDescribeCommand())
	return command
}

func newSearchDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <query>",
		Short: "Show how a search query is parsed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			pq := query.Parse(raw)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "query:       %s\n", raw)
			fmt.Fprintf(out, "description: %s\n", query.Describe(pq))
			fmt.Fprintf(out, "canonical:   %s\n", query.Encode(pq))
			for _, filter := range pq.Filters {
				negate := ""
				if filter.Negate {
					negate = " (negated)"
				}
				if filter.Operator != "" {
					fmt.Fprintf(out, "  filter %s %s %g%s\n", filter.Kind, filter.Operator, filter.NumericValue, negate)
					continue
				}
				fmt.Fprintf(out, "  filter %s=%q%s\n", filter.Kind, filter.Value, negate)
			}
			for _, term := range pq.TextTerms {
				fmt.Fprintf(out, "  text %q\n", term)
			}
			return nil
		},
	}
}
