package corpus

import (
	"context"
	"log/slog"

	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

// Table maps item IDs to corpus frequency ranks. A missing entry means
// the rank is unknown.
type Table map[string]int

// TableFor builds a rank table for the given items. An item that
// already carries a frequency rank keeps it without a lookup. A failed
// lookup leaves its item out of the table so one unranked word cannot
// sink the whole batch; only a done context stops the loop.
func (c *Client) TableFor(ctx context.Context, items []srs.Item) (Table, error) {
	table := make(Table, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return table, err
		}
		if item.FrequencyRank > 0 {
			table[item.ID] = item.FrequencyRank
			continue
		}
		if item.Lemma == "" || item.Language == "" {
			continue
		}

		rank, err := c.Lookup(ctx, item.Language, item.Lemma)
		if err != nil {
			slog.Default().Debug("corpus lookup failed",
				slog.String("language", item.Language),
				slog.String("lemma", item.Lemma),
				slog.Any("error", err),
			)
			continue
		}
		if rank.Rank > 0 {
			table[item.ID] = rank.Rank
		}
	}
	return table, nil
}
