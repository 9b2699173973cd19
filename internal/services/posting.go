// Package services orchestrates the domain logic over the record store:
// due-subscription posting and payment acknowledgement matching.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Poster converts due subscriptions into posted transactions.
type Poster struct {
	store store.Store
}

func NewPoster(st store.Store) *Poster {
	return &Poster{store: st}
}

// PostDue evaluates every subscription against today and posts a
// negative transaction for each one whose due date has arrived,
// advancing its last-posted marker. Each subscription is handled
// independently; one failure is logged and skipped so it cannot block
// the remaining due postings. The marker is advanced with a
// compare-and-swap before the transaction is written, so overlapping
// invocations cannot double-post the same period.
//
// Returns the names of the subscriptions posted in this run.
func (p *Poster) PostDue(ctx context.Context, today string) ([]string, error) {
	subs, err := p.store.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	slog.InfoContext(ctx, "Posting due subscriptions",
		"total", len(subs),
		"today", today)

	posted := []string{}
	for _, sub := range subs {
		dueDate := core.NextDueDate(sub.Frequency, sub.LastPosted, today)
		if dueDate > today {
			continue
		}

		err := p.store.UpdateSubscriptionLastPosted(ctx, sub.ID, sub.LastPosted, today)
		if errors.Is(err, store.ErrConflict) {
			slog.InfoContext(ctx, "Subscription already posted by a concurrent run",
				"id", sub.ID,
				"name", sub.Name)
			continue
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to advance last-posted marker",
				"id", sub.ID,
				"name", sub.Name,
				"error", err)
			continue
		}

		tx := core.Transaction{
			Date:        today,
			Account:     sub.Account,
			Category:    core.SubscriptionCategory,
			Amount:      sub.Amount.Abs().Neg(),
			Currency:    sub.CurrencyOrDefault(),
			Description: sub.Name,
		}
		if err := p.store.PutTransaction(ctx, &tx); err != nil {
			slog.ErrorContext(ctx, "Failed to post subscription transaction",
				"id", sub.ID,
				"name", sub.Name,
				"error", err)
			continue
		}

		posted = append(posted, sub.Name)
		slog.InfoContext(ctx, "Posted subscription",
			"id", sub.ID,
			"name", sub.Name,
			"amount", tx.Amount.String(),
			"currency", tx.Currency)
	}

	slog.InfoContext(ctx, "Subscription posting complete",
		"posted", len(posted),
		"total_checked", len(subs))

	return posted, nil
}
