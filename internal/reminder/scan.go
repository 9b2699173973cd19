package reminder

import (
	"time"

	"fintrack/internal/core"
)

// Scan classifies each subscription that has a reachable contact by its
// due state on the given day and returns the reminder jobs to deliver.
// A subscription is "due" on its due date, "overdue" after it, and
// "pre" when the due date falls within the next preDays days.
// Subscriptions without a channel and contact are skipped: there is
// nowhere to send the reminder.
func Scan(subs []core.Subscription, today string, preDays int) []Job {
	horizon := addDays(today, preDays)

	var jobs []Job
	for _, sub := range subs {
		if sub.Channel == "" || sub.Contact == "" {
			continue
		}
		due := core.NextDueDate(sub.Frequency, sub.LastPosted, today)

		var kind Kind
		switch {
		case due < today:
			kind = KindOverdue
		case due == today:
			kind = KindDue
		case due <= horizon:
			kind = KindPre
		default:
			continue
		}

		jobs = append(jobs, Job{
			SubscriptionID: sub.ID,
			Name:           sub.Name,
			Amount:         sub.Amount,
			Currency:       sub.CurrencyOrDefault(),
			DueDate:        due,
			Channel:        sub.Channel,
			Contact:        sub.Contact,
			Kind:           kind,
		})
	}
	return jobs
}

func addDays(date string, days int) string {
	t, err := time.Parse(core.DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(core.DateLayout)
}
