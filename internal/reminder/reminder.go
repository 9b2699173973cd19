// Package reminder builds subscription payment reminders: the message
// templates, the job payload handed to the delivery worker, and the
// scan that decides which subscriptions need one.
package reminder

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Kind is the reminder's due state.
type Kind string

const (
	KindPre     Kind = "pre"
	KindDue     Kind = "due"
	KindOverdue Kind = "overdue"
)

// Job is one reminder to deliver over a messaging channel.
type Job struct {
	SubscriptionID string          `json:"subscriptionId"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	DueDate        string          `json:"dueDate"`
	Channel        core.Channel    `json:"channel"`
	Contact        string          `json:"contact"`
	Kind           Kind            `json:"type"`
}

// Format renders the reminder text for the given kind. Every template
// carries the "PAID <name>" reply instruction the acknowledgement
// webhook listens for. An unknown kind is a programming error and
// fails fast.
func Format(kind Kind, name string, amount decimal.Decimal, currency, dueDate string) (string, error) {
	switch kind {
	case KindPre:
		return fmt.Sprintf("Heads-up: %s (%s %s) is due on %s. Reply \"PAID %s\" when you've paid.",
			name, currency, amount, dueDate, name), nil
	case KindDue:
		return fmt.Sprintf("Due today: %s (%s %s). Reply \"PAID %s\" when paid.",
			name, currency, amount, name), nil
	case KindOverdue:
		return fmt.Sprintf("Overdue: %s since %s. Please settle. Reply \"PAID %s\" after you pay.",
			name, dueDate, name), nil
	default:
		return "", fmt.Errorf("unknown reminder type: %s", kind)
	}
}

// Text renders the job's message.
func (j Job) Text() (string, error) {
	return Format(j.Kind, j.Name, j.Amount, j.Currency, j.DueDate)
}
