// Package store defines the record-store port the rest of the service
// talks to: put/scan/filter operations over the five persisted
// collections plus payment acknowledgements.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// ErrConflict is returned by UpdateSubscriptionLastPosted when the
// stored marker no longer matches the expected value, meaning another
// invocation already advanced it.
var ErrConflict = errors.New("last-posted marker changed concurrently")

// Store is the record store over the five collections. All Put
// operations stamp a generated identifier and creation timestamp when
// the record has none.
type Store interface {
	PutAccount(ctx context.Context, a *core.Account) error
	ListAccounts(ctx context.Context) ([]core.Account, error)

	PutCategory(ctx context.Context, c *core.Category) error
	ListCategories(ctx context.Context) ([]core.Category, error)

	PutTransaction(ctx context.Context, t *core.Transaction) error
	// ListTransactions returns transactions inside the inclusive
	// [start, end] range; empty bounds widen to the sentinel dates, and
	// when both are empty every transaction is returned. Results are
	// ordered by date, newest first.
	ListTransactions(ctx context.Context, start, end string) ([]core.Transaction, error)
	// ListTransactionsByMonthSheet returns the transactions of one
	// month-sheet key in insertion order.
	ListTransactionsByMonthSheet(ctx context.Context, sheet string) ([]core.Transaction, error)

	PutSubscription(ctx context.Context, s *core.Subscription) error
	ListSubscriptions(ctx context.Context) ([]core.Subscription, error)
	// UpdateSubscriptionLastPosted advances a subscription's
	// last-posted marker from the expected previous value to the new
	// one. Returns ErrConflict when the stored value is not `from`.
	UpdateSubscriptionLastPosted(ctx context.Context, id, from, to string) error

	PutNetWorthSnapshot(ctx context.Context, n *core.NetWorthSnapshot) error
	// ListNetWorthSnapshots returns snapshots ordered by date, newest
	// first.
	ListNetWorthSnapshots(ctx context.Context) ([]core.NetWorthSnapshot, error)

	PutPaymentAck(ctx context.Context, ack *core.PaymentAck) error

	// Reset wipes every collection. Development and test use only.
	Reset(ctx context.Context) error

	Close() error
}

// NewID generates a record identifier.
func NewID() string {
	return uuid.NewString()
}

// Now returns the creation timestamp for a record written at this
// moment.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Today returns the current calendar day in wire format.
func Today() string {
	return time.Now().UTC().Format(core.DateLayout)
}
