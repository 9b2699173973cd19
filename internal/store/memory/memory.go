// Package memory is the in-memory record store used for local
// development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu            sync.Mutex
	accounts      []core.Account
	categories    []core.Category
	transactions  []core.Transaction
	subscriptions []core.Subscription
	snapshots     []core.NetWorthSnapshot
	acks          []core.PaymentAck
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) PutAccount(_ context.Context, a *core.Account) error {
	stamp(&a.ID, &a.CreatedAt)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, *a)
	return nil
}

func (s *Store) ListAccounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Account(nil), s.accounts...), nil
}

func (s *Store) PutCategory(_ context.Context, c *core.Category) error {
	stamp(&c.ID, &c.CreatedAt)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, *c)
	return nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories...), nil
}

func (s *Store) PutTransaction(_ context.Context, t *core.Transaction) error {
	stamp(&t.ID, &t.CreatedAt)
	t.MonthSheet = core.MonthSheetFor(t.Date)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, *t)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, start, end string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, tx := range s.transactions {
		if start != "" && tx.Date < start {
			continue
		}
		if end != "" && tx.Date > end {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out, nil
}

func (s *Store) ListTransactionsByMonthSheet(_ context.Context, sheet string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, tx := range s.transactions {
		if tx.MonthSheet == sheet {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) PutSubscription(_ context.Context, sub *core.Subscription) error {
	stamp(&sub.ID, &sub.CreatedAt)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions = append(s.subscriptions, *sub)
	return nil
}

func (s *Store) ListSubscriptions(_ context.Context) ([]core.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Subscription(nil), s.subscriptions...), nil
}

func (s *Store) UpdateSubscriptionLastPosted(_ context.Context, id, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.subscriptions {
		if s.subscriptions[i].ID != id {
			continue
		}
		if s.subscriptions[i].LastPosted != from {
			return store.ErrConflict
		}
		s.subscriptions[i].LastPosted = to
		return nil
	}
	return store.ErrConflict
}

func (s *Store) PutNetWorthSnapshot(_ context.Context, n *core.NetWorthSnapshot) error {
	stamp(&n.ID, &n.CreatedAt)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, *n)
	return nil
}

func (s *Store) ListNetWorthSnapshots(_ context.Context) ([]core.NetWorthSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.NetWorthSnapshot(nil), s.snapshots...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out, nil
}

func (s *Store) PutPaymentAck(_ context.Context, ack *core.PaymentAck) error {
	if ack.ID == "" {
		ack.ID = store.NewID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acks = append(s.acks, *ack)
	return nil
}

// PaymentAcks returns recorded acknowledgements. Test helper; the HTTP
// surface does not expose acks.
func (s *Store) PaymentAcks() []core.PaymentAck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.PaymentAck(nil), s.acks...)
}

func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = nil
	s.categories = nil
	s.transactions = nil
	s.subscriptions = nil
	s.snapshots = nil
	s.acks = nil
	return nil
}

func (s *Store) Close() error { return nil }

func stamp(id, createdAt *string) {
	if *id == "" {
		*id = store.NewID()
	}
	if strings.TrimSpace(*createdAt) == "" {
		*createdAt = store.Now()
	}
}
