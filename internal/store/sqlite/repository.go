// Package sqlite is the durable record store backed by an embedded
// SQLite database. Amounts are stored as decimal strings, dates as
// YYYY-MM-DD text, so every comparison the service relies on stays
// lexicographic in SQL as well.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Repository struct {
	db *sql.DB
}

var _ store.Store = (*Repository)(nil)

func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) PutAccount(ctx context.Context, a *core.Account) error {
	stamp(&a.ID, &a.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, currency, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Name, a.Currency, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *Repository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, currency, created_at FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Currency, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) PutCategory(ctx context.Context, c *core.Category) error {
	stamp(&c.ID, &c.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM categories ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) PutTransaction(ctx context.Context, t *core.Transaction) error {
	stamp(&t.ID, &t.CreatedAt)
	t.MonthSheet = core.MonthSheetFor(t.Date)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, date, account, category, amount, currency, description, month_sheet, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date, t.Account, t.Category, t.Amount.String(), t.Currency, t.Description, t.MonthSheet, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *Repository) ListTransactions(ctx context.Context, start, end string) ([]core.Transaction, error) {
	query := `SELECT id, date, account, category, amount, currency, description, month_sheet, created_at
		 FROM transactions`
	var args []any
	if start != "" || end != "" {
		if start == "" {
			start = "1900-01-01"
		}
		if end == "" {
			end = "2099-12-31"
		}
		query += ` WHERE date BETWEEN ? AND ?`
		args = append(args, start, end)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *Repository) ListTransactionsByMonthSheet(ctx context.Context, sheet string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, account, category, amount, currency, description, month_sheet, created_at
		 FROM transactions WHERE month_sheet = ? ORDER BY created_at`, sheet)
	if err != nil {
		return nil, fmt.Errorf("list transactions by month sheet: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		var (
			t      core.Transaction
			amount string
		)
		if err := rows.Scan(&t.ID, &t.Date, &t.Account, &t.Category, &amount, &t.Currency, &t.Description, &t.MonthSheet, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		dec, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse stored amount %q: %w", amount, err)
		}
		t.Amount = dec
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) PutSubscription(ctx context.Context, s *core.Subscription) error {
	stamp(&s.ID, &s.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, name, account, amount, frequency, currency, channel, contact, last_posted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Account, s.Amount.String(), string(s.Frequency), s.Currency, string(s.Channel), s.Contact, s.LastPosted, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (r *Repository) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, account, amount, frequency, currency, channel, contact, last_posted, created_at
		 FROM subscriptions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []core.Subscription
	for rows.Next() {
		var (
			s                  core.Subscription
			amount, freq, chnl string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Account, &amount, &freq, &s.Currency, &chnl, &s.Contact, &s.LastPosted, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		dec, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse stored amount %q: %w", amount, err)
		}
		s.Amount = dec
		s.Frequency = core.Frequency(freq)
		s.Channel = core.Channel(chnl)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateSubscriptionLastPosted(ctx context.Context, id, from, to string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET last_posted = ? WHERE id = ? AND last_posted = ?`,
		to, id, from)
	if err != nil {
		return fmt.Errorf("update last posted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *Repository) PutNetWorthSnapshot(ctx context.Context, n *core.NetWorthSnapshot) error {
	stamp(&n.ID, &n.CreatedAt)
	var accounts string
	if len(n.Accounts) > 0 {
		raw, err := json.Marshal(n.Accounts)
		if err != nil {
			return fmt.Errorf("marshal account balances: %w", err)
		}
		accounts = string(raw)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO networth_snapshots (id, date, accounts, assets, liabilities, net_worth, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Date, accounts, n.Assets.String(), n.Liabilities.String(), n.NetWorth.String(), n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert networth snapshot: %w", err)
	}
	return nil
}

func (r *Repository) ListNetWorthSnapshots(ctx context.Context) ([]core.NetWorthSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, accounts, assets, liabilities, net_worth, created_at
		 FROM networth_snapshots ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list networth snapshots: %w", err)
	}
	defer rows.Close()

	var out []core.NetWorthSnapshot
	for rows.Next() {
		var (
			n                            core.NetWorthSnapshot
			accounts                     string
			assets, liabilities, nwValue string
		)
		if err := rows.Scan(&n.ID, &n.Date, &accounts, &assets, &liabilities, &nwValue, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan networth snapshot: %w", err)
		}
		if accounts != "" {
			if err := json.Unmarshal([]byte(accounts), &n.Accounts); err != nil {
				return nil, fmt.Errorf("unmarshal account balances: %w", err)
			}
		}
		var perr error
		if n.Assets, perr = decimal.NewFromString(assets); perr != nil {
			return nil, fmt.Errorf("parse stored assets %q: %w", assets, perr)
		}
		if n.Liabilities, perr = decimal.NewFromString(liabilities); perr != nil {
			return nil, fmt.Errorf("parse stored liabilities %q: %w", liabilities, perr)
		}
		if n.NetWorth, perr = decimal.NewFromString(nwValue); perr != nil {
			return nil, fmt.Errorf("parse stored net worth %q: %w", nwValue, perr)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) PutPaymentAck(ctx context.Context, ack *core.PaymentAck) error {
	if ack.ID == "" {
		ack.ID = store.NewID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payment_acks (id, subscription_id, amount, paid_at) VALUES (?, ?, ?, ?)`,
		ack.ID, ack.SubscriptionID, ack.Amount.String(), ack.PaidAt)
	if err != nil {
		return fmt.Errorf("insert payment ack: %w", err)
	}
	return nil
}

func (r *Repository) Reset(ctx context.Context) error {
	for _, table := range []string{"payment_acks", "networth_snapshots", "subscriptions", "transactions", "categories", "accounts"} {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

func stamp(id, createdAt *string) {
	if *id == "" {
		*id = store.NewID()
	}
	if *createdAt == "" {
		*createdAt = store.Now()
	}
}
