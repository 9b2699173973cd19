package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func TestPutStampsIdentity(t *testing.T) {
	ctx := context.Background()
	st := New()

	a := core.Account{Name: "Checking", Currency: "THB"}
	if err := st.PutAccount(ctx, &a); err != nil {
		t.Fatalf("PutAccount(): %v", err)
	}
	if a.ID == "" {
		t.Error("PutAccount() left ID empty")
	}
	if a.CreatedAt == "" {
		t.Error("PutAccount() left CreatedAt empty")
	}

	preset := core.Account{ID: "fixed-id", Name: "Savings"}
	if err := st.PutAccount(ctx, &preset); err != nil {
		t.Fatalf("PutAccount(): %v", err)
	}
	if preset.ID != "fixed-id" {
		t.Errorf("PutAccount() overwrote ID: %s", preset.ID)
	}
}

func TestListTransactionsRangeAndOrder(t *testing.T) {
	ctx := context.Background()
	st := New()

	for _, date := range []string{"2024-03-10", "2024-01-05", "2024-02-20"} {
		tx := core.Transaction{
			Date:     date,
			Account:  "Checking",
			Category: "Food",
			Amount:   decimal.NewFromInt(-100),
		}
		if err := st.PutTransaction(ctx, &tx); err != nil {
			t.Fatalf("PutTransaction(%s): %v", date, err)
		}
	}

	all, err := st.ListTransactions(ctx, "", "")
	if err != nil {
		t.Fatalf("ListTransactions(): %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d transactions, want 3", len(all))
	}
	for i, want := range []string{"2024-03-10", "2024-02-20", "2024-01-05"} {
		if all[i].Date != want {
			t.Errorf("all[%d].Date = %s, want %s (newest first)", i, all[i].Date, want)
		}
	}

	ranged, err := st.ListTransactions(ctx, "2024-02-01", "2024-02-28")
	if err != nil {
		t.Fatalf("ListTransactions(range): %v", err)
	}
	if len(ranged) != 1 || ranged[0].Date != "2024-02-20" {
		t.Errorf("ranged = %+v, want only 2024-02-20", ranged)
	}
}

func TestMonthSheetStampAndFilter(t *testing.T) {
	ctx := context.Background()
	st := New()

	tx := core.Transaction{
		Date:     "2024-03-10",
		Account:  "Checking",
		Category: "Food",
		Amount:   decimal.NewFromInt(-100),
	}
	if err := st.PutTransaction(ctx, &tx); err != nil {
		t.Fatalf("PutTransaction(): %v", err)
	}
	if tx.MonthSheet != "Transactions-2024-03" {
		t.Errorf("MonthSheet = %s, want Transactions-2024-03", tx.MonthSheet)
	}

	got, err := st.ListTransactionsByMonthSheet(ctx, "Transactions-2024-03")
	if err != nil {
		t.Fatalf("ListTransactionsByMonthSheet(): %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d transactions for sheet, want 1", len(got))
	}

	empty, err := st.ListTransactionsByMonthSheet(ctx, "Transactions-2024-04")
	if err != nil {
		t.Fatalf("ListTransactionsByMonthSheet(): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d transactions for empty sheet, want 0", len(empty))
	}
}

func TestUpdateSubscriptionLastPosted(t *testing.T) {
	ctx := context.Background()
	st := New()

	sub := core.Subscription{
		Name:      "Netflix",
		Account:   "Checking",
		Amount:    decimal.NewFromInt(419),
		Frequency: core.Monthly,
	}
	if err := st.PutSubscription(ctx, &sub); err != nil {
		t.Fatalf("PutSubscription(): %v", err)
	}

	if err := st.UpdateSubscriptionLastPosted(ctx, sub.ID, "", "2024-03-15"); err != nil {
		t.Fatalf("UpdateSubscriptionLastPosted(): %v", err)
	}

	err := st.UpdateSubscriptionLastPosted(ctx, sub.ID, "", "2024-03-16")
	if !errors.Is(err, store.ErrConflict) {
		t.Errorf("stale swap error = %v, want ErrConflict", err)
	}

	err = st.UpdateSubscriptionLastPosted(ctx, "missing-id", "", "2024-03-16")
	if !errors.Is(err, store.ErrConflict) {
		t.Errorf("unknown id error = %v, want ErrConflict", err)
	}

	subs, err := st.ListSubscriptions(ctx)
	if err != nil {
		t.Fatalf("ListSubscriptions(): %v", err)
	}
	if subs[0].LastPosted != "2024-03-15" {
		t.Errorf("LastPosted = %s, want 2024-03-15", subs[0].LastPosted)
	}
}

func TestListNetWorthSnapshotsNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := New()

	for _, date := range []string{"2024-01-01", "2024-03-01", "2024-02-01"} {
		n := core.NetWorthSnapshot{Date: date, NetWorth: decimal.NewFromInt(1000)}
		if err := st.PutNetWorthSnapshot(ctx, &n); err != nil {
			t.Fatalf("PutNetWorthSnapshot(%s): %v", date, err)
		}
	}

	got, err := st.ListNetWorthSnapshots(ctx)
	if err != nil {
		t.Fatalf("ListNetWorthSnapshots(): %v", err)
	}
	for i, want := range []string{"2024-03-01", "2024-02-01", "2024-01-01"} {
		if got[i].Date != want {
			t.Errorf("got[%d].Date = %s, want %s", i, got[i].Date, want)
		}
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	st := New()

	if err := st.PutAccount(ctx, &core.Account{Name: "Checking"}); err != nil {
		t.Fatalf("PutAccount(): %v", err)
	}
	tx := core.Transaction{Date: "2024-03-10", Account: "Checking", Category: "Food"}
	if err := st.PutTransaction(ctx, &tx); err != nil {
		t.Fatalf("PutTransaction(): %v", err)
	}

	if err := st.Reset(ctx); err != nil {
		t.Fatalf("Reset(): %v", err)
	}

	accounts, _ := st.ListAccounts(ctx)
	txs, _ := st.ListTransactions(ctx, "", "")
	if len(accounts) != 0 || len(txs) != 0 {
		t.Errorf("after Reset: %d accounts, %d transactions, want 0 and 0", len(accounts), len(txs))
	}
}
