package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeSummary(t *testing.T) {
	txs := []Transaction{
		{Date: "2024-01-15", Amount: dec("100"), Currency: "USD"},
		{Date: "2024-01-16", Amount: dec("-50"), Currency: "USD"},
	}

	got := ComputeSummary(txs, "", "")
	if !got.Inflow.Equal(dec("100")) {
		t.Fatalf("inflow = %s, want 100", got.Inflow)
	}
	if !got.Outflow.Equal(dec("-50")) {
		t.Fatalf("outflow = %s, want -50", got.Outflow)
	}
	if !got.Net.Equal(dec("50")) {
		t.Fatalf("net = %s, want 50", got.Net)
	}
	usd, ok := got.ByCcy["USD"]
	if !ok {
		t.Fatalf("missing USD in byCcy: %v", got.ByCcy)
	}
	if !usd.Inflow.Equal(dec("100")) || !usd.Outflow.Equal(dec("-50")) {
		t.Fatalf("byCcy[USD] = %+v, want {100 -50}", usd)
	}
}

func TestComputeSummaryNetIdentity(t *testing.T) {
	txs := []Transaction{
		{Date: "2024-01-01", Amount: dec("12.34"), Currency: "USD"},
		{Date: "2024-02-01", Amount: dec("-7.89"), Currency: "EUR"},
		{Date: "2024-03-01", Amount: dec("0"), Currency: "THB"},
		{Date: "2024-04-01", Amount: dec("-100.01")}, // default currency
		{Date: "2024-05-01", Amount: dec("55")},
	}
	sum := ComputeSummary(txs, "", "")

	if !sum.Net.Equal(sum.Inflow.Add(sum.Outflow)) {
		t.Fatalf("net %s != inflow %s + outflow %s", sum.Net, sum.Inflow, sum.Outflow)
	}

	perCcy := decimal.Zero
	for _, flow := range sum.ByCcy {
		perCcy = perCcy.Add(flow.Inflow).Add(flow.Outflow)
	}
	if !perCcy.Equal(sum.Net) {
		t.Fatalf("per-currency total %s != net %s", perCcy, sum.Net)
	}

	if _, ok := sum.ByCcy[DefaultCurrency]; !ok {
		t.Fatalf("missing default currency bucket: %v", sum.ByCcy)
	}
}

func TestComputeSummaryDateBounds(t *testing.T) {
	txs := []Transaction{
		{Date: "2024-01-10", Amount: dec("10"), Currency: "USD"},
		{Date: "2024-02-10", Amount: dec("20"), Currency: "USD"},
		{Date: "2024-03-10", Amount: dec("40"), Currency: "USD"},
	}

	cases := []struct {
		name       string
		start, end string
		wantInflow string
	}{
		{"no bounds", "", "", "70"},
		{"both bounds", "2024-02-01", "2024-02-28", "20"},
		{"start only", "2024-02-01", "", "60"},
		{"end only", "", "2024-02-28", "30"},
		{"inclusive edges", "2024-01-10", "2024-03-10", "70"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeSummary(txs, tc.start, tc.end)
			if !got.Inflow.Equal(dec(tc.wantInflow)) {
				t.Fatalf("inflow = %s, want %s", got.Inflow, tc.wantInflow)
			}
		})
	}
}

func TestComputeSummaryEmpty(t *testing.T) {
	sum := ComputeSummary(nil, "", "")
	if !sum.Inflow.IsZero() || !sum.Outflow.IsZero() || !sum.Net.IsZero() {
		t.Fatalf("expected all-zero summary, got %+v", sum)
	}
	if sum.ByCcy == nil || len(sum.ByCcy) != 0 {
		t.Fatalf("expected empty non-nil currency map, got %v", sum.ByCcy)
	}
}

func TestComputeMonthlyBreakdown(t *testing.T) {
	txs := []Transaction{
		{Date: "2024-01-05", Account: "Chase Credit Card", Category: "Food", Amount: dec("-30")},
		{Date: "2024-01-12", Account: "Checking", Category: "Rent", Amount: dec("-500")},
		{Date: "2024-01-20", Account: "Chase Credit Card", Category: "Food", Amount: dec("-20")},
		{Date: "2024-01-25", Account: "amex CREDIT", Category: "Travel", Amount: dec("-80")},
	}

	bd := ComputeMonthlyBreakdown(txs)

	if !bd.CreditCards["Chase Credit Card"].Equal(dec("-50")) {
		t.Fatalf("Chase Credit Card = %s, want -50", bd.CreditCards["Chase Credit Card"])
	}
	if !bd.CreditCards["amex CREDIT"].Equal(dec("-80")) {
		t.Fatalf("amex CREDIT = %s, want -80", bd.CreditCards["amex CREDIT"])
	}
	if _, ok := bd.CreditCards["Checking"]; ok {
		t.Fatalf("Checking must not be a credit-card bucket")
	}
	// Credit-card transactions also land in their category bucket.
	if !bd.Categories["Food"].Equal(dec("-50")) {
		t.Fatalf("Food = %s, want -50", bd.Categories["Food"])
	}
	if !bd.Categories["Rent"].Equal(dec("-500")) {
		t.Fatalf("Rent = %s, want -500", bd.Categories["Rent"])
	}
}

func TestComputeMonthlyBreakdownSheetRows(t *testing.T) {
	txs := []Transaction{
		{Date: "2024-01-05", Account: "B Credit", Category: "Zeta", Amount: dec("-1")},
		{Date: "2024-01-06", Account: "A Credit", Category: "Alpha", Amount: dec("-2")},
		{Date: "2024-01-07", Account: "B Credit", Category: "Zeta", Amount: dec("-4")},
	}

	rows := ComputeMonthlyBreakdown(txs).SheetData

	wantLabels := []string{"Credit Cards", "B Credit", "A Credit", "", "Categories", "Zeta", "Alpha"}
	if len(rows) != len(wantLabels) {
		t.Fatalf("got %d rows, want %d: %v", len(rows), len(wantLabels), rows)
	}
	for i, want := range wantLabels {
		if rows[i][0] != want {
			t.Fatalf("row %d label = %v, want %q (insertion order must be preserved)", i, rows[i][0], want)
		}
	}
	if v, ok := rows[1][1].(decimal.Decimal); !ok || !v.Equal(dec("-5")) {
		t.Fatalf("row 1 value = %v, want -5", rows[1][1])
	}
}

func TestComputeMonthlyBreakdownEmpty(t *testing.T) {
	bd := ComputeMonthlyBreakdown(nil)
	if len(bd.CreditCards) != 0 || len(bd.Categories) != 0 {
		t.Fatalf("expected empty buckets, got %+v", bd)
	}
	// Headers are always present.
	if len(bd.SheetData) != 4 {
		t.Fatalf("expected 4 rows for empty month, got %v", bd.SheetData)
	}
}
