package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sentinel bounds substituted when only one end of a summary range is
// given.
const (
	minDate = "1900-01-01"
	maxDate = "2099-12-31"
)

type (
	// CurrencyFlow is the inflow/outflow pair for a single currency.
	CurrencyFlow struct {
		Inflow  decimal.Decimal `json:"inflow"`
		Outflow decimal.Decimal `json:"outflow"`
	}

	// Summary is the aggregate over a transaction set. Outflow is kept
	// negative, so Net == Inflow + Outflow always holds.
	Summary struct {
		Inflow  decimal.Decimal         `json:"inflow"`
		Outflow decimal.Decimal         `json:"outflow"`
		Net     decimal.Decimal         `json:"net"`
		ByCcy   map[string]CurrencyFlow `json:"byCcy"`
	}

	// SheetRow is one [label, value] export row. The value is a string
	// for header and blank rows and a decimal for amount rows.
	SheetRow [2]any

	// MonthlyBreakdown groups one month's transactions by
	// credit-card-like account and by category, with a flattened row
	// view for sheet export.
	MonthlyBreakdown struct {
		CreditCards map[string]decimal.Decimal `json:"creditCards"`
		Categories  map[string]decimal.Decimal `json:"categories"`
		SheetData   []SheetRow                 `json:"sheetData"`
	}
)

// ComputeSummary aggregates inflow, outflow and per-currency flows over
// the transactions whose date falls within [start, end]. Either bound
// may be empty; when only one is given the other defaults to a sentinel,
// and when both are empty no filtering happens. Empty input yields a
// zero summary with an empty currency map.
func ComputeSummary(txs []Transaction, start, end string) Summary {
	if start != "" || end != "" {
		if start == "" {
			start = minDate
		}
		if end == "" {
			end = maxDate
		}
	}

	sum := Summary{
		Inflow:  decimal.Zero,
		Outflow: decimal.Zero,
		ByCcy:   map[string]CurrencyFlow{},
	}
	for _, tx := range txs {
		if start != "" && (tx.Date < start || tx.Date > end) {
			continue
		}
		ccy := tx.CurrencyOrDefault()
		flow := sum.ByCcy[ccy]
		if tx.Amount.IsNegative() {
			sum.Outflow = sum.Outflow.Add(tx.Amount)
			flow.Outflow = flow.Outflow.Add(tx.Amount)
		} else {
			sum.Inflow = sum.Inflow.Add(tx.Amount)
			flow.Inflow = flow.Inflow.Add(tx.Amount)
		}
		sum.ByCcy[ccy] = flow
	}
	sum.Net = sum.Inflow.Add(sum.Outflow)
	return sum
}

// ComputeMonthlyBreakdown buckets the given transactions, which the
// caller has already filtered to one month sheet, by credit-card-like
// account name and by category. An account belongs to the credit-card
// bucket when its name contains "credit" in any casing. Bucket and
// export-row ordering is first occurrence.
func ComputeMonthlyBreakdown(txs []Transaction) MonthlyBreakdown {
	cc := map[string]decimal.Decimal{}
	cats := map[string]decimal.Decimal{}
	var ccOrder, catOrder []string

	for _, tx := range txs {
		if strings.Contains(strings.ToLower(tx.Account), "credit") {
			if _, seen := cc[tx.Account]; !seen {
				ccOrder = append(ccOrder, tx.Account)
			}
			cc[tx.Account] = cc[tx.Account].Add(tx.Amount)
		}
		if tx.Category != "" {
			if _, seen := cats[tx.Category]; !seen {
				catOrder = append(catOrder, tx.Category)
			}
			cats[tx.Category] = cats[tx.Category].Add(tx.Amount)
		}
	}

	rows := make([]SheetRow, 0, len(ccOrder)+len(catOrder)+3)
	rows = append(rows, SheetRow{"Credit Cards", ""})
	for _, name := range ccOrder {
		rows = append(rows, SheetRow{name, cc[name]})
	}
	rows = append(rows, SheetRow{"", ""})
	rows = append(rows, SheetRow{"Categories", ""})
	for _, name := range catOrder {
		rows = append(rows, SheetRow{name, cats[name]})
	}

	return MonthlyBreakdown{CreditCards: cc, Categories: cats, SheetData: rows}
}
