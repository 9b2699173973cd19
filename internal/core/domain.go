package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelLine     Channel = "line"
)

// DefaultCurrency is applied whenever a record omits its currency code.
const DefaultCurrency = "THB"

// SubscriptionCategory is the fixed category assigned to auto-posted
// subscription transactions.
const SubscriptionCategory = "Subscription"

// DateLayout is the wire format for calendar days. Dates stay strings
// end to end so range comparisons remain lexicographic.
const DateLayout = "2006-01-02"

type (
	// Frequency is how often a subscription recurs.
	Frequency string

	// Channel identifies the messaging platform a subscription's
	// reminders and acknowledgements travel over.
	Channel string

	// Account is a financial account money moves through.
	Account struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Currency  string `json:"currency"`
		CreatedAt string `json:"createdAt,omitempty"`
	}

	// Category is a transaction category.
	Category struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"createdAt,omitempty"`
	}

	// Transaction is a single signed ledger entry. Positive amounts are
	// inflow, negative amounts outflow. Immutable once written.
	Transaction struct {
		ID          string          `json:"id"`
		Date        string          `json:"date"`
		Account     string          `json:"account"`
		Category    string          `json:"category"`
		Amount      decimal.Decimal `json:"amount"`
		Currency    string          `json:"currency"`
		Description string          `json:"description,omitempty"`
		MonthSheet  string          `json:"monthSheet,omitempty"`
		CreatedAt   string          `json:"createdAt,omitempty"`
	}

	// Subscription is a recurring charge template. Amount is stored
	// non-negative; the sign is applied only at posting time.
	Subscription struct {
		ID         string          `json:"id"`
		Name       string          `json:"name"`
		Account    string          `json:"account"`
		Amount     decimal.Decimal `json:"amount"`
		Frequency  Frequency       `json:"frequency"`
		Currency   string          `json:"currency"`
		Channel    Channel         `json:"channel,omitempty"`
		Contact    string          `json:"contact,omitempty"`
		LastPosted string          `json:"lastPosted,omitempty"`
		CreatedAt  string          `json:"createdAt,omitempty"`
	}

	// NetWorthSnapshot records assets and liabilities at a point in
	// time. Liabilities are conventionally negative; NetWorth is always
	// Assets + Liabilities.
	NetWorthSnapshot struct {
		ID          string                     `json:"id"`
		Date        string                     `json:"date"`
		Accounts    map[string]decimal.Decimal `json:"accounts,omitempty"`
		Assets      decimal.Decimal            `json:"assets"`
		Liabilities decimal.Decimal            `json:"liabilities"`
		NetWorth    decimal.Decimal            `json:"netWorth"`
		CreatedAt   string                     `json:"createdAt,omitempty"`
	}

	// PaymentAck records an inbound "PAID" acknowledgement for a
	// subscription. It does not advance the posting cycle.
	PaymentAck struct {
		ID             string          `json:"id"`
		SubscriptionID string          `json:"subscriptionId"`
		Amount         decimal.Decimal `json:"amount"`
		PaidAt         string          `json:"paidAt"`
	}
)

var (
	ErrEmptyName      = errors.New("empty name")
	ErrEmptyAccount   = errors.New("empty account")
	ErrEmptyCategory  = errors.New("empty category")
	ErrInvalidDate    = errors.New("invalid date, expected YYYY-MM-DD")
	ErrNegativeAmount = errors.New("subscription amount must not be negative")
	ErrBadFrequency   = errors.New("frequency must be monthly or yearly")
	ErrBadChannel     = errors.New("channel must be whatsapp or line")
)

// MonthSheetFor derives a transaction's month-sheet key from its date.
func MonthSheetFor(date string) string {
	if len(date) < 7 {
		return "Transactions-" + date
	}
	return "Transactions-" + date[:7]
}

// ValidDate reports whether date is a real calendar day in YYYY-MM-DD form.
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

func (f Frequency) Valid() bool {
	switch f {
	case Monthly, Yearly:
		return true
	}
	return false
}

func (c Channel) Valid() bool {
	switch c {
	case ChannelWhatsApp, ChannelLine:
		return true
	}
	return false
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (t Transaction) Validate() error {
	if !ValidDate(t.Date) {
		return ErrInvalidDate
	}
	if strings.TrimSpace(t.Account) == "" {
		return ErrEmptyAccount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(s.Account) == "" {
		return ErrEmptyAccount
	}
	if s.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !s.Frequency.Valid() {
		return ErrBadFrequency
	}
	if s.Channel != "" && !s.Channel.Valid() {
		return ErrBadChannel
	}
	if s.LastPosted != "" && !ValidDate(s.LastPosted) {
		return fmt.Errorf("lastPosted: %w", ErrInvalidDate)
	}
	return nil
}

func (n NetWorthSnapshot) Validate() error {
	if n.Date != "" && !ValidDate(n.Date) {
		return ErrInvalidDate
	}
	return nil
}

// CurrencyOrDefault returns the transaction's currency code, falling
// back to the system default when unset.
func (t Transaction) CurrencyOrDefault() string {
	if t.Currency == "" {
		return DefaultCurrency
	}
	return t.Currency
}

// CurrencyOrDefault returns the subscription's currency code, falling
// back to the system default when unset.
func (s Subscription) CurrencyOrDefault() string {
	if s.Currency == "" {
		return DefaultCurrency
	}
	return s.Currency
}
