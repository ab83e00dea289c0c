package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a caller does not specify one.
const DefaultCurrency = "AED"

// Money errors.
var (
	ErrInvalidAmount     = errors.New("invalid money amount")
	ErrNegativeAmount    = errors.New("money amount must not be negative")
	ErrInvalidCurrency   = errors.New("currency must be a 3-letter code")
	ErrCurrencyMismatch  = errors.New("currency mismatch")
	ErrInsufficientFunds = errors.New("resulting amount would be negative")
)

// Money is an immutable amount/currency pair. The amount is an exact
// decimal and is always rendered with two fraction digits on the wire
// and in storage.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney parses an amount string such as "100.00" with a 3-letter
// currency code.
func NewMoney(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if d.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	if !validCurrency(currency) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
	return Money{amount: d.Round(2), currency: currency}, nil
}

// MustMoney is a convenience constructor for values known to be valid,
// such as literals in tests and fixtures. It panics on invalid input.
func MustMoney(amount, currency string) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns 0.00 in the given currency.
func ZeroMoney(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func validCurrency(currency string) bool {
	if len(currency) != 3 {
		return false
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Amount returns the amount with exactly two fraction digits.
func (m Money) Amount() string {
	return m.amount.StringFixed(2)
}

// Currency returns the 3-letter currency code.
func (m Money) Currency() string {
	return m.currency
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Add returns m + other. Both operands must share a currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub returns m - other. The result must not be negative.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	d := m.amount.Sub(other.amount)
	if d.IsNegative() {
		return Money{}, ErrInsufficientFunds
	}
	return Money{amount: d, currency: m.currency}, nil
}

// Cmp compares the amounts: -1 if m < other, 0 if equal, +1 if m > other.
// Comparing across currencies is a programming error and returns an error.
func (m Money) Cmp(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, ErrCurrencyMismatch
	}
	return m.amount.Cmp(other.amount), nil
}

// Equal reports whether amount and currency are both equal.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders the money as "100.00 AED".
func (m Money) String() string {
	return m.Amount() + " " + m.currency
}

// ToMap returns the wire representation used in gateway payloads.
func (m Money) ToMap() map[string]any {
	return map[string]any{
		"amount":   m.Amount(),
		"currency": m.currency,
	}
}

// MoneyFromMap parses the wire representation.
func MoneyFromMap(data map[string]any) (Money, error) {
	amount, _ := data["amount"].(string)
	currency, _ := data["currency"].(string)
	if currency == "" {
		currency = DefaultCurrency
	}
	return NewMoney(amount, currency)
}

type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.Amount(), Currency: m.currency})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewMoney(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
