package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		wantErr  error
	}{
		{"valid", "100.00", "AED", nil},
		{"no fraction digits", "100", "AED", nil},
		{"one fraction digit", "99.5", "USD", nil},
		{"zero", "0.00", "AED", nil},
		{"negative", "-1.00", "AED", ErrNegativeAmount},
		{"garbage", "abc", "AED", ErrInvalidAmount},
		{"empty amount", "", "AED", ErrInvalidAmount},
		{"short currency", "1.00", "AE", ErrInvalidCurrency},
		{"lowercase currency", "1.00", "aed", ErrInvalidCurrency},
		{"long currency", "1.00", "AEDX", ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoney(tt.amount, tt.currency)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.currency, m.Currency())
		})
	}
}

func TestMoney_AmountAlwaysTwoDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"100", "100.00"},
		{"100.5", "100.50"},
		{"100.50", "100.50"},
		{"0", "0.00"},
	}
	for _, tt := range tests {
		m := MustMoney(tt.in, "AED")
		assert.Equal(t, tt.want, m.Amount())
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a := MustMoney("100.00", "AED")
	b := MustMoney("30.00", "AED")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "130.00", sum.Amount())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "70.00", diff.Amount())

	// Exactness: repeated subtraction of 0.10 from 1.00 reaches exactly zero.
	m := MustMoney("1.00", "AED")
	tenth := MustMoney("0.10", "AED")
	for i := 0; i < 10; i++ {
		m, err = m.Sub(tenth)
		require.NoError(t, err)
	}
	assert.True(t, m.IsZero())
}

func TestMoney_SubNegativeResult(t *testing.T) {
	a := MustMoney("10.00", "AED")
	b := MustMoney("20.00", "AED")
	_, err := a.Sub(b)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	a := MustMoney("10.00", "AED")
	b := MustMoney("10.00", "USD")

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
	_, err = a.Sub(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
	_, err = a.Cmp(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
	assert.False(t, a.Equal(b))
}

func TestMoney_Cmp(t *testing.T) {
	a := MustMoney("10.00", "AED")
	b := MustMoney("10.0", "AED")
	c := MustMoney("10.01", "AED")

	got, err := a.Cmp(b)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
	assert.True(t, a.Equal(b))

	got, err = a.Cmp(c)
	require.NoError(t, err)
	assert.Equal(t, -1, got)
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := MustMoney("99.9", "USD")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"99.90","currency":"USD"}`, string(data))

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, m.Equal(back))
}

func TestMoney_UnmarshalInvalid(t *testing.T) {
	var m Money
	assert.Error(t, json.Unmarshal([]byte(`{"amount":"-5.00","currency":"AED"}`), &m))
	assert.Error(t, json.Unmarshal([]byte(`{"amount":"x","currency":"AED"}`), &m))
}

func TestMoneyFromMap(t *testing.T) {
	m, err := MoneyFromMap(map[string]any{"amount": "25.00", "currency": "USD"})
	require.NoError(t, err)
	assert.Equal(t, "25.00", m.Amount())
	assert.Equal(t, "USD", m.Currency())

	// Currency defaults when absent.
	m, err = MoneyFromMap(map[string]any{"amount": "1.00"})
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, m.Currency())

	_, err = MoneyFromMap(map[string]any{"currency": "USD"})
	assert.Error(t, err)
}
