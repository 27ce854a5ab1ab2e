package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), ARS)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, ARS, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})
}

func TestMoney_ArithmeticRequiresSameCurrency(t *testing.T) {
	ars := NewMoneyARSFromFloat(10)
	usd, err := NewMoney(decimal.NewFromInt(10), USD)
	require.NoError(t, err)

	_, err = ars.Add(usd)
	assert.Error(t, err)

	_, err = ars.Subtract(usd)
	assert.Error(t, err)

	_, err = ars.Min(usd)
	assert.Error(t, err)

	_, err = ars.LessThan(usd)
	assert.Error(t, err)
}

func TestMoney_AddSubtract(t *testing.T) {
	a := NewMoneyARSFromFloat(100.50)
	b := NewMoneyARSFromFloat(49.50)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "150.00", sum.StringFixed(2))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "51.00", diff.StringFixed(2))
}

func TestMoney_Min(t *testing.T) {
	a := NewMoneyARSFromFloat(30)
	b := NewMoneyARSFromFloat(20)

	m, err := a.Min(b)
	require.NoError(t, err)
	assert.True(t, m.Equals(b))

	m, err = b.Min(a)
	require.NoError(t, err)
	assert.True(t, m.Equals(b))
}

func TestMoney_IsRepresentable(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"100", true},
		{"100.1", true},
		{"100.10", true},
		{"100.105", false},
		{"0.001", false},
		{"-5.25", true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			m, err := NewMoneyARSFromString(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.IsRepresentable())
		})
	}
}

func TestMoney_Allocate(t *testing.T) {
	t.Run("parts sum to original with remainder cents", func(t *testing.T) {
		m := NewMoneyARSFromFloat(100.00)
		parts, err := m.Allocate(3)
		require.NoError(t, err)
		require.Len(t, parts, 3)

		total := ZeroARS()
		for _, p := range parts {
			total = total.MustAdd(p)
		}
		assert.True(t, total.Equals(m), "parts should sum to %s, got %s", m, total)
		assert.Equal(t, "33.34", parts[0].StringFixed(2))
		assert.Equal(t, "33.33", parts[1].StringFixed(2))
		assert.Equal(t, "33.33", parts[2].StringFixed(2))
	})

	t.Run("single part returns original", func(t *testing.T) {
		m := NewMoneyARSFromFloat(42.42)
		parts, err := m.Allocate(1)
		require.NoError(t, err)
		require.Len(t, parts, 1)
		assert.True(t, parts[0].Equals(m))
	})

	t.Run("rejects non-positive parts", func(t *testing.T) {
		m := NewMoneyARSFromFloat(10)
		_, err := m.Allocate(0)
		assert.Error(t, err)
	})
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyARSFromFloat(1234.56)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var out Money
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.Equals(m))
}

func TestMoney_ScanDefaultsCurrency(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("99.90"))
	assert.Equal(t, DefaultCurrency, m.Currency())
	assert.Equal(t, "99.90", m.StringFixed(2))

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())
}
