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
		m, err := NewMoney(decimal.NewFromInt(100), INR)
		require.NoError(t, err)
		assert.Equal(t, INR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})
}

func TestNewMoneyINRFromString(t *testing.T) {
	t.Run("parses decimal string", func(t *testing.T) {
		m, err := NewMoneyINRFromString("1234.56")
		require.NoError(t, err)
		assert.Equal(t, "1234.56", m.StringFixed(2))
	})

	t.Run("rejects invalid string", func(t *testing.T) {
		_, err := NewMoneyINRFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a := NewMoneyINRFromFloat(100.50)
		b := NewMoneyINRFromFloat(49.50)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "150.00", sum.StringFixed(2))
	})

	t.Run("rejects adding different currencies", func(t *testing.T) {
		a := NewMoneyINRFromFloat(100)
		b, _ := NewMoney(decimal.NewFromInt(100), USD)
		_, err := a.Add(b)
		assert.Error(t, err)
	})

	t.Run("subtracts", func(t *testing.T) {
		a := NewMoneyINRFromFloat(100)
		b := NewMoneyINRFromFloat(30)
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "70.00", diff.StringFixed(2))
	})

	t.Run("multiplies by factor", func(t *testing.T) {
		a := NewMoneyINRFromFloat(100)
		result := a.Multiply(decimal.NewFromFloat(0.18))
		assert.Equal(t, "18.00", result.StringFixed(2))
	})

	t.Run("negates", func(t *testing.T) {
		a := NewMoneyINRFromFloat(50)
		assert.True(t, a.Negate().IsNegative())
	})
}

func TestMoneyRound(t *testing.T) {
	t.Run("rounds half up at two places", func(t *testing.T) {
		m := NewMoneyINRFromFloat(10.125)
		assert.Equal(t, "10.13", m.Round(2).StringFixed(2))
	})

	t.Run("rounds down below midpoint", func(t *testing.T) {
		m := NewMoneyINRFromFloat(10.124)
		assert.Equal(t, "10.12", m.Round(2).StringFixed(2))
	})
}

func TestMoneyComparisons(t *testing.T) {
	a := NewMoneyINRFromFloat(100)
	b := NewMoneyINRFromFloat(200)

	t.Run("equals", func(t *testing.T) {
		assert.True(t, a.Equals(NewMoneyINRFromFloat(100)))
		assert.False(t, a.Equals(b))
	})

	t.Run("less than", func(t *testing.T) {
		lt, err := a.LessThan(b)
		require.NoError(t, err)
		assert.True(t, lt)
	})

	t.Run("greater than", func(t *testing.T) {
		gt, err := b.GreaterThan(a)
		require.NoError(t, err)
		assert.True(t, gt)
	})

	t.Run("comparison across currencies fails", func(t *testing.T) {
		usd, _ := NewMoney(decimal.NewFromInt(100), USD)
		_, err := a.LessThan(usd)
		assert.Error(t, err)
	})
}

func TestMoneyJSON(t *testing.T) {
	t.Run("round trips through JSON", func(t *testing.T) {
		m := NewMoneyINRFromFloat(250000)
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, m.Equals(decoded))
	})

	t.Run("rejects malformed amount", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"abc","currency":"INR"}`), &m)
		assert.Error(t, err)
	})
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("1234.50"))
		assert.Equal(t, "1234.50", m.StringFixed(2))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans nil as zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})
}
