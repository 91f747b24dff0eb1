package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), ZAR)
		require.NoError(t, err)
		assert.Equal(t, ZAR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})

	t.Run("returns error for unknown currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "ABCD")
		assert.Error(t, err)
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.RequireFromString("123.45")))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", USD)
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a, _ := NewMoneyFromString("10.25", ZAR)
	b, _ := NewMoneyFromString("4.75", ZAR)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "15.00 ZAR", sum.String())

	assert.Equal(t, "30.75 ZAR", a.MultiplyByInt(3).String())

	other, _ := NewMoneyFromString("1", USD)
	_, err = a.Add(other)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "currency mismatch")
}

func TestMoney_Format(t *testing.T) {
	m, _ := NewMoneyFromString("1234.5", USD)
	formatted := m.Format("en-US")
	assert.Contains(t, formatted, "$")

	assert.NotEmpty(t, m.Format("not a locale"))
}

func TestMoney_JSON(t *testing.T) {
	m, _ := NewMoneyFromString("99.9", EUR)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"99.90","currency":"EUR"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}
