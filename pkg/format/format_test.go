package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	assert.Equal(t, "(51) 99999-9999", Phone("51999999999"))
	assert.Equal(t, "(51) 3333-4444", Phone("(51) 3333 4444"))
	assert.Equal(t, "123", Phone("123"))
	assert.Equal(t, "", Phone(""))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "5551999999999", Digits("+55 (51) 99999-9999"))
}

func TestBRL(t *testing.T) {
	s := BRL(decimal.RequireFromString("1234.56"))
	assert.Contains(t, s, "R$")
	assert.Contains(t, s, "1.234,56")

	// redondeo bancario a 2 decimales
	assert.Contains(t, BRL(decimal.RequireFromString("106.005")), "106,00")
	assert.Contains(t, BRL(decimal.RequireFromString("106.015")), "106,02")
}

func TestCurrency_CodigoDesconocido(t *testing.T) {
	assert.Contains(t, Currency(decimal.NewFromInt(10), "XXX_NO_EXISTE"), "10,00")
}
