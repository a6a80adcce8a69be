package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Linho: 10 en stock a 45.00; entran 5 a 50.00 → stock 15, precio 50.00 (sobrescrito, no promediado).
func TestApplyReceipt_UltimoPrecio(t *testing.T) {
	m := &entity.Material{Name: "Linho", UnitPrice: d("45.00"), StockQuantity: d("10")}

	before, after := inventory.ApplyReceipt(m, d("5"), d("50.00"), inventory.CostingLastPrice)

	assert.True(t, before.Equal(d("10")))
	assert.True(t, after.Equal(d("15")))
	assert.True(t, m.StockQuantity.Equal(d("15")))
	assert.True(t, m.UnitPrice.Equal(d("50.00")), "precio debe ser el de la última compra, fue %s", m.UnitPrice)
}

func TestApplyReceipt_PromedioPonderado(t *testing.T) {
	m := &entity.Material{UnitPrice: d("45.00"), StockQuantity: d("10")}

	inventory.ApplyReceipt(m, d("5"), d("60.00"), inventory.CostingWeightedAverage)

	// (10*45 + 5*60) / 15 = 50
	assert.True(t, m.UnitPrice.Equal(d("50")), "got %s", m.UnitPrice)
	assert.True(t, m.StockQuantity.Equal(d("15")))
}

func TestApplyReceipt_StockEsSumaDeEntradas(t *testing.T) {
	m := &entity.Material{StockQuantity: d("2.5")}
	entradas := []string{"1", "0.25", "10", "3.333"}
	want := d("2.5")
	for _, q := range entradas {
		inventory.ApplyReceipt(m, d(q), d("1"), inventory.CostingLastPrice)
		want = want.Add(d(q))
	}
	assert.True(t, m.StockQuantity.Equal(want), "got %s want %s", m.StockQuantity, want)
}

func TestValidateReceipt(t *testing.T) {
	assert.NoError(t, inventory.ValidateReceipt(d("1"), d("0")))
	assert.ErrorIs(t, inventory.ValidateReceipt(d("0"), d("1")), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.ValidateReceipt(d("-1"), d("1")), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, inventory.ValidateReceipt(d("1"), d("-0.01")), domain.ErrInvalidPrice)
}

// 0.0004 se guardaría como 0.000 y violaría quantity_added > 0.
func TestValidateReceipt_Decimales(t *testing.T) {
	assert.NoError(t, inventory.ValidateReceipt(d("1.125"), d("45.1234")))
	assert.NoError(t, inventory.ValidateReceipt(d("1.2000"), d("45.00000")))
	assert.ErrorIs(t, inventory.ValidateReceipt(d("0.0004"), d("1")), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.ValidateReceipt(d("1.2345"), d("1")), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.ValidateReceipt(d("1"), d("45.12345")), domain.ErrInvalidInput)
}

func TestWeightedAverageCost_StockNegativo(t *testing.T) {
	got := inventory.WeightedAverageCost(d("-3"), d("10"), d("5"), d("12"))
	assert.True(t, got.Equal(d("12")))
}

func TestParseCostingPolicy(t *testing.T) {
	p, err := inventory.ParseCostingPolicy("")
	require.NoError(t, err)
	assert.Equal(t, inventory.CostingLastPrice, p)

	p, err = inventory.ParseCostingPolicy("weighted")
	require.NoError(t, err)
	assert.Equal(t, inventory.CostingWeightedAverage, p)

	_, err = inventory.ParseCostingPolicy("fifo")
	assert.Error(t, err)
}

func TestNeedsRestock(t *testing.T) {
	m := &entity.Material{StockQuantity: d("1"), MinimumStock: d("1")}
	assert.True(t, m.NeedsRestock(), "igual al mínimo necesita reposición")
	m.StockQuantity = d("1.01")
	assert.False(t, m.NeedsRestock())
	m.StockQuantity = d("-2")
	assert.True(t, m.NeedsRestock())
}
