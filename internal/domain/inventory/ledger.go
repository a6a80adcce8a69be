package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

// CostingPolicy define cómo una entrada de material actualiza su precio unitario.
type CostingPolicy string

const (
	// CostingLastPrice el precio unitario pasa a ser el de la última compra.
	CostingLastPrice CostingPolicy = "last"
	// CostingWeightedAverage el precio unitario se pondera con el stock existente.
	CostingWeightedAverage CostingPolicy = "weighted"
)

// ParseCostingPolicy valida el nombre de la política.
func ParseCostingPolicy(s string) (CostingPolicy, error) {
	switch CostingPolicy(s) {
	case CostingLastPrice, CostingWeightedAverage:
		return CostingPolicy(s), nil
	case "":
		return CostingLastPrice, nil
	}
	return "", fmt.Errorf("política de costeo desconocida: %q", s)
}

// ValidateReceipt rechaza cantidades no positivas, precios negativos y valores con más decimales
// de los que guarda el libro, antes de mutar nada.
func ValidateReceipt(quantityAdded, purchaseUnitPrice decimal.Decimal) error {
	if quantityAdded.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidQuantity
	}
	if purchaseUnitPrice.LessThan(decimal.Zero) {
		return domain.ErrInvalidPrice
	}
	if err := domain.CheckScale("quantity_added", quantityAdded, domain.QuantityScale); err != nil {
		return err
	}
	return domain.CheckScale("purchase_unit_price", purchaseUnitPrice, domain.PriceScale)
}

// ApplyReceipt suma la cantidad recibida al stock y actualiza el precio unitario según la política.
// Devuelve el stock anterior y el nuevo.
func ApplyReceipt(m *entity.Material, quantityAdded, purchaseUnitPrice decimal.Decimal, policy CostingPolicy) (before, after decimal.Decimal) {
	before = m.StockQuantity
	switch policy {
	case CostingWeightedAverage:
		m.UnitPrice = WeightedAverageCost(before, m.UnitPrice, quantityAdded, purchaseUnitPrice)
	default:
		m.UnitPrice = purchaseUnitPrice
	}
	m.StockQuantity = before.Add(quantityAdded)
	return before, m.StockQuantity
}

// ApplyDelta suma delta (con signo) al stock sin piso. Devuelve el stock anterior y el nuevo.
func ApplyDelta(m *entity.Material, delta decimal.Decimal) (before, after decimal.Decimal) {
	before = m.StockQuantity
	m.StockQuantity = before.Add(delta)
	return before, m.StockQuantity
}
