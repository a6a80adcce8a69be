package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompositionItem indica que un producto consume cierta cantidad de un material.
type CompositionItem struct {
	ID           string
	ProductID    string
	MaterialID   string
	QuantityUsed decimal.Decimal
	CreatedAt    time.Time
}

// CompositionLine línea de composición junto al material referenciado (lectura).
type CompositionLine struct {
	Item     CompositionItem
	Material Material
}

// Subtotal costo de la línea al precio unitario actual del material.
func (l CompositionLine) Subtotal() decimal.Decimal {
	return l.Item.QuantityUsed.Mul(l.Material.UnitPrice)
}
