package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock de material.
const (
	MovementInitial           = "INITIAL"            // stock inicial al dar de alta el material
	MovementReceipt           = "RECEIPT"            // entrada de material
	MovementCompositionAdd    = "COMPOSITION_ADD"    // línea de composición creada
	MovementCompositionRemove = "COMPOSITION_REMOVE" // línea de composición eliminada
	MovementCompositionEdit   = "COMPOSITION_EDIT"   // cambio de cantidad en una línea existente
)

// StockMovement registro inmutable de cada cambio de stock de un material.
type StockMovement struct {
	ID          string
	MaterialID  string
	ProductID   *string
	Kind        string
	Quantity    decimal.Decimal // positivo entrada, negativo salida
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
	ReferenceID string // receipt_id o composition_item_id
	CreatedAt   time.Time
	CreatedBy   string
}
