package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitOfMeasure unidad en la que se compra y consume un material.
type UnitOfMeasure string

// Unidades de medida admitidas.
const (
	UnitMeter UnitOfMeasure = "meter"
	UnitUnit  UnitOfMeasure = "unit"
	UnitRoll  UnitOfMeasure = "roll"
	UnitKilo  UnitOfMeasure = "kilo"
	UnitGram  UnitOfMeasure = "gram"
)

// Valid indica si la unidad es una de las admitidas.
func (u UnitOfMeasure) Valid() bool {
	switch u {
	case UnitMeter, UnitUnit, UnitRoll, UnitKilo, UnitGram:
		return true
	}
	return false
}

// Material representa una materia prima del taller.
// StockQuantity solo cambia por entradas de material y por la composición de productos;
// puede quedar negativo (no hay piso).
type Material struct {
	ID            string
	CategoryID    *string // opcional
	Name          string
	UnitOfMeasure UnitOfMeasure
	UnitPrice     decimal.Decimal // precio de la última compra
	StockQuantity decimal.Decimal
	MinimumStock  decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NeedsRestock es verdadero cuando el stock está en o por debajo del mínimo.
func (m *Material) NeedsRestock() bool {
	return m.StockQuantity.LessThanOrEqual(m.MinimumStock)
}

// InStock indica si el material puede ofrecerse al componer un producto nuevo.
func (m *Material) InStock() bool {
	return m.StockQuantity.GreaterThan(decimal.Zero)
}

// StockValue valor del stock al precio unitario actual.
func (m *Material) StockValue() decimal.Decimal {
	return m.StockQuantity.Mul(m.UnitPrice)
}
