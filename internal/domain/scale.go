package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Decimales que guarda cada familia de columnas NUMERIC.
const (
	QuantityScale int32 = 3 // stock, cantidades de composición y entradas
	PriceScale    int32 = 4 // precio unitario de material y de compra
	MoneyScale    int32 = 2 // montos de venta, tarifa de mano de obra, margen y descuento
)

// CheckScale rechaza valores con más decimales de los que admite la columna. Los ceros a la
// derecha no cuentan: 1.2000 cabe en escala 3.
func CheckScale(field string, d decimal.Decimal, scale int32) error {
	if d.Equal(d.Truncate(scale)) {
		return nil
	}
	return fmt.Errorf("%w: %s admite como máximo %d decimales", ErrInvalidInput, field, scale)
}
