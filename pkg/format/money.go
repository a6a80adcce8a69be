// Package format presentación de montos y teléfonos para recibos, mensajes y reportes.
package format

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency moneda del taller.
const DefaultCurrency = money.BRL

// Currency formatea un monto en la moneda indicada (ej: BRL → "R$1.234,56").
// Redondea a la fracción de la moneda con redondeo bancario. Código desconocido → DefaultCurrency.
func Currency(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	minor := amount.RoundBank(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// BRL atajo para reales.
func BRL(amount decimal.Decimal) string {
	return Currency(amount, money.BRL)
}
