// Package pricing deriva el precio sugerido de un producto a partir del costo de
// materiales, la mano de obra, el margen y el descuento. Todo en decimal exacto.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

var (
	hundred       = decimal.NewFromInt(100)
	minutesInHour = decimal.NewFromInt(60)
)

// Line cantidad consumida de un material y su precio unitario vigente.
type Line struct {
	QuantityUsed decimal.Decimal
	UnitPrice    decimal.Decimal
}

// Inputs parámetros del cálculo de precio de un producto.
type Inputs struct {
	Lines          []Line
	LaborTime      entity.LaborTime
	LaborRate      decimal.Decimal
	MarginPercent  decimal.Decimal
	DiscountAmount decimal.Decimal
}

// Breakdown desglose del precio sugerido.
type Breakdown struct {
	MaterialCost   decimal.Decimal
	LaborHours     decimal.Decimal
	LaborCost      decimal.Decimal
	BaseCost       decimal.Decimal
	SuggestedPrice decimal.Decimal
	NetProfit      decimal.Decimal
}

// LinesFrom convierte la composición leída del repositorio en líneas de costo.
// Usa el precio unitario actual del material, no el de la fecha de composición.
func LinesFrom(composition []*entity.CompositionLine) []Line {
	lines := make([]Line, 0, len(composition))
	for _, c := range composition {
		lines = append(lines, Line{QuantityUsed: c.Item.QuantityUsed, UnitPrice: c.Material.UnitPrice})
	}
	return lines
}

// InputsFor arma los parámetros del cálculo para un producto y su composición.
func InputsFor(p *entity.Product, composition []*entity.CompositionLine) Inputs {
	return Inputs{
		Lines:          LinesFrom(composition),
		LaborTime:      p.LaborTime,
		LaborRate:      p.LaborRate,
		MarginPercent:  p.MarginPercent,
		DiscountAmount: p.DiscountAmount,
	}
}

// MaterialCost Σ cantidad * precio unitario. Composición vacía → 0.
func MaterialCost(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.QuantityUsed.Mul(l.UnitPrice))
	}
	return total
}

// LaborHours horas + minutos/60.
func LaborHours(t entity.LaborTime) decimal.Decimal {
	return decimal.NewFromInt(int64(t.Hours)).
		Add(decimal.NewFromInt(int64(t.Minutes)).Div(minutesInHour))
}

// LaborCost horas de trabajo * valor hora. Se calcula como minutos*valor/60 para no
// arrastrar el redondeo de fracciones periódicas (ej: 20 min = 0.333... h).
func LaborCost(t entity.LaborTime, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(t.TotalMinutes())).Mul(rate).Div(minutesInHour)
}

// SuggestedPrice costo base * (1 + margen/100) - descuento. El margen se aplica antes
// de restar el descuento fijo; el orden no es intercambiable.
func SuggestedPrice(baseCost, marginPercent, discountAmount decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(marginPercent.Div(hundred))
	return baseCost.Mul(factor).Sub(discountAmount)
}

// Compute calcula el desglose completo.
func Compute(in Inputs) Breakdown {
	materialCost := MaterialCost(in.Lines)
	laborCost := LaborCost(in.LaborTime, in.LaborRate)
	baseCost := materialCost.Add(laborCost)
	suggested := SuggestedPrice(baseCost, in.MarginPercent, in.DiscountAmount)
	return Breakdown{
		MaterialCost:   materialCost,
		LaborHours:     LaborHours(in.LaborTime),
		LaborCost:      laborCost,
		BaseCost:       baseCost,
		SuggestedPrice: suggested,
		NetProfit:      suggested.Sub(baseCost),
	}
}

// SalePrice precio por defecto de una venta: el sugerido redondeado a 2 decimales
// (redondeo bancario).
func (b Breakdown) SalePrice() decimal.Decimal {
	return b.SuggestedPrice.RoundBank(2)
}
