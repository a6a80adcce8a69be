package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

var idealStockFactor = decimal.RequireFromString("1.5")

// ReplenishmentUseCase genera la lista de reposición de materiales.
type ReplenishmentUseCase struct {
	materialRepo repository.MaterialRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(materialRepo repository.MaterialRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{materialRepo: materialRepo}
}

// GenerateReplenishmentList devuelve los materiales en o bajo su stock mínimo con la cantidad
// sugerida de compra (mínimo*1.5 - stock) y su costo estimado al último precio de compra.
// Prioridad: mayor déficit relativo primero, luego mayor costo estimado.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	materials, err := uc.materialRepo.ListNeedingRestock(ctx)
	if err != nil {
		return nil, err
	}
	if len(materials) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(materials))
	for _, m := range materials {
		idealStock := m.MinimumStock.Mul(idealStockFactor)
		suggestedQty := idealStock.Sub(m.StockQuantity)
		if suggestedQty.LessThan(decimal.Zero) {
			suggestedQty = decimal.Zero
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			MaterialID:         m.ID,
			MaterialName:       m.Name,
			UnitOfMeasure:      string(m.UnitOfMeasure),
			CurrentStock:       m.StockQuantity,
			MinimumStock:       m.MinimumStock,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			UnitPrice:          m.UnitPrice,
			EstimatedOrderCost: suggestedQty.Mul(m.UnitPrice),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ra, rb := deficitRatio(a), deficitRatio(b)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return a.EstimatedOrderCost.GreaterThan(b.EstimatedOrderCost)
	})

	// 1 = más urgente
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

// deficitRatio (ideal - actual) / ideal; con mínimo cero el déficit es absoluto.
func deficitRatio(s dto.ReplenishmentSuggestionDTO) decimal.Decimal {
	if s.IdealStock.IsZero() {
		return s.SuggestedOrderQty
	}
	return s.SuggestedOrderQty.Div(s.IdealStock)
}
