package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

// ProductCostRow producto con su costo de materiales al precio actual y si ya fue vendido.
type ProductCostRow struct {
	Product      entity.Product
	MaterialCost decimal.Decimal
	Sold         bool
}

// AnalyticsRepository consultas agregadas de solo lectura para el dashboard.
type AnalyticsRepository interface {
	// StockValue Σ stock * precio unitario de todos los materiales.
	StockValue(ctx context.Context) (decimal.Decimal, error)
	// ListProductCosts todos los productos con su costo de materiales agregado.
	ListProductCosts(ctx context.Context) ([]ProductCostRow, error)
}
