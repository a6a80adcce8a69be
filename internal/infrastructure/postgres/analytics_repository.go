package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas agregadas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// StockValue Σ stock * precio unitario. El stock negativo resta.
func (r *AnalyticsRepo) StockValue(ctx context.Context) (decimal.Decimal, error) {
	var v decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(stock_quantity * unit_price), 0) FROM materials`).Scan(&v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock value: %w", err)
	}
	return v, nil
}

// ListProductCosts productos con Σ cantidad * precio unitario actual de su composición
// y la marca de vendido.
func (r *AnalyticsRepo) ListProductCosts(ctx context.Context) ([]repository.ProductCostRow, error) {
	query := `
		SELECT p.id, p.name, p.description, p.labor_minutes, p.labor_rate, p.margin_percent, p.discount_amount,
			p.computed_price, p.image_front, p.image_side, p.image_back, p.created_at, p.updated_at,
			COALESCE((
				SELECT SUM(ci.quantity_used * m.unit_price)
				FROM composition_items ci JOIN materials m ON m.id = ci.material_id
				WHERE ci.product_id = p.id
			), 0) AS material_cost,
			EXISTS (SELECT 1 FROM sales s WHERE s.product_id = p.id) AS sold
		FROM products p
		ORDER BY p.created_at DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("product costs: %w", err)
	}
	defer rows.Close()
	var out []repository.ProductCostRow
	for rows.Next() {
		var (
			row              repository.ProductCostRow
			minutes          int
			front, side, bck *string
		)
		p := &row.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &minutes, &p.LaborRate, &p.MarginPercent, &p.DiscountAmount,
			&p.ComputedPrice, &front, &side, &bck, &p.CreatedAt, &p.UpdatedAt, &row.MaterialCost, &row.Sold); err != nil {
			return nil, fmt.Errorf("scan product cost: %w", err)
		}
		p.LaborTime = entity.NewLaborTimeFromMinutes(minutes)
		p.ImageFront, p.ImageSide, p.ImageBack = derefString(front), derefString(side), derefString(bck)
		out = append(out, row)
	}
	return out, rows.Err()
}
