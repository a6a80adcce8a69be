package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

var _ repository.CompositionRepository = (*CompositionRepo)(nil)

// CompositionRepo líneas de composición de productos sobre PostgreSQL.
type CompositionRepo struct {
	q Querier
}

// NewCompositionRepository construye el adaptador.
func NewCompositionRepository(q Querier) *CompositionRepo {
	return &CompositionRepo{q: q}
}

// ListByProduct líneas del producto con su material, en orden de creación.
func (r *CompositionRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.CompositionLine, error) {
	query := `
		SELECT ci.id, ci.product_id, ci.material_id, ci.quantity_used, ci.created_at,
			m.id, m.category_id, m.name, m.unit_of_measure, m.unit_price, m.stock_quantity, m.minimum_stock,
			m.created_at, m.updated_at
		FROM composition_items ci
		JOIN materials m ON m.id = ci.material_id
		WHERE ci.product_id = $1
		ORDER BY ci.created_at, ci.id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list composition: %w", err)
	}
	defer rows.Close()
	var list []*entity.CompositionLine
	for rows.Next() {
		var l entity.CompositionLine
		var unit string
		if err := rows.Scan(
			&l.Item.ID, &l.Item.ProductID, &l.Item.MaterialID, &l.Item.QuantityUsed, &l.Item.CreatedAt,
			&l.Material.ID, &l.Material.CategoryID, &l.Material.Name, &unit, &l.Material.UnitPrice,
			&l.Material.StockQuantity, &l.Material.MinimumStock, &l.Material.CreatedAt, &l.Material.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan composition: %w", err)
		}
		l.Material.UnitOfMeasure = entity.UnitOfMeasure(unit)
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Create persiste una línea.
func (r *CompositionRepo) Create(ctx context.Context, item *entity.CompositionItem) error {
	query := `
		INSERT INTO composition_items (id, product_id, material_id, quantity_used, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, item.ID, item.ProductID, item.MaterialID, item.QuantityUsed, item.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert composition item: %w", err)
	}
	return nil
}

// UpdateQuantity cambia la cantidad de una línea existente.
func (r *CompositionRepo) UpdateQuantity(ctx context.Context, id string, qty decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE composition_items SET quantity_used = $2 WHERE id = $1`, id, qty)
	if err != nil {
		return fmt.Errorf("update composition item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una línea.
func (r *CompositionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM composition_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete composition item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
