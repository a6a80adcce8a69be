package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

var (
	_ repository.ReceiptRepository       = (*ReceiptRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
)

// ReceiptRepo implementación de ReceiptRepository sobre PostgreSQL. Solo inserta y lee.
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador.
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

// Create persiste una entrada de material.
func (r *ReceiptRepo) Create(ctx context.Context, rc *entity.MaterialReceipt) error {
	query := `
		INSERT INTO material_receipts (id, material_id, quantity_added, purchase_unit_price, received_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		rc.ID, rc.MaterialID, rc.QuantityAdded, rc.PurchaseUnitPrice, rc.ReceivedAt, nullIfEmpty(rc.CreatedBy))
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert material receipt: %w", err)
	}
	return nil
}

// ListByMaterial entradas de un material, más recientes primero.
func (r *ReceiptRepo) ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.MaterialReceipt, error) {
	query := `
		SELECT id, material_id, quantity_added, purchase_unit_price, received_at, created_by
		FROM material_receipts
		WHERE material_id = $1
		ORDER BY received_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, materialID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list material receipts: %w", err)
	}
	defer rows.Close()
	var list []*entity.MaterialReceipt
	for rows.Next() {
		var rc entity.MaterialReceipt
		var createdBy *string
		if err := rows.Scan(&rc.ID, &rc.MaterialID, &rc.QuantityAdded, &rc.PurchaseUnitPrice, &rc.ReceivedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan material receipt: %w", err)
		}
		rc.CreatedBy = derefString(createdBy)
		list = append(list, &rc)
	}
	return list, rows.Err()
}

// StockMovementRepo historial de movimientos de stock sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements
			(id, material_id, product_id, kind, quantity, stock_before, stock_after, reference_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.MaterialID, m.ProductID, m.Kind, m.Quantity, m.StockBefore, m.StockAfter,
		m.ReferenceID, m.CreatedAt, nullIfEmpty(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByMaterial movimientos de un material, más recientes primero.
func (r *StockMovementRepo) ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, material_id, product_id, kind, quantity, stock_before, stock_after, reference_id, created_at, created_by
		FROM stock_movements
		WHERE material_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, materialID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.MaterialID, &m.ProductID, &m.Kind, &m.Quantity, &m.StockBefore, &m.StockAfter,
			&m.ReferenceID, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.CreatedBy = derefString(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}
