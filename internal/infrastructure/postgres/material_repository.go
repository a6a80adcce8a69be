package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, category_id, name, unit_of_measure, unit_price, stock_quantity, minimum_stock, created_at, updated_at`

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	var unit string
	err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &unit, &m.UnitPrice, &m.StockQuantity, &m.MinimumStock, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.UnitOfMeasure = entity.UnitOfMeasure(unit)
	return &m, nil
}

// Create persiste un nuevo material.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materials (` + materialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CategoryID, m.Name, string(m.UnitOfMeasure), m.UnitPrice, m.StockQuantity, m.MinimumStock,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("categoría: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material por ID; (nil, nil) si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	m, err := scanMaterial(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// GetForUpdate obtiene el material y bloquea la fila (SELECT FOR UPDATE).
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1 FOR UPDATE`
	m, err := scanMaterial(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material for update: %w", err)
	}
	return m, nil
}

// Update actualiza datos descriptivos. No toca stock_quantity ni unit_price.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	query := `
		UPDATE materials
		SET category_id = $2, name = $3, unit_of_measure = $4, minimum_stock = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, m.ID, m.CategoryID, m.Name, string(m.UnitOfMeasure), m.MinimumStock, m.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("categoría: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateLedger persiste stock_quantity y unit_price.
func (r *MaterialRepo) UpdateLedger(ctx context.Context, m *entity.Material) error {
	query := `UPDATE materials SET stock_quantity = $2, unit_price = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, m.ID, m.StockQuantity, m.UnitPrice, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update material ledger: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista materiales por nombre, con filtros opcionales.
func (r *MaterialRepo) List(ctx context.Context, f repository.MaterialFilter) ([]*entity.Material, error) {
	var (
		where []string
		args  []any
	)
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.InStockOnly {
		where = append(where, "stock_quantity > 0")
	}
	query := `SELECT ` + materialColumns + ` FROM materials`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return r.queryMaterials(ctx, query, args...)
}

// ListNeedingRestock materiales con stock <= mínimo, mayor déficit primero.
func (r *MaterialRepo) ListNeedingRestock(ctx context.Context) ([]*entity.Material, error) {
	query := `
		SELECT ` + materialColumns + `
		FROM materials
		WHERE stock_quantity <= minimum_stock
		ORDER BY (minimum_stock - stock_quantity) DESC, name`
	return r.queryMaterials(ctx, query)
}

// Delete elimina un material. Si una composición lo referencia → ErrConflict.
func (r *MaterialRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el material se usa en la composición de productos", domain.ErrConflict)
		}
		return fmt.Errorf("delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MaterialRepo) queryMaterials(ctx context.Context, query string, args ...any) ([]*entity.Material, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
