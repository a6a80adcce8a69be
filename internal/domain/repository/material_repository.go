package repository

import (
	"context"

	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

// MaterialFilter filtros de listado de materiales.
type MaterialFilter struct {
	CategoryID  string
	InStockOnly bool // solo materiales con stock > 0 (seleccionables para composición)
	Limit       int
	Offset      int
}

// MaterialRepository define el puerto de persistencia para Material (DIP).
// Update no modifica stock ni precio: esos campos solo cambian vía UpdateLedger.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	// GetForUpdate obtiene el material y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Material, error)
	Update(ctx context.Context, m *entity.Material) error
	// UpdateLedger persiste stock_quantity y unit_price (entradas y composición).
	UpdateLedger(ctx context.Context, m *entity.Material) error
	List(ctx context.Context, f MaterialFilter) ([]*entity.Material, error)
	// ListNeedingRestock materiales con stock <= mínimo, mayor déficit primero.
	ListNeedingRestock(ctx context.Context) ([]*entity.Material, error)
	Delete(ctx context.Context, id string) error
}

// CategoryRepository define el puerto de persistencia para MaterialCategory.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.MaterialCategory) error
	GetByID(ctx context.Context, id string) (*entity.MaterialCategory, error)
	List(ctx context.Context) ([]*entity.MaterialCategory, error)
	Delete(ctx context.Context, id string) error
}
