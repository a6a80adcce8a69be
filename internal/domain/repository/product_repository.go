package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto mientras se edita su composición.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update no modifica ComputedPrice ni las imágenes.
	Update(ctx context.Context, p *entity.Product) error
	UpdateComputedPrice(ctx context.Context, id string, price decimal.Decimal) error
	UpdateImage(ctx context.Context, id, slot, key string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}

// CompositionRepository define el puerto de persistencia para las líneas de composición.
type CompositionRepository interface {
	// ListByProduct devuelve las líneas con su material, en orden de creación.
	ListByProduct(ctx context.Context, productID string) ([]*entity.CompositionLine, error)
	Create(ctx context.Context, item *entity.CompositionItem) error
	UpdateQuantity(ctx context.Context, id string, qty decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}
