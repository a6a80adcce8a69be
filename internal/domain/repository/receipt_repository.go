package repository

import (
	"context"

	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

// ReceiptRepository define el puerto de persistencia para entradas de material.
// No hay Update: una entrada es inmutable.
type ReceiptRepository interface {
	Create(ctx context.Context, r *entity.MaterialReceipt) error
	ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.MaterialReceipt, error)
}

// StockMovementRepository define el puerto de persistencia del historial de stock.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.StockMovement, error)
}
