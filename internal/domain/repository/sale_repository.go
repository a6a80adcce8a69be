package repository

import (
	"context"
	"time"

	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

// SaleFilter filtros de listado de ventas. Fechas nil = sin límite.
type SaleFilter struct {
	ProductID string
	ClientID  string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// SaleRepository define el puerto de persistencia para ventas. Solo creación y lectura.
type SaleRepository interface {
	Create(ctx context.Context, s *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, error)
	// SoldProductIDs conjunto de productos con al menos una venta.
	SoldProductIDs(ctx context.Context) (map[string]bool, error)
}

// ClientRepository define el puerto de persistencia para clientes.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Update(ctx context.Context, c *entity.Client) error
	List(ctx context.Context, limit, offset int) ([]*entity.Client, error)
}
