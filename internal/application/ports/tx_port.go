package ports

import (
	"context"

	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Materials    repository.MaterialRepository
	Receipts     repository.ReceiptRepository
	Movements    repository.StockMovementRepository
	Products     repository.ProductRepository
	Compositions repository.CompositionRepository
	Sales        repository.SaleRepository
	Clients      repository.ClientRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn retorna nil; Rollback en cualquier otro caso (no hay guardado parcial).
// Los conflictos de serialización se reintentan; agotados los intentos se devuelve domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
