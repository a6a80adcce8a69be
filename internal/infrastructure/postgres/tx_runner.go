package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/atelier-api/internal/application/ports"
	"github.com/jhoicas/atelier-api/internal/domain"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	backoff    time.Duration
	log        zerolog.Logger
}

// NewTxRunner construye el runner con el pool. maxRetries reintentos ante 40001/40P01.
func NewTxRunner(pool *pgxpool.Pool, maxRetries int, log zerolog.Logger) *TxRunner {
	return &TxRunner{pool: pool, maxRetries: maxRetries, backoff: 20 * time.Millisecond, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los fallos de serialización y deadlocks repiten fn completa; agotados los reintentos
// devuelve domain.ErrConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	return r.retry(ctx, func(ctx context.Context) error { return r.runOnce(ctx, fn) })
}

// retry ejecuta once hasta maxRetries+1 veces mientras falle por conflicto de concurrencia,
// con espera lineal entre intentos.
func (r *TxRunner) retry(ctx context.Context, once func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		err = once(ctx)
		if err == nil || !isRetryable(err) {
			return err
		}
		r.log.Warn().Err(err).Int("attempt", attempt+1).Msg("conflicto de concurrencia, reintentando transacción")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff * time.Duration(attempt+1)):
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, err)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(txRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func txRepos(tx pgx.Tx) ports.TxRepos {
	return ports.TxRepos{
		Materials:    NewMaterialRepository(tx),
		Receipts:     NewReceiptRepository(tx),
		Movements:    NewStockMovementRepository(tx),
		Products:     NewProductRepository(tx),
		Compositions: NewCompositionRepository(tx),
		Sales:        NewSaleRepository(tx),
		Clients:      NewClientRepository(tx),
	}
}
