package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/application/ports"
	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/inventory"
)

// LockedMaterials materiales bloqueados (SELECT FOR UPDATE) dentro de la transacción en curso.
type LockedMaterials map[string]*entity.Material

// StockReconciler aplica los eventos de composición al stock de los materiales.
// Siempre corre dentro de la transacción del caller: no hay guardado parcial.
type StockReconciler struct {
	allowNegative bool
	metrics       ports.Metrics
	log           zerolog.Logger
	now           func() time.Time
}

// NewStockReconciler construye el reconciliador. allowNegative=false convierte el stock negativo en ErrInsufficientStock.
func NewStockReconciler(allowNegative bool, metrics ports.Metrics, log zerolog.Logger) *StockReconciler {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &StockReconciler{allowNegative: allowNegative, metrics: metrics, log: log, now: time.Now}
}

// LockMaterials bloquea los materiales en orden ascendente de id (evita deadlocks entre
// transacciones concurrentes). Ids repetidos se bloquean una sola vez. Material inexistente → ErrNotFound.
func (r *StockReconciler) LockMaterials(ctx context.Context, repos ports.TxRepos, ids []string) (LockedMaterials, error) {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Strings(uniq)

	locked := make(LockedMaterials, len(uniq))
	for _, id := range uniq {
		m, err := repos.Materials.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, fmt.Errorf("material %s: %w", id, domain.ErrNotFound)
		}
		locked[id] = m
	}
	return locked, nil
}

// Apply bloquea los materiales de los eventos y los procesa. Ver ApplyLocked.
func (r *StockReconciler) Apply(ctx context.Context, repos ports.TxRepos, userID string, events []inventory.StockEvent) ([]dto.StockWarning, error) {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.MaterialID)
	}
	locked, err := r.LockMaterials(ctx, repos, ids)
	if err != nil {
		return nil, err
	}
	return r.ApplyLocked(ctx, repos, locked, userID, events)
}

// ApplyLocked procesa los eventos en orden sobre materiales ya bloqueados: ajusta el stock,
// registra un movimiento por evento y persiste cada material tocado una vez.
// Devuelve avisos por cada material que terminó en negativo tras una salida.
func (r *StockReconciler) ApplyLocked(ctx context.Context, repos ports.TxRepos, locked LockedMaterials, userID string, events []inventory.StockEvent) ([]dto.StockWarning, error) {
	if len(events) == 0 {
		return nil, nil
	}
	now := r.now()
	touched := make(map[string]bool)
	decreased := make(map[string]bool)

	for _, e := range events {
		m, ok := locked[e.MaterialID]
		if !ok {
			return nil, fmt.Errorf("material %s no bloqueado en la transacción", e.MaterialID)
		}
		delta := e.StockDelta()
		if delta.IsZero() {
			continue
		}
		before, after := inventory.ApplyDelta(m, delta)
		m.UpdatedAt = now
		touched[m.ID] = true
		if delta.LessThan(decimal.Zero) {
			decreased[m.ID] = true
		}

		productID := e.ProductID
		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			MaterialID:  m.ID,
			ProductID:   &productID,
			Kind:        e.MovementKind(),
			Quantity:    delta,
			StockBefore: before,
			StockAfter:  after,
			ReferenceID: e.ItemID,
			CreatedAt:   now,
			CreatedBy:   userID,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var warnings []dto.StockWarning
	for _, id := range ids {
		m := locked[id]
		if decreased[id] && m.StockQuantity.LessThan(decimal.Zero) {
			if !r.allowNegative {
				return nil, fmt.Errorf("%w: %s quedaría en %s", domain.ErrInsufficientStock, m.Name, m.StockQuantity.String())
			}
			r.log.Warn().
				Str("material_id", m.ID).
				Str("material", m.Name).
				Str("stock", m.StockQuantity.String()).
				Msg("stock negativo tras composición")
			r.metrics.StockWentNegative(m.ID)
			warnings = append(warnings, dto.StockWarning{
				MaterialID:    m.ID,
				MaterialName:  m.Name,
				StockQuantity: m.StockQuantity,
			})
		}
		if err := repos.Materials.UpdateLedger(ctx, m); err != nil {
			return nil, err
		}
	}
	return warnings, nil
}
