package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/application/ports"
	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/inventory"
	"github.com/jhoicas/atelier-api/internal/domain/pricing"
)

// CompositionUseCase edita la receta (composición) de un producto y reconcilia el stock.
type CompositionUseCase struct {
	txRunner   ports.TxRunner
	reconciler *StockReconciler
	metrics    ports.Metrics
	log        zerolog.Logger
	now        func() time.Time
}

// NewCompositionUseCase construye el caso de uso.
func NewCompositionUseCase(txRunner ports.TxRunner, reconciler *StockReconciler, metrics ports.Metrics, log zerolog.Logger) *CompositionUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &CompositionUseCase{txRunner: txRunner, reconciler: reconciler, metrics: metrics, log: log, now: time.Now}
}

// CompositionResult resultado de aplicar una composición dentro de una transacción.
type CompositionResult struct {
	Lines    []*entity.CompositionLine
	Events   []inventory.StockEvent
	Warnings []dto.StockWarning
}

// ValidateItems valida las líneas antes de abrir la transacción.
func ValidateItems(items []dto.CompositionItemInput) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.MaterialID == "" {
			return fmt.Errorf("%w: material_id requerido", domain.ErrInvalidInput)
		}
		if it.QuantityUsed.LessThanOrEqual(decimal.Zero) {
			return domain.ErrInvalidQuantity
		}
		if err := domain.CheckScale("quantity_used", it.QuantityUsed, domain.QuantityScale); err != nil {
			return err
		}
		if it.ID != "" {
			if seen[it.ID] {
				return fmt.Errorf("%w: línea %s repetida", domain.ErrInvalidInput, it.ID)
			}
			seen[it.ID] = true
		}
	}
	return nil
}

// SetComposition reemplaza la receta completa del producto: líneas con id existente se editan,
// líneas sin id se crean y las líneas ausentes se eliminan. El stock se reconcilia en la misma
// transacción y el precio calculado del producto se refresca.
func (uc *CompositionUseCase) SetComposition(ctx context.Context, userID, productID string, items []dto.CompositionItemInput) (*dto.CompositionResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}

	var res *CompositionResult
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		p, err := repos.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		res, err = uc.ApplyInTx(ctx, repos, p, userID, items)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.RecordEvents(productID, res.Events)

	return &dto.CompositionResponse{
		ProductID:    productID,
		Items:        dto.FromCompositionLines(res.Lines),
		MaterialCost: pricing.MaterialCost(pricing.LinesFrom(res.Lines)),
		Warnings:     res.Warnings,
	}, nil
}

// ApplyInTx aplica la composición usando los repositorios de la transacción del caller
// (alta de producto y SetComposition). El producto debe estar bloqueado o recién creado.
func (uc *CompositionUseCase) ApplyInTx(ctx context.Context, repos ports.TxRepos, p *entity.Product, userID string, items []dto.CompositionItemInput) (*CompositionResult, error) {
	current, err := repos.Compositions.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.CompositionLine, len(current))
	materialIDs := make([]string, 0, len(current)+len(items))
	for _, l := range current {
		byID[l.Item.ID] = l
		materialIDs = append(materialIDs, l.Material.ID)
	}
	for _, it := range items {
		if it.ID != "" {
			l, ok := byID[it.ID]
			if !ok {
				return nil, fmt.Errorf("%w: la línea %s no pertenece al producto", domain.ErrInvalidInput, it.ID)
			}
			if l.Item.MaterialID != it.MaterialID {
				return nil, fmt.Errorf("%w: no se puede cambiar el material de la línea %s", domain.ErrInvalidInput, it.ID)
			}
		}
		materialIDs = append(materialIDs, it.MaterialID)
	}

	locked, err := uc.reconciler.LockMaterials(ctx, repos, materialIDs)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	kept := make(map[string]bool, len(items))
	var events []inventory.StockEvent
	for _, it := range items {
		if it.ID == "" {
			m := locked[it.MaterialID]
			if !m.InStock() {
				return nil, fmt.Errorf("%w: %s", domain.ErrMaterialOutOfStock, m.Name)
			}
			item := entity.CompositionItem{
				ID:           uuid.New().String(),
				ProductID:    p.ID,
				MaterialID:   it.MaterialID,
				QuantityUsed: it.QuantityUsed,
				CreatedAt:    now,
			}
			if err := repos.Compositions.Create(ctx, &item); err != nil {
				return nil, err
			}
			events = append(events, inventory.ItemAdded(item))
			continue
		}
		kept[it.ID] = true
		existing := byID[it.ID].Item
		if existing.QuantityUsed.Equal(it.QuantityUsed) {
			continue
		}
		if err := repos.Compositions.UpdateQuantity(ctx, it.ID, it.QuantityUsed); err != nil {
			return nil, err
		}
		oldQty := existing.QuantityUsed
		existing.QuantityUsed = it.QuantityUsed
		events = append(events, inventory.ItemQuantityChanged(existing, oldQty))
	}
	for _, l := range current {
		if kept[l.Item.ID] {
			continue
		}
		if err := repos.Compositions.Delete(ctx, l.Item.ID); err != nil {
			return nil, err
		}
		events = append(events, inventory.ItemRemoved(l.Item))
	}

	warnings, err := uc.reconciler.ApplyLocked(ctx, repos, locked, userID, events)
	if err != nil {
		return nil, err
	}

	lines, err := repos.Compositions.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	price := pricing.Compute(pricing.InputsFor(p, lines)).SuggestedPrice
	if err := repos.Products.UpdateComputedPrice(ctx, p.ID, price); err != nil {
		return nil, err
	}
	p.ComputedPrice = price

	return &CompositionResult{Lines: lines, Events: events, Warnings: warnings}, nil
}

// ReleaseInTx elimina todas las líneas del producto devolviendo su cantidad al stock (baja de producto).
func (uc *CompositionUseCase) ReleaseInTx(ctx context.Context, repos ports.TxRepos, productID, userID string) ([]inventory.StockEvent, error) {
	current, err := repos.Compositions.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	events := make([]inventory.StockEvent, 0, len(current))
	for _, l := range current {
		if err := repos.Compositions.Delete(ctx, l.Item.ID); err != nil {
			return nil, err
		}
		events = append(events, inventory.ItemRemoved(l.Item))
	}
	if _, err := uc.reconciler.Apply(ctx, repos, userID, events); err != nil {
		return nil, err
	}
	return events, nil
}

// RecordEvents publica métricas y log de eventos ya confirmados.
func (uc *CompositionUseCase) RecordEvents(productID string, events []inventory.StockEvent) {
	for _, e := range events {
		uc.metrics.CompositionChanged(string(e.Kind))
	}
	if len(events) > 0 {
		uc.log.Info().
			Str("product_id", productID).
			Int("events", len(events)).
			Msg("composición actualizada")
	}
}
