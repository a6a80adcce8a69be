package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/application/ports"
	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/inventory"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

// LedgerUseCase entradas de material y consulta del historial de stock.
type LedgerUseCase struct {
	txRunner     ports.TxRunner
	materialRepo repository.MaterialRepository
	receiptRepo  repository.ReceiptRepository
	movementRepo repository.StockMovementRepository
	policy       inventory.CostingPolicy
	metrics      ports.Metrics
	log          zerolog.Logger
	now          func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner ports.TxRunner,
	materialRepo repository.MaterialRepository,
	receiptRepo repository.ReceiptRepository,
	movementRepo repository.StockMovementRepository,
	policy inventory.CostingPolicy,
	metrics ports.Metrics,
	log zerolog.Logger,
) *LedgerUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &LedgerUseCase{
		txRunner:     txRunner,
		materialRepo: materialRepo,
		receiptRepo:  receiptRepo,
		movementRepo: movementRepo,
		policy:       policy,
		metrics:      metrics,
		log:          log,
		now:          time.Now,
	}
}

// ReceiveMaterial registra una compra de material: valida, bloquea la fila del material,
// suma la cantidad al stock, actualiza el precio unitario según la política de costeo
// y persiste la entrada y su movimiento en la misma transacción.
func (uc *LedgerUseCase) ReceiveMaterial(ctx context.Context, userID, materialID string, in dto.ReceiveMaterialRequest) (*dto.MaterialReceiptResponse, error) {
	if materialID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := inventory.ValidateReceipt(in.QuantityAdded, in.PurchaseUnitPrice); err != nil {
		return nil, err
	}

	var (
		receipt  *entity.MaterialReceipt
		material *entity.Material
	)
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		m, err := repos.Materials.GetForUpdate(ctx, materialID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		now := uc.now()
		before, after := inventory.ApplyReceipt(m, in.QuantityAdded, in.PurchaseUnitPrice, uc.policy)
		m.UpdatedAt = now
		if err := repos.Materials.UpdateLedger(ctx, m); err != nil {
			return err
		}

		r := &entity.MaterialReceipt{
			ID:                uuid.New().String(),
			MaterialID:        m.ID,
			QuantityAdded:     in.QuantityAdded,
			PurchaseUnitPrice: in.PurchaseUnitPrice,
			ReceivedAt:        now,
			CreatedBy:         userID,
		}
		if err := repos.Receipts.Create(ctx, r); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			MaterialID:  m.ID,
			Kind:        entity.MovementReceipt,
			Quantity:    in.QuantityAdded,
			StockBefore: before,
			StockAfter:  after,
			ReferenceID: r.ID,
			CreatedAt:   now,
			CreatedBy:   userID,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return err
		}
		receipt, material = r, m
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.MaterialReceived(string(material.UnitOfMeasure), in.QuantityAdded)
	uc.log.Info().
		Str("material_id", material.ID).
		Str("quantity", in.QuantityAdded.String()).
		Str("unit_price", material.UnitPrice.String()).
		Str("stock", material.StockQuantity.String()).
		Msg("entrada de material registrada")

	resp := toReceiptResponse(receipt)
	mr := dto.FromMaterial(material)
	resp.Material = &mr
	return &resp, nil
}

// NeedsRestock indica si el material está en o por debajo de su stock mínimo.
func (uc *LedgerUseCase) NeedsRestock(ctx context.Context, materialID string) (bool, error) {
	m, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, domain.ErrNotFound
	}
	return m.NeedsRestock(), nil
}

// ListReceipts entradas de un material, más recientes primero.
func (uc *LedgerUseCase) ListReceipts(ctx context.Context, materialID string, page dto.PageRequest) ([]dto.MaterialReceiptResponse, error) {
	if err := uc.ensureMaterial(ctx, materialID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.receiptRepo.ListByMaterial(ctx, materialID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialReceiptResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toReceiptResponse(r))
	}
	return out, nil
}

// ListMovements historial de stock de un material, más recientes primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, materialID string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	if err := uc.ensureMaterial(ctx, materialID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.movementRepo.ListByMaterial(ctx, materialID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:          m.ID,
			MaterialID:  m.MaterialID,
			ProductID:   m.ProductID,
			Kind:        m.Kind,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			ReferenceID: m.ReferenceID,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out, nil
}

func (uc *LedgerUseCase) ensureMaterial(ctx context.Context, id string) error {
	m, err := uc.materialRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	return nil
}

func toReceiptResponse(r *entity.MaterialReceipt) dto.MaterialReceiptResponse {
	return dto.MaterialReceiptResponse{
		ID:                r.ID,
		MaterialID:        r.MaterialID,
		QuantityAdded:     r.QuantityAdded,
		PurchaseUnitPrice: r.PurchaseUnitPrice,
		ReceivedAt:        r.ReceivedAt,
	}
}
