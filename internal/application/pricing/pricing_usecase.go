package pricing

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/application/ports"
	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/pricing"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

// PricingUseCase calcula y persiste el precio sugerido de un producto.
type PricingUseCase struct {
	txRunner        ports.TxRunner
	productRepo     repository.ProductRepository
	compositionRepo repository.CompositionRepository
	log             zerolog.Logger
}

// NewPricingUseCase construye el caso de uso.
func NewPricingUseCase(txRunner ports.TxRunner, productRepo repository.ProductRepository, compositionRepo repository.CompositionRepository, log zerolog.Logger) *PricingUseCase {
	return &PricingUseCase{txRunner: txRunner, productRepo: productRepo, compositionRepo: compositionRepo, log: log}
}

// ComputePricing desglose del precio calculado en vivo con los precios unitarios actuales.
// No escribe nada.
func (uc *PricingUseCase) ComputePricing(ctx context.Context, productID string) (*dto.PricingResponse, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.compositionRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromBreakdown(p, pricing.Compute(pricing.InputsFor(p, lines)))
	return &resp, nil
}

// PersistPrice recalcula el precio sugerido y lo guarda como precio calculado del producto.
func (uc *PricingUseCase) PersistPrice(ctx context.Context, productID string) (*dto.PricingResponse, error) {
	var resp dto.PricingResponse
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		p, err := repos.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		lines, err := repos.Compositions.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		b := pricing.Compute(pricing.InputsFor(p, lines))
		if err := repos.Products.UpdateComputedPrice(ctx, productID, b.SuggestedPrice); err != nil {
			return err
		}
		p.ComputedPrice = b.SuggestedPrice
		resp = dto.FromBreakdown(p, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("product_id", productID).Str("computed_price", resp.ComputedPrice.String()).Msg("precio persistido")
	return &resp, nil
}
