package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/application/inventory"
	"github.com/jhoicas/atelier-api/internal/application/ports"
	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	domaininv "github.com/jhoicas/atelier-api/internal/domain/inventory"
	"github.com/jhoicas/atelier-api/internal/domain/pricing"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

// MaxImageSize tamaño máximo de una imagen de producto.
const MaxImageSize = 5 << 20

// ProductUseCase casos de uso CRUD para productos. La composición se edita vía CompositionUseCase;
// el precio calculado es un caché que se refresca al cambiar la composición o persistir el precio.
type ProductUseCase struct {
	txRunner        ports.TxRunner
	repo            repository.ProductRepository
	compositionRepo repository.CompositionRepository
	saleRepo        repository.SaleRepository
	composition     *inventory.CompositionUseCase
	images          ports.ImageStore // nil = almacenamiento deshabilitado
	defaults        CatalogDefaults
	log             zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner ports.TxRunner,
	repo repository.ProductRepository,
	compositionRepo repository.CompositionRepository,
	saleRepo repository.SaleRepository,
	composition *inventory.CompositionUseCase,
	images ports.ImageStore,
	defaults CatalogDefaults,
	log zerolog.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:        txRunner,
		repo:            repo,
		compositionRepo: compositionRepo,
		saleRepo:        saleRepo,
		composition:     composition,
		images:          images,
		defaults:        defaults,
		log:             log,
	}
}

// Create crea un producto con su composición inicial en una sola transacción.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductDetailResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return nil, domain.ErrInvalidInput
	}
	rate := uc.defaults.LaborRate
	if in.LaborRate != nil {
		rate = *in.LaborRate
	}
	margin := uc.defaults.MarginPercent
	if in.MarginPercent != nil {
		margin = *in.MarginPercent
	}
	if err := validatePricingFields(in.LaborTime, rate, margin, in.DiscountAmount); err != nil {
		return nil, err
	}
	if err := inventory.ValidateItems(in.Composition); err != nil {
		return nil, err
	}
	for _, it := range in.Composition {
		if it.ID != "" {
			return nil, fmt.Errorf("%w: un producto nuevo no tiene líneas existentes", domain.ErrInvalidInput)
		}
	}

	now := time.Now()
	p := &entity.Product{
		ID:             uuid.New().String(),
		Name:           name,
		Description:    in.Description,
		LaborTime:      in.LaborTime,
		LaborRate:      rate,
		MarginPercent:  margin,
		DiscountAmount: in.DiscountAmount,
		ComputedPrice:  decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	var res *inventory.CompositionResult
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		var err error
		res, err = uc.composition.ApplyInTx(ctx, repos, p, userID, in.Composition)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.composition.RecordEvents(p.ID, res.Events)
	uc.log.Info().Str("product_id", p.ID).Str("computed_price", p.ComputedPrice.String()).Msg("producto creado")

	detail := buildDetail(p, res.Lines, false)
	detail.Warnings = res.Warnings
	return &detail, nil
}

// GetByID obtiene un producto con su composición y el desglose de precio calculado en vivo.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductDetailResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	lines, err := uc.compositionRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	sold, err := uc.saleRepo.SoldProductIDs(ctx)
	if err != nil {
		return nil, err
	}
	detail := buildDetail(p, lines, sold[p.ID])
	return &detail, nil
}

// Update actualiza datos y parámetros de precio. No toca composición ni precio calculado:
// el caché se refresca con POST /pricing/persist o al editar la composición.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || len(name) > 100 {
			return nil, domain.ErrInvalidInput
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.LaborTime != nil {
		p.LaborTime = *in.LaborTime
	}
	if in.LaborRate != nil {
		p.LaborRate = *in.LaborRate
	}
	if in.MarginPercent != nil {
		p.MarginPercent = *in.MarginPercent
	}
	if in.DiscountAmount != nil {
		p.DiscountAmount = *in.DiscountAmount
	}
	if err := validatePricingFields(p.LaborTime, p.LaborRate, p.MarginPercent, p.DiscountAmount); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	sold, err := uc.saleRepo.SoldProductIDs(ctx)
	if err != nil {
		return nil, err
	}
	resp := dto.FromProduct(p, sold[p.ID])
	return &resp, nil
}

// List lista productos con paginación, marcando los vendidos.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	sold, err := uc.saleRepo.SoldProductIDs(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.FromProduct(p, sold[p.ID]))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto no vendido devolviendo al stock todo lo consumido por su composición.
// Un producto con ventas registradas no se elimina (ErrConflict).
func (uc *ProductUseCase) Delete(ctx context.Context, userID, id string) error {
	var events []domaininv.StockEvent
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		p, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		sales, err := repos.Sales.List(ctx, repository.SaleFilter{ProductID: id, Limit: 1})
		if err != nil {
			return err
		}
		if len(sales) > 0 {
			return fmt.Errorf("%w: el producto tiene ventas registradas", domain.ErrConflict)
		}
		events, err = uc.composition.ReleaseInTx(ctx, repos, id, userID)
		if err != nil {
			return err
		}
		return repos.Products.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.composition.RecordEvents(id, events)
	uc.log.Info().Str("product_id", id).Int("lines_released", len(events)).Msg("producto eliminado")
	return nil
}

// UploadImage guarda una imagen del producto en el almacenamiento y registra su clave.
func (uc *ProductUseCase) UploadImage(ctx context.Context, id, slot, filename string, r io.Reader, size int64, contentType string) (*dto.ProductResponse, error) {
	if uc.images == nil {
		return nil, domain.ErrStorageDisabled
	}
	if !entity.ValidImageSlot(slot) {
		return nil, domain.ErrInvalidInput
	}
	if size <= 0 || size > MaxImageSize || !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: imagen inválida", domain.ErrInvalidInput)
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	key := fmt.Sprintf("products/%s/%s%s", id, slot, strings.ToLower(path.Ext(filename)))
	if err := uc.images.Put(ctx, key, r, size, contentType); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateImage(ctx, id, slot, key); err != nil {
		return nil, err
	}
	switch slot {
	case entity.ImageFront:
		p.ImageFront = key
	case entity.ImageSide:
		p.ImageSide = key
	case entity.ImageBack:
		p.ImageBack = key
	}
	uc.log.Info().Str("product_id", id).Str("slot", slot).Str("key", key).Msg("imagen de producto guardada")
	sold, err := uc.saleRepo.SoldProductIDs(ctx)
	if err != nil {
		return nil, err
	}
	resp := dto.FromProduct(p, sold[id])
	return &resp, nil
}

// GetImage devuelve el contenido de una imagen del producto. El caller cierra el reader.
func (uc *ProductUseCase) GetImage(ctx context.Context, id, slot string) (io.ReadCloser, string, error) {
	if uc.images == nil {
		return nil, "", domain.ErrStorageDisabled
	}
	if !entity.ValidImageSlot(slot) {
		return nil, "", domain.ErrInvalidInput
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if p == nil || p.ImageKey(slot) == "" {
		return nil, "", domain.ErrNotFound
	}
	return uc.images.Get(ctx, p.ImageKey(slot))
}

func validatePricingFields(t entity.LaborTime, rate, margin, discount decimal.Decimal) error {
	if !t.Valid() {
		return fmt.Errorf("%w: tiempo de trabajo inválido", domain.ErrInvalidInput)
	}
	if rate.LessThan(decimal.Zero) || discount.LessThan(decimal.Zero) {
		return domain.ErrInvalidPrice
	}
	if margin.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: margen negativo", domain.ErrInvalidInput)
	}
	if err := domain.CheckScale("labor_rate", rate, domain.MoneyScale); err != nil {
		return err
	}
	if err := domain.CheckScale("margin_percent", margin, domain.MoneyScale); err != nil {
		return err
	}
	return domain.CheckScale("discount_amount", discount, domain.MoneyScale)
}

func buildDetail(p *entity.Product, lines []*entity.CompositionLine, sold bool) dto.ProductDetailResponse {
	b := pricing.Compute(pricing.InputsFor(p, lines))
	return dto.ProductDetailResponse{
		ProductResponse: dto.FromProduct(p, sold),
		Composition:     dto.FromCompositionLines(lines),
		Pricing:         dto.FromBreakdown(p, b),
	}
}
