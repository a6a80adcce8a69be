package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/application/ports"
	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

// MaterialUseCase casos de uso CRUD para materiales. Stock y precio unitario se manejan
// vía entradas de material y composición de productos.
type MaterialUseCase struct {
	txRunner     ports.TxRunner
	repo         repository.MaterialRepository
	categoryRepo repository.CategoryRepository
	defaults     CatalogDefaults
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(txRunner ports.TxRunner, repo repository.MaterialRepository, categoryRepo repository.CategoryRepository, defaults CatalogDefaults) *MaterialUseCase {
	return &MaterialUseCase{txRunner: txRunner, repo: repo, categoryRepo: categoryRepo, defaults: defaults}
}

// Create crea un material. Un stock inicial distinto de cero queda registrado como movimiento INITIAL.
func (uc *MaterialUseCase) Create(ctx context.Context, userID string, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return nil, domain.ErrInvalidInput
	}
	unit := entity.UnitOfMeasure(in.UnitOfMeasure)
	if !unit.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidPrice
	}
	if in.StockQuantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	minimum := uc.defaults.MinimumStock
	if in.MinimumStock != nil {
		if in.MinimumStock.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		minimum = *in.MinimumStock
	}
	if err := checkMaterialScales(&in.UnitPrice, &in.StockQuantity, &minimum); err != nil {
		return nil, err
	}
	if in.CategoryID != nil && *in.CategoryID == "" {
		in.CategoryID = nil
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	m := &entity.Material{
		ID:            uuid.New().String(),
		CategoryID:    in.CategoryID,
		Name:          name,
		UnitOfMeasure: unit,
		UnitPrice:     in.UnitPrice,
		StockQuantity: in.StockQuantity,
		MinimumStock:  minimum,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		if err := repos.Materials.Create(ctx, m); err != nil {
			return err
		}
		if m.StockQuantity.IsZero() {
			return nil
		}
		return repos.Movements.Create(ctx, &entity.StockMovement{
			ID:          uuid.New().String(),
			MaterialID:  m.ID,
			Kind:        entity.MovementInitial,
			Quantity:    m.StockQuantity,
			StockBefore: decimal.Zero,
			StockAfter:  m.StockQuantity,
			ReferenceID: m.ID,
			CreatedAt:   now,
			CreatedBy:   userID,
		})
	})
	if err != nil {
		return nil, err
	}
	resp := dto.FromMaterial(m)
	return &resp, nil
}

// GetByID obtiene un material por ID.
func (uc *MaterialUseCase) GetByID(ctx context.Context, id string) (*dto.MaterialResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	resp := dto.FromMaterial(m)
	return &resp, nil
}

// Update actualiza los datos descriptivos de un material. El precio unitario puede corregirse
// manualmente; el stock no.
func (uc *MaterialUseCase) Update(ctx context.Context, id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	if in.UnitPrice != nil && in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidPrice
	}
	if err := checkMaterialScales(in.UnitPrice, nil, in.MinimumStock); err != nil {
		return nil, err
	}
	var out *entity.Material
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		m, err := repos.Materials.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return nil
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" || len(name) > 100 {
				return domain.ErrInvalidInput
			}
			m.Name = name
		}
		if in.UnitOfMeasure != nil {
			unit := entity.UnitOfMeasure(*in.UnitOfMeasure)
			if !unit.Valid() {
				return domain.ErrInvalidInput
			}
			m.UnitOfMeasure = unit
		}
		if in.CategoryID != nil {
			if *in.CategoryID == "" {
				m.CategoryID = nil
			} else {
				if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
					return err
				}
				m.CategoryID = in.CategoryID
			}
		}
		if in.MinimumStock != nil {
			if in.MinimumStock.LessThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			m.MinimumStock = *in.MinimumStock
		}
		m.UpdatedAt = time.Now()
		if err := repos.Materials.Update(ctx, m); err != nil {
			return err
		}
		if in.UnitPrice != nil {
			m.UnitPrice = *in.UnitPrice
			if err := repos.Materials.UpdateLedger(ctx, m); err != nil {
				return err
			}
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	resp := dto.FromMaterial(out)
	return &resp, nil
}

// List lista materiales. selectable=true limita a materiales con stock > 0 (los únicos que
// pueden agregarse a una composición nueva).
func (uc *MaterialUseCase) List(ctx context.Context, categoryID string, selectable bool, page dto.PageRequest) (*dto.MaterialListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.MaterialFilter{
		CategoryID:  categoryID,
		InStockOnly: selectable,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.MaterialListResponse{
		Items: dto.FromMaterials(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un material. Si alguna composición lo referencia el repositorio devuelve ErrConflict.
func (uc *MaterialUseCase) Delete(ctx context.Context, id string) error {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *MaterialUseCase) checkCategory(ctx context.Context, categoryID *string) error {
	if categoryID == nil || *categoryID == "" {
		return nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, *categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return nil
}

// checkMaterialScales valida los decimales de los campos presentes contra sus columnas.
func checkMaterialScales(unitPrice, stock, minimum *decimal.Decimal) error {
	if unitPrice != nil {
		if err := domain.CheckScale("unit_price", *unitPrice, domain.PriceScale); err != nil {
			return err
		}
	}
	if stock != nil {
		if err := domain.CheckScale("stock_quantity", *stock, domain.QuantityScale); err != nil {
			return err
		}
	}
	if minimum != nil {
		return domain.CheckScale("minimum_stock", *minimum, domain.QuantityScale)
	}
	return nil
}
