package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto. Los campos nil toman los valores por defecto de configuración.
type CreateProductRequest struct {
	Name           string                 `json:"name" validate:"required,min=1,max=100"`
	Description    string                 `json:"description"`
	LaborTime      entity.LaborTime       `json:"labor_time"` // "HH:MM"
	LaborRate      *decimal.Decimal       `json:"labor_rate"`
	MarginPercent  *decimal.Decimal       `json:"margin_percent"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	Composition    []CompositionItemInput `json:"composition"`
}

// UpdateProductRequest entrada para actualizar un producto (sin composición ni precio calculado).
type UpdateProductRequest struct {
	Name           *string           `json:"name"`
	Description    *string           `json:"description"`
	LaborTime      *entity.LaborTime `json:"labor_time"`
	LaborRate      *decimal.Decimal  `json:"labor_rate"`
	MarginPercent  *decimal.Decimal  `json:"margin_percent"`
	DiscountAmount *decimal.Decimal  `json:"discount_amount"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	LaborTime      entity.LaborTime  `json:"labor_time"`
	LaborRate      decimal.Decimal   `json:"labor_rate"`
	MarginPercent  decimal.Decimal   `json:"margin_percent"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	ComputedPrice  decimal.Decimal   `json:"computed_price"`
	Images         map[string]string `json:"images,omitempty"`
	Sold           bool              `json:"sold"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductDetailResponse producto con su composición y desglose de precio.
type ProductDetailResponse struct {
	ProductResponse
	Composition []CompositionLineResponse `json:"composition"`
	Pricing     PricingResponse           `json:"pricing"`
	Warnings    []StockWarning            `json:"warnings,omitempty"`
}

// CompositionItemInput línea de la receta. ID vacío = línea nueva; ID existente = edición de cantidad.
type CompositionItemInput struct {
	ID           string          `json:"id,omitempty"`
	MaterialID   string          `json:"material_id"`
	QuantityUsed decimal.Decimal `json:"quantity_used"`
}

// SetCompositionRequest body para PUT /api/products/:id/composition. Reemplaza la receta completa.
type SetCompositionRequest struct {
	Items []CompositionItemInput `json:"items"`
}

// CompositionLineResponse salida de una línea de composición.
type CompositionLineResponse struct {
	ID            string          `json:"id"`
	MaterialID    string          `json:"material_id"`
	MaterialName  string          `json:"material_name"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	QuantityUsed  decimal.Decimal `json:"quantity_used"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// CompositionResponse salida de PUT /api/products/:id/composition.
type CompositionResponse struct {
	ProductID    string                    `json:"product_id"`
	Items        []CompositionLineResponse `json:"items"`
	MaterialCost decimal.Decimal           `json:"material_cost"`
	Warnings     []StockWarning            `json:"warnings,omitempty"`
}

// PricingResponse desglose del precio sugerido de un producto.
type PricingResponse struct {
	ProductID      string          `json:"product_id"`
	MaterialCost   decimal.Decimal `json:"material_cost"`
	LaborHours     decimal.Decimal `json:"labor_hours"`
	LaborCost      decimal.Decimal `json:"labor_cost"`
	BaseCost       decimal.Decimal `json:"base_cost"`
	MarginPercent  decimal.Decimal `json:"margin_percent"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
	NetProfit      decimal.Decimal `json:"net_profit"`
	ComputedPrice  decimal.Decimal `json:"computed_price"` // caché persistido
}
