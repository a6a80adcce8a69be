package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest entrada para crear una categoría de material.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMaterialRequest entrada para crear un material. StockQuantity es el stock inicial.
type CreateMaterialRequest struct {
	Name          string           `json:"name" validate:"required,min=1,max=100"`
	CategoryID    *string          `json:"category_id"`
	UnitOfMeasure string           `json:"unit_of_measure" validate:"required,oneof=meter unit roll kilo gram"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	StockQuantity decimal.Decimal  `json:"stock_quantity"`
	MinimumStock  *decimal.Decimal `json:"minimum_stock"`
}

// UpdateMaterialRequest entrada para actualizar un material (sin stock: se maneja vía entradas y composición).
type UpdateMaterialRequest struct {
	Name          *string          `json:"name"`
	CategoryID    *string          `json:"category_id"`
	UnitOfMeasure *string          `json:"unit_of_measure"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	MinimumStock  *decimal.Decimal `json:"minimum_stock"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CategoryID    *string         `json:"category_id,omitempty"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	NeedsRestock  bool            `json:"needs_restock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MaterialListResponse lista paginada de materiales.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReceiveMaterialRequest body para POST /api/materials/:id/receipts.
type ReceiveMaterialRequest struct {
	QuantityAdded     decimal.Decimal `json:"quantity_added"`
	PurchaseUnitPrice decimal.Decimal `json:"purchase_unit_price"`
}

// MaterialReceiptResponse salida de una entrada de material, con el estado resultante del material.
type MaterialReceiptResponse struct {
	ID                string            `json:"id"`
	MaterialID        string            `json:"material_id"`
	QuantityAdded     decimal.Decimal   `json:"quantity_added"`
	PurchaseUnitPrice decimal.Decimal   `json:"purchase_unit_price"`
	ReceivedAt        time.Time         `json:"received_at"`
	Material          *MaterialResponse `json:"material,omitempty"`
}

// StockMovementResponse salida de un movimiento de stock.
type StockMovementResponse struct {
	ID          string          `json:"id"`
	MaterialID  string          `json:"material_id"`
	ProductID   *string         `json:"product_id,omitempty"`
	Kind        string          `json:"kind"`
	Quantity    decimal.Decimal `json:"quantity"`
	StockBefore decimal.Decimal `json:"stock_before"`
	StockAfter  decimal.Decimal `json:"stock_after"`
	ReferenceID string          `json:"reference_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StockWarning aviso de stock negativo tras una operación (no es error).
type StockWarning struct {
	MaterialID    string          `json:"material_id"`
	MaterialName  string          `json:"material_name"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un material en o bajo su mínimo.
type ReplenishmentSuggestionDTO struct {
	MaterialID         string          `json:"material_id"`
	MaterialName       string          `json:"material_name"`
	UnitOfMeasure      string          `json:"unit_of_measure"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	MinimumStock       decimal.Decimal `json:"minimum_stock"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // MinimumStock * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitPrice          decimal.Decimal `json:"unit_price"`           // precio de la última compra
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitPrice
	Priority           int             `json:"priority"`             // 1 = más urgente
}
