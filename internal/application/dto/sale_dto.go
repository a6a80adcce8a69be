package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordSaleRequest body para POST /api/products/:id/sales.
// SaleAmount nil = precio sugerido redondeado a 2 decimales al momento de la venta.
type RecordSaleRequest struct {
	ClientID      *string          `json:"client_id"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=PIX CREDIT DEBIT CASH"`
	SaleAmount    *decimal.Decimal `json:"sale_amount"`
	Notes         string           `json:"notes"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name,omitempty"`
	ClientID      *string         `json:"client_id,omitempty"`
	ClientName    string          `json:"client_name,omitempty"`
	SaleDate      time.Time       `json:"sale_date"`
	SaleAmount    decimal.Decimal `json:"sale_amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	Status        string          `json:"status"`
	WhatsAppLink  string          `json:"whatsapp_link,omitempty"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateClientRequest entrada para crear un cliente.
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=150"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// UpdateClientRequest entrada para actualizar un cliente.
type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	PhoneFormatted string    `json:"phone_formatted,omitempty"`
	Email          string    `json:"email,omitempty"`
	Address        string    `json:"address,omitempty"`
	RegisteredAt   time.Time `json:"registered_at"`
}
