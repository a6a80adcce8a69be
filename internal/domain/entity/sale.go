package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod forma de pago de una venta.
type PaymentMethod string

// Formas de pago admitidas.
const (
	PaymentPIX    PaymentMethod = "PIX"
	PaymentCredit PaymentMethod = "CREDIT"
	PaymentDebit  PaymentMethod = "DEBIT"
	PaymentCash   PaymentMethod = "CASH"
)

// Valid indica si la forma de pago es admitida.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentPIX, PaymentCredit, PaymentDebit, PaymentCash:
		return true
	}
	return false
}

// SaleStatusRecorded único estado de una venta; no hay anulación ni devolución.
const SaleStatusRecorded = "RECORDED"

// Sale venta de un producto. SaleAmount queda fijo al momento de la venta.
type Sale struct {
	ID            string
	ProductID     string
	ClientID      *string
	SaleDate      time.Time
	SaleAmount    decimal.Decimal
	PaymentMethod PaymentMethod
	Notes         string
	CreatedBy     string
}
