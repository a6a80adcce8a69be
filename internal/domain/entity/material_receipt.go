package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialReceipt entrada (compra) de material. Inmutable después de creada.
type MaterialReceipt struct {
	ID                string
	MaterialID        string
	QuantityAdded     decimal.Decimal
	PurchaseUnitPrice decimal.Decimal
	ReceivedAt        time.Time
	CreatedBy         string
}
