package usecase

import "github.com/shopspring/decimal"

// CatalogDefaults valores aplicados cuando el alta de material o producto no los indica.
type CatalogDefaults struct {
	LaborRate     decimal.Decimal
	MarginPercent decimal.Decimal
	MinimumStock  decimal.Decimal
}
