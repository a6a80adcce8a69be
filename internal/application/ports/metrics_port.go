package ports

import "github.com/shopspring/decimal"

// Metrics puerto de salida para métricas de negocio. El adaptador vive en infrastructure/metrics.
type Metrics interface {
	MaterialReceived(unit string, quantity decimal.Decimal)
	StockWentNegative(materialID string)
	CompositionChanged(kind string)
	SaleRecorded(paymentMethod string, amount decimal.Decimal)
}

// NopMetrics descarta todas las métricas (tests, CLI).
type NopMetrics struct{}

func (NopMetrics) MaterialReceived(string, decimal.Decimal) {}
func (NopMetrics) StockWentNegative(string)                 {}
func (NopMetrics) CompositionChanged(string)                {}
func (NopMetrics) SaleRecorded(string, decimal.Decimal)     {}
