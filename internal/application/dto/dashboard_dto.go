package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
type DashboardSummaryDTO struct {
	// Σ stock * precio unitario de todos los materiales
	StockValue decimal.Decimal `json:"stock_value"`
	// Σ precio sugerido de productos aún no vendidos
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`
	// Σ lucro neto de productos aún no vendidos
	EstimatedProfit decimal.Decimal `json:"estimated_profit"`

	AvailableProducts int `json:"available_products"`
	SoldProducts      int `json:"sold_products"`

	RestockAlerts []MaterialResponse `json:"restock_alerts"`
	RecentSales   []SaleResponse     `json:"recent_sales"`
}
