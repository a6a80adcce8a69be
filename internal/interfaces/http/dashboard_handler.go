package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/atelier-api/internal/application/analytics"
)

// DashboardHandler maneja el resumen del taller.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen del taller.
// GET /api/dashboard
//
// Respuesta: DashboardSummaryDTO (stock_value, potential_revenue, estimated_profit,
// available_products, sold_products, restock_alerts, recent_sales[5]).
// Valor potencial y ganancia estimada se calculan solo sobre productos no vendidos.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
