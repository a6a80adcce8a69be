// Package metrics expone métricas Prometheus del taller y del servidor HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "atelier"

// Metrics implementa ports.Metrics sobre un registry propio (varias instancias en tests no colisionan).
type Metrics struct {
	Registry *prometheus.Registry

	receivedQty      *prometheus.CounterVec
	receipts         *prometheus.CounterVec
	negativeStock    *prometheus.CounterVec
	compositionEdits *prometheus.CounterVec
	sales            *prometheus.CounterVec
	salesAmount      *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
}

// New registra todas las métricas en un registry nuevo, junto con los collectors de Go y del proceso.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		receipts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "material_receipts_total",
				Help:      "Entradas de material registradas.",
			},
			[]string{"unit"},
		),
		receivedQty: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "material_received_quantity_total",
				Help:      "Cantidad de material ingresada, por unidad de medida.",
			},
			[]string{"unit"},
		),
		negativeStock: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stock_negative_total",
				Help:      "Veces que un material quedó con stock negativo.",
			},
			[]string{"material_id"},
		),
		compositionEdits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "composition_events_total",
				Help:      "Eventos de composición procesados, por tipo.",
			},
			[]string{"kind"},
		),
		sales: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sales_total",
				Help:      "Ventas registradas, por forma de pago.",
			},
			[]string{"payment_method"},
		),
		salesAmount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sales_amount_total",
				Help:      "Monto vendido acumulado, por forma de pago.",
			},
			[]string{"payment_method"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duración de las peticiones HTTP.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Peticiones HTTP por ruta y código.",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// MaterialReceived cuenta una entrada de material.
func (m *Metrics) MaterialReceived(unit string, quantity decimal.Decimal) {
	m.receipts.WithLabelValues(unit).Inc()
	m.receivedQty.WithLabelValues(unit).Add(quantity.InexactFloat64())
}

// StockWentNegative cuenta un material que quedó bajo cero.
func (m *Metrics) StockWentNegative(materialID string) {
	m.negativeStock.WithLabelValues(materialID).Inc()
}

// CompositionChanged cuenta un evento de composición (added, removed, quantity_changed).
func (m *Metrics) CompositionChanged(kind string) {
	m.compositionEdits.WithLabelValues(kind).Inc()
}

// SaleRecorded cuenta una venta y acumula su monto.
func (m *Metrics) SaleRecorded(paymentMethod string, amount decimal.Decimal) {
	m.sales.WithLabelValues(paymentMethod).Inc()
	m.salesAmount.WithLabelValues(paymentMethod).Add(amount.InexactFloat64())
}

// Middleware mide duración y código de cada petición. Usa la ruta registrada (no la URL) como label.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		return err
	}
}

// Handler expone el registry en formato Prometheus para GET /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
