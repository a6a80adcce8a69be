package sales

import (
	"context"

	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

// ReceiptData datos necesarios para generar el recibo de una venta.
type ReceiptData struct {
	ShopName string
	Currency string
	Sale     *entity.Sale
	Product  *entity.Product
	Client   *entity.Client // nil si la venta no tiene cliente
	Link     string         // enlace de WhatsApp; vacío sin teléfono
}

// ReceiptPDFGenerator puerto de salida para generar el PDF de un recibo. La implementación vive en infrastructure/pdf.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, data ReceiptData) ([]byte, error)
}

// SaleRow venta con los nombres resueltos, para exportación.
type SaleRow struct {
	Sale        *entity.Sale
	ProductName string
	ClientName  string
}

// SalesExporter puerto de salida para exportar ventas a planilla. La implementación vive en infrastructure/export.
type SalesExporter interface {
	ExportSales(ctx context.Context, currency string, rows []SaleRow) ([]byte, error)
}
