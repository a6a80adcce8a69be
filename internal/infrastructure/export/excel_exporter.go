// Package export genera planillas XLSX de ventas.
package export

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/atelier-api/internal/application/sales"
	"github.com/jhoicas/atelier-api/pkg/format"
)

const sheetName = "Vendas"

var salesHeaders = []string{"Data", "Produto", "Cliente", "Pagamento", "Valor", "Valor (texto)", "Observações"}

var colWidths = []float64{18, 30, 24, 12, 14, 16, 40}

// ExcelSalesExporter implementa sales.SalesExporter con excelize.
type ExcelSalesExporter struct{}

// NewExcelSalesExporter construye el exportador.
func NewExcelSalesExporter() *ExcelSalesExporter { return &ExcelSalesExporter{} }

// ExportSales escribe una fila por venta y una fila final con el total.
func (e *ExcelSalesExporter) ExportSales(_ context.Context, currency string, rows []sales.SaleRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("export: hoja: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#EADFD3"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("export: estilo: %w", err)
	}
	moneyFmt := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, fmt.Errorf("export: estilo: %w", err)
	}

	for i, h := range salesHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, boldStyle)
	}

	total := decimal.Zero
	for i, r := range rows {
		row := i + 2
		s := r.Sale
		total = total.Add(s.SaleAmount)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), s.SaleDate.Format("02/01/2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.ProductName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.ClientName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), string(s.PaymentMethod))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), s.SaleAmount.InexactFloat64())
		_ = f.SetCellStyle(sheetName, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), moneyStyle)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), format.Currency(s.SaleAmount, currency))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), s.Notes)
	}

	// Fila de totales
	totalRow := len(rows) + 3
	_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalRow), "Total")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", totalRow), fmt.Sprintf("%d vendas", len(rows)))
	_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", totalRow), total.InexactFloat64())
	_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", totalRow), format.Currency(total, currency))
	_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("G%d", totalRow), boldStyle)

	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, col, col, w)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
