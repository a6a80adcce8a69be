package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/atelier-api/internal/application/sales"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

func TestExportSales(t *testing.T) {
	day := time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)
	rows := []sales.SaleRow{
		{
			Sale:        &entity.Sale{SaleDate: day, SaleAmount: decimal.RequireFromString("106.00"), PaymentMethod: entity.PaymentPIX},
			ProductName: "Bolsa de linho",
			ClientName:  "Ana",
		},
		{
			Sale:        &entity.Sale{SaleDate: day, SaleAmount: decimal.RequireFromString("44.50"), PaymentMethod: entity.PaymentCash, Notes: "retirada"},
			ProductName: "Chaveiro",
		},
	}

	data, err := NewExcelSalesExporter().ExportSales(context.Background(), "BRL", rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Produto", header)

	product, _ := f.GetCellValue(sheetName, "B2")
	assert.Equal(t, "Bolsa de linho", product)
	method, _ := f.GetCellValue(sheetName, "D3")
	assert.Equal(t, "CASH", method)
	text, _ := f.GetCellValue(sheetName, "F2")
	assert.Contains(t, text, "106,00")

	total, _ := f.GetCellValue(sheetName, "F5")
	assert.Contains(t, total, "150,50")
}

func TestExportSales_Empty(t *testing.T) {
	data, err := NewExcelSalesExporter().ExportSales(context.Background(), "BRL", nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	label, _ := f.GetCellValue(sheetName, "B3")
	assert.Equal(t, "0 vendas", label)
}
