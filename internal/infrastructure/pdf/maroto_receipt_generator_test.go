package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/atelier-api/internal/application/sales"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

func TestGenerateReceiptPDF(t *testing.T) {
	g := NewMarotoReceiptGenerator()
	data := sales.ReceiptData{
		ShopName: "Ateliê Linho",
		Currency: "BRL",
		Sale: &entity.Sale{
			ID:            "0f8fad5b-d9cb-469f-a165-70867728950e",
			SaleDate:      time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
			SaleAmount:    decimal.RequireFromString("106.00"),
			PaymentMethod: entity.PaymentPIX,
			Notes:         "Embrulhar para presente",
		},
		Product: &entity.Product{Name: "Bolsa de linho"},
		Client:  &entity.Client{Name: "Ana", Phone: "51999998888"},
		Link:    "https://wa.me/5551999998888?text=Ol%C3%A1",
	}

	out, err := g.GenerateReceiptPDF(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateReceiptPDF_WithoutClient(t *testing.T) {
	g := NewMarotoReceiptGenerator()
	out, err := g.GenerateReceiptPDF(context.Background(), sales.ReceiptData{
		Sale:    &entity.Sale{ID: "abc", SaleAmount: decimal.NewFromInt(10), PaymentMethod: entity.PaymentCash},
		Product: &entity.Product{Name: "Chaveiro"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateReceiptPDF_MissingSale(t *testing.T) {
	_, err := NewMarotoReceiptGenerator().GenerateReceiptPDF(context.Background(), sales.ReceiptData{})
	assert.Error(t, err)
}

func TestPaymentLabel(t *testing.T) {
	assert.Equal(t, "Dinheiro", paymentLabel(entity.PaymentCash))
	assert.Equal(t, "OTHER", paymentLabel(entity.PaymentMethod("OTHER")))
}
