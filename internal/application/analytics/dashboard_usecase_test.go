package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/atelier-api/internal/application/analytics"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/testutil"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGetSummary(t *testing.T) {
	store := testutil.NewStore()
	store.AddMaterial(entity.Material{ID: "m1", Name: "Linho", UnitPrice: d("10.00"), StockQuantity: d("8"), MinimumStock: d("2")})
	store.AddMaterial(entity.Material{ID: "m2", Name: "Fita de Cetim", UnitPrice: d("2.50"), StockQuantity: d("1"), MinimumStock: d("5")})

	ref := entity.Product{
		LaborTime:      entity.LaborTime{Hours: 4, Minutes: 30},
		LaborRate:      d("12.00"),
		MarginPercent:  d("50"),
		DiscountAmount: d("5.00"),
	}
	available := ref
	available.ID, available.Name = "p1", "Bolsa de Linho"
	sold := ref
	sold.ID, sold.Name = "p2", "Necessaire"
	store.AddProduct(available)
	store.AddProduct(sold)
	store.AddItem(entity.CompositionItem{ID: "i1", ProductID: "p1", MaterialID: "m1", QuantityUsed: d("2")})
	store.AddItem(entity.CompositionItem{ID: "i2", ProductID: "p2", MaterialID: "m1", QuantityUsed: d("2")})

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		store.AddSale(entity.Sale{
			ID:            string(rune('a' + i)),
			ProductID:     "p2",
			SaleDate:      base.Add(time.Duration(i) * time.Hour),
			SaleAmount:    d("106"),
			PaymentMethod: entity.PaymentPIX,
		})
	}

	uc := analytics.NewDashboardUseCase(store.Analytics(), store.Materials(), store.Sales())
	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.True(t, out.StockValue.Equal(d("82.5")), "obtenido %s", out.StockValue)
	assert.Equal(t, 1, out.AvailableProducts)
	assert.Equal(t, 1, out.SoldProducts)
	assert.True(t, out.PotentialRevenue.Equal(d("106")), "obtenido %s", out.PotentialRevenue)
	assert.True(t, out.EstimatedProfit.Equal(d("32")), "obtenido %s", out.EstimatedProfit)

	require.Len(t, out.RestockAlerts, 1)
	assert.Equal(t, "m2", out.RestockAlerts[0].ID)

	require.Len(t, out.RecentSales, 5)
	assert.Equal(t, "g", out.RecentSales[0].ID)
	assert.Equal(t, "Necessaire", out.RecentSales[0].ProductName)
}

func TestGetSummary_Vacio(t *testing.T) {
	store := testutil.NewStore()
	uc := analytics.NewDashboardUseCase(store.Analytics(), store.Materials(), store.Sales())

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, out.StockValue.IsZero())
	assert.True(t, out.PotentialRevenue.IsZero())
	assert.NotNil(t, out.RecentSales)
	assert.Empty(t, out.RestockAlerts)
}
