package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/atelier-api/internal/application/inventory"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/testutil"
)

func TestGenerateReplenishmentList(t *testing.T) {
	store := testutil.NewStore()
	// Linho: ideal 3, falta 3 (ratio 1) · Fita: ideal 15, falta 7 (ratio 0.466) · Botão: sobre el mínimo
	store.AddMaterial(entity.Material{ID: "m1", Name: "Linho", UnitPrice: d("45"), StockQuantity: d("0"), MinimumStock: d("2")})
	store.AddMaterial(entity.Material{ID: "m2", Name: "Fita de Cetim", UnitPrice: d("2.50"), StockQuantity: d("8"), MinimumStock: d("10")})
	store.AddMaterial(entity.Material{ID: "m3", Name: "Botão de Pérola", UnitPrice: d("1"), StockQuantity: d("50"), MinimumStock: d("10")})

	list, err := inventory.NewReplenishmentUseCase(store.Materials()).GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "m1", list[0].MaterialID)
	assert.Equal(t, 1, list[0].Priority)
	assertDec(t, "3", list[0].IdealStock)
	assertDec(t, "3", list[0].SuggestedOrderQty)
	assertDec(t, "135", list[0].EstimatedOrderCost)

	assert.Equal(t, "m2", list[1].MaterialID)
	assert.Equal(t, 2, list[1].Priority)
	assertDec(t, "7", list[1].SuggestedOrderQty)
	assertDec(t, "17.5", list[1].EstimatedOrderCost)
}

func TestGenerateReplenishmentList_StockNegativoSumaAlPedido(t *testing.T) {
	store := testutil.NewStore()
	store.AddMaterial(entity.Material{ID: "m1", Name: "Linho", UnitPrice: d("10"), StockQuantity: d("-2"), MinimumStock: d("2")})

	list, err := inventory.NewReplenishmentUseCase(store.Materials()).GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assertDec(t, "5", list[0].SuggestedOrderQty)
}

func TestGenerateReplenishmentList_Vacia(t *testing.T) {
	list, err := inventory.NewReplenishmentUseCase(testutil.NewStore().Materials()).GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
