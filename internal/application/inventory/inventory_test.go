package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/application/inventory"
	"github.com/jhoicas/atelier-api/internal/application/ports"
	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	domaininv "github.com/jhoicas/atelier-api/internal/domain/inventory"
	"github.com/jhoicas/atelier-api/internal/testutil"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), "esperado %s, obtenido %s", want, got)
}

type recordingMetrics struct {
	received    int
	negative    []string
	composition []string
}

func (m *recordingMetrics) MaterialReceived(string, decimal.Decimal) { m.received++ }
func (m *recordingMetrics) StockWentNegative(id string)              { m.negative = append(m.negative, id) }
func (m *recordingMetrics) CompositionChanged(kind string) {
	m.composition = append(m.composition, kind)
}
func (m *recordingMetrics) SaleRecorded(string, decimal.Decimal) {}

func newLedger(store *testutil.Store, policy domaininv.CostingPolicy, metrics *recordingMetrics) *inventory.LedgerUseCase {
	return inventory.NewLedgerUseCase(store, store.Materials(), store.Receipts(), store.Movements(), policy, metrics, zerolog.Nop())
}

func newComposition(store *testutil.Store, allowNegative bool, metrics *recordingMetrics) *inventory.CompositionUseCase {
	rec := inventory.NewStockReconciler(allowNegative, metrics, zerolog.Nop())
	return inventory.NewCompositionUseCase(store, rec, metrics, zerolog.Nop())
}

func seedLinho(store *testutil.Store, stock, price string) *entity.Material {
	return store.AddMaterial(entity.Material{
		ID:            "mat-linho",
		Name:          "Linho",
		UnitOfMeasure: entity.UnitMeter,
		UnitPrice:     d(price),
		StockQuantity: d(stock),
		MinimumStock:  d("2"),
	})
}

func seedProduct(store *testutil.Store) *entity.Product {
	return store.AddProduct(entity.Product{
		ID:             "prod-bolsa",
		Name:           "Bolsa de Linho",
		LaborTime:      entity.LaborTime{Hours: 4, Minutes: 30},
		LaborRate:      d("12.00"),
		MarginPercent:  d("50"),
		DiscountAmount: d("5.00"),
		CreatedAt:      time.Now(),
	})
}

// ── Ledger ───────────────────────────────────────────────────────────────────

func TestReceiveMaterial_SumaStockYUsaUltimoPrecio(t *testing.T) {
	store := testutil.NewStore()
	store.AddMaterial(entity.Material{ID: "m1", Name: "Linho", UnitOfMeasure: entity.UnitMeter, UnitPrice: d("0"), StockQuantity: d("0"), MinimumStock: d("2")})
	metrics := &recordingMetrics{}
	uc := newLedger(store, domaininv.CostingLastPrice, metrics)
	ctx := context.Background()

	_, err := uc.ReceiveMaterial(ctx, "u1", "m1", dto.ReceiveMaterialRequest{QuantityAdded: d("10"), PurchaseUnitPrice: d("45.00")})
	require.NoError(t, err)
	resp, err := uc.ReceiveMaterial(ctx, "u1", "m1", dto.ReceiveMaterialRequest{QuantityAdded: d("5"), PurchaseUnitPrice: d("50.00")})
	require.NoError(t, err)

	require.NotNil(t, resp.Material)
	assertDec(t, "15", resp.Material.StockQuantity)
	assertDec(t, "50.00", resp.Material.UnitPrice)
	assertDec(t, "5", resp.QuantityAdded)

	m := store.Material("m1")
	assertDec(t, "15", m.StockQuantity)
	assertDec(t, "50.00", m.UnitPrice)
	assert.Equal(t, 2, metrics.received)

	movs := store.MovementsOf("m1")
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementReceipt, movs[1].Kind)
	assertDec(t, "10", movs[1].StockBefore)
	assertDec(t, "15", movs[1].StockAfter)

	receipts, err := uc.ListReceipts(ctx, "m1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assertDec(t, "5", receipts[0].QuantityAdded)
}

func TestReceiveMaterial_PromedioPonderado(t *testing.T) {
	store := testutil.NewStore()
	store.AddMaterial(entity.Material{ID: "m1", Name: "Linho", UnitPrice: d("40"), StockQuantity: d("10")})
	uc := newLedger(store, domaininv.CostingWeightedAverage, &recordingMetrics{})

	_, err := uc.ReceiveMaterial(context.Background(), "u1", "m1", dto.ReceiveMaterialRequest{QuantityAdded: d("10"), PurchaseUnitPrice: d("50")})
	require.NoError(t, err)
	assertDec(t, "45", store.Material("m1").UnitPrice)
}

func TestReceiveMaterial_Validacion(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "3", "45")
	uc := newLedger(store, domaininv.CostingLastPrice, &recordingMetrics{})
	ctx := context.Background()

	cases := []dto.ReceiveMaterialRequest{
		{QuantityAdded: d("0"), PurchaseUnitPrice: d("10")},
		{QuantityAdded: d("-1"), PurchaseUnitPrice: d("10")},
		{QuantityAdded: d("1"), PurchaseUnitPrice: d("-0.01")},
		{QuantityAdded: d("0.0004"), PurchaseUnitPrice: d("10")},
		{QuantityAdded: d("1.2345"), PurchaseUnitPrice: d("10")},
		{QuantityAdded: d("1"), PurchaseUnitPrice: d("10.00001")},
	}
	for _, in := range cases {
		_, err := uc.ReceiveMaterial(ctx, "u1", "mat-linho", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	// nada cambió
	assertDec(t, "3", store.Material("mat-linho").StockQuantity)
	assert.Empty(t, store.MovementsOf("mat-linho"))
	assert.Equal(t, 0, store.TxCount)
}

func TestReceiveMaterial_PrecioCeroPermitido(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "3", "45")
	uc := newLedger(store, domaininv.CostingLastPrice, &recordingMetrics{})

	_, err := uc.ReceiveMaterial(context.Background(), "u1", "mat-linho", dto.ReceiveMaterialRequest{QuantityAdded: d("1"), PurchaseUnitPrice: d("0")})
	require.NoError(t, err)
	assertDec(t, "0", store.Material("mat-linho").UnitPrice)
}

func TestReceiveMaterial_MaterialInexistente(t *testing.T) {
	store := testutil.NewStore()
	uc := newLedger(store, domaininv.CostingLastPrice, &recordingMetrics{})

	_, err := uc.ReceiveMaterial(context.Background(), "u1", "nope", dto.ReceiveMaterialRequest{QuantityAdded: d("1"), PurchaseUnitPrice: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceiveMaterial_FallaAlGuardarMovimientoRevierte(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "3", "45")
	store.FailOn("Movements.Create", errors.New("boom"))
	uc := newLedger(store, domaininv.CostingLastPrice, &recordingMetrics{})

	_, err := uc.ReceiveMaterial(context.Background(), "u1", "mat-linho", dto.ReceiveMaterialRequest{QuantityAdded: d("10"), PurchaseUnitPrice: d("50")})
	require.Error(t, err)
	m := store.Material("mat-linho")
	assertDec(t, "3", m.StockQuantity)
	assertDec(t, "45", m.UnitPrice)
	assert.Equal(t, 1, store.Rollbacks)
}

func TestNeedsRestock(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "2", "45")
	store.AddMaterial(entity.Material{ID: "m2", Name: "Fita", StockQuantity: d("5"), MinimumStock: d("2")})
	uc := newLedger(store, domaininv.CostingLastPrice, &recordingMetrics{})
	ctx := context.Background()

	need, err := uc.NeedsRestock(ctx, "mat-linho")
	require.NoError(t, err)
	assert.True(t, need, "stock igual al mínimo necesita reposición")

	need, err = uc.NeedsRestock(ctx, "m2")
	require.NoError(t, err)
	assert.False(t, need)

	_, err = uc.NeedsRestock(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Composition ──────────────────────────────────────────────────────────────

func TestSetComposition_DescuentaStockYRefrescaPrecio(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "10", "10.00")
	seedProduct(store)
	metrics := &recordingMetrics{}
	uc := newComposition(store, true, metrics)

	resp, err := uc.SetComposition(context.Background(), "u1", "prod-bolsa", []dto.CompositionItemInput{
		{MaterialID: "mat-linho", QuantityUsed: d("2")},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assertDec(t, "20", resp.MaterialCost)
	assert.Empty(t, resp.Warnings)

	assertDec(t, "8", store.Material("mat-linho").StockQuantity)
	assertDec(t, "106", store.Product("prod-bolsa").ComputedPrice)
	assert.Equal(t, []string{string(domaininv.CompositionItemAdded)}, metrics.composition)

	movs := store.MovementsOf("mat-linho")
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementCompositionAdd, movs[0].Kind)
	assertDec(t, "-2", movs[0].Quantity)
	require.NotNil(t, movs[0].ProductID)
	assert.Equal(t, "prod-bolsa", *movs[0].ProductID)
}

func TestSetComposition_EditarQuitarYAgregar(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "10", "10.00")
	store.AddMaterial(entity.Material{ID: "mat-botao", Name: "Botão de Pérola", UnitOfMeasure: entity.UnitUnit, UnitPrice: d("1.50"), StockQuantity: d("20")})
	seedProduct(store)
	uc := newComposition(store, true, &recordingMetrics{})
	ctx := context.Background()

	first, err := uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{
		{MaterialID: "mat-linho", QuantityUsed: d("2")},
		{MaterialID: "mat-botao", QuantityUsed: d("4")},
	})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	linhoLine := first.Items[0].ID
	assertDec(t, "8", store.Material("mat-linho").StockQuantity)
	assertDec(t, "16", store.Material("mat-botao").StockQuantity)

	// linho 2 → 3.5 (Δ), botão eliminado (devuelve 4)
	_, err = uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{
		{ID: linhoLine, MaterialID: "mat-linho", QuantityUsed: d("3.5")},
	})
	require.NoError(t, err)
	assertDec(t, "6.5", store.Material("mat-linho").StockQuantity)
	assertDec(t, "20", store.Material("mat-botao").StockQuantity)

	items := store.ItemsOf("prod-bolsa")
	require.Len(t, items, 1)
	assert.Equal(t, linhoLine, items[0].ID)
	assertDec(t, "3.5", items[0].QuantityUsed)

	movs := store.MovementsOf("mat-linho")
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementCompositionEdit, movs[1].Kind)
	assertDec(t, "-1.5", movs[1].Quantity)

	// bajar la cantidad devuelve la diferencia
	_, err = uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{
		{ID: linhoLine, MaterialID: "mat-linho", QuantityUsed: d("1")},
	})
	require.NoError(t, err)
	assertDec(t, "9", store.Material("mat-linho").StockQuantity)

	// vaciar la receta devuelve todo
	resp, err := uc.SetComposition(ctx, "u1", "prod-bolsa", nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assertDec(t, "0", resp.MaterialCost)
	assertDec(t, "10", store.Material("mat-linho").StockQuantity)
}

func TestSetComposition_MismaCantidadNoGeneraMovimiento(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "10", "10.00")
	seedProduct(store)
	uc := newComposition(store, true, &recordingMetrics{})
	ctx := context.Background()

	first, err := uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{{MaterialID: "mat-linho", QuantityUsed: d("2")}})
	require.NoError(t, err)
	_, err = uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{{ID: first.Items[0].ID, MaterialID: "mat-linho", QuantityUsed: d("2.00")}})
	require.NoError(t, err)

	assert.Len(t, store.MovementsOf("mat-linho"), 1)
	assertDec(t, "8", store.Material("mat-linho").StockQuantity)
}

func TestSetComposition_MaterialSinStockNoSeOfreceEnLineaNueva(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "0", "10.00")
	seedProduct(store)
	uc := newComposition(store, true, &recordingMetrics{})

	_, err := uc.SetComposition(context.Background(), "u1", "prod-bolsa", []dto.CompositionItemInput{{MaterialID: "mat-linho", QuantityUsed: d("1")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrMaterialOutOfStock)
	assert.Empty(t, store.ItemsOf("prod-bolsa"))
}

func TestSetComposition_LineaExistenteSobreMaterialAgotadoSigueValida(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "2", "10.00")
	seedProduct(store)
	uc := newComposition(store, true, &recordingMetrics{})
	ctx := context.Background()

	first, err := uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{{MaterialID: "mat-linho", QuantityUsed: d("2")}})
	require.NoError(t, err)
	assertDec(t, "0", store.Material("mat-linho").StockQuantity)

	_, err = uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{{ID: first.Items[0].ID, MaterialID: "mat-linho", QuantityUsed: d("1")}})
	require.NoError(t, err)
	assertDec(t, "1", store.Material("mat-linho").StockQuantity)
}

func TestSetComposition_StockNegativoGeneraAviso(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "1", "10.00")
	seedProduct(store)
	metrics := &recordingMetrics{}
	uc := newComposition(store, true, metrics)

	resp, err := uc.SetComposition(context.Background(), "u1", "prod-bolsa", []dto.CompositionItemInput{{MaterialID: "mat-linho", QuantityUsed: d("3")}})
	require.NoError(t, err)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "mat-linho", resp.Warnings[0].MaterialID)
	assertDec(t, "-2", resp.Warnings[0].StockQuantity)
	assertDec(t, "-2", store.Material("mat-linho").StockQuantity)
	assert.Equal(t, []string{"mat-linho"}, metrics.negative)
}

func TestSetComposition_StockNegativoNoPermitido(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "1", "10.00")
	seedProduct(store)
	uc := newComposition(store, false, &recordingMetrics{})

	_, err := uc.SetComposition(context.Background(), "u1", "prod-bolsa", []dto.CompositionItemInput{{MaterialID: "mat-linho", QuantityUsed: d("3")}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assertDec(t, "1", store.Material("mat-linho").StockQuantity)
	assert.Empty(t, store.ItemsOf("prod-bolsa"))
	assert.Empty(t, store.MovementsOf("mat-linho"))
}

func TestSetComposition_FallaTardiaRevierteTodo(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "10", "10.00")
	seedProduct(store)
	store.FailOn("Products.UpdateComputedPrice", errors.New("boom"))
	metrics := &recordingMetrics{}
	uc := newComposition(store, true, metrics)

	_, err := uc.SetComposition(context.Background(), "u1", "prod-bolsa", []dto.CompositionItemInput{{MaterialID: "mat-linho", QuantityUsed: d("2")}})
	require.Error(t, err)

	assertDec(t, "10", store.Material("mat-linho").StockQuantity)
	assert.Empty(t, store.ItemsOf("prod-bolsa"))
	assert.Empty(t, store.MovementsOf("mat-linho"))
	assert.True(t, store.Product("prod-bolsa").ComputedPrice.IsZero())
	assert.Empty(t, metrics.composition, "sin métricas de una transacción revertida")
}

func TestSetComposition_Validacion(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "10", "10.00")
	seedProduct(store)
	uc := newComposition(store, true, &recordingMetrics{})
	ctx := context.Background()

	_, err := uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{{MaterialID: "mat-linho", QuantityUsed: d("0")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{{QuantityUsed: d("1")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{{ID: "ajena", MaterialID: "mat-linho", QuantityUsed: d("1")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SetComposition(ctx, "u1", "nope", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{{MaterialID: "nope", QuantityUsed: d("1")}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assertDec(t, "10", store.Material("mat-linho").StockQuantity)
}

// Una cantidad con más de 3 decimales se redondearía distinto en la línea y en el stock.
func TestSetComposition_RechazaMasDecimalesQueLaColumna(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "100", "10.00")
	seedProduct(store)
	uc := newComposition(store, true, &recordingMetrics{})
	ctx := context.Background()

	for _, q := range []string{"1.2345", "0.0004"} {
		_, err := uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{{MaterialID: "mat-linho", QuantityUsed: d(q)}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, q)
	}
	assertDec(t, "100", store.Material("mat-linho").StockQuantity)
	assert.Empty(t, store.ItemsOf("prod-bolsa"))
	assert.Empty(t, store.MovementsOf("mat-linho"))
}

func TestSetComposition_AgregarYQuitarRestauraStock(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "100", "10.00")
	seedProduct(store)
	uc := newComposition(store, true, &recordingMetrics{})
	ctx := context.Background()

	_, err := uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{{MaterialID: "mat-linho", QuantityUsed: d("1.235")}})
	require.NoError(t, err)
	assertDec(t, "98.765", store.Material("mat-linho").StockQuantity)

	_, err = uc.SetComposition(ctx, "u1", "prod-bolsa", nil)
	require.NoError(t, err)
	assertDec(t, "100", store.Material("mat-linho").StockQuantity)
}

func TestSetComposition_NoPermiteCambiarMaterialDeLinea(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "10", "10.00")
	store.AddMaterial(entity.Material{ID: "mat-fita", Name: "Fita de Cetim", UnitPrice: d("2"), StockQuantity: d("10")})
	seedProduct(store)
	uc := newComposition(store, true, &recordingMetrics{})
	ctx := context.Background()

	first, err := uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{{MaterialID: "mat-linho", QuantityUsed: d("2")}})
	require.NoError(t, err)

	_, err = uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{{ID: first.Items[0].ID, MaterialID: "mat-fita", QuantityUsed: d("2")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assertDec(t, "10", store.Material("mat-fita").StockQuantity)
}

func TestReleaseInTx_DevuelveStockDeCadaLinea(t *testing.T) {
	store := testutil.NewStore()
	seedLinho(store, "10", "10.00")
	seedProduct(store)
	uc := newComposition(store, true, &recordingMetrics{})
	ctx := context.Background()

	_, err := uc.SetComposition(ctx, "u1", "prod-bolsa", []dto.CompositionItemInput{
		{MaterialID: "mat-linho", QuantityUsed: d("2")},
		{MaterialID: "mat-linho", QuantityUsed: d("1.5")},
	})
	require.NoError(t, err)
	assertDec(t, "6.5", store.Material("mat-linho").StockQuantity)

	var events []domaininv.StockEvent
	err = store.Run(ctx, func(repos ports.TxRepos) error {
		var err error
		events, err = uc.ReleaseInTx(ctx, repos, "prod-bolsa", "u1")
		return err
	})
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assertDec(t, "10", store.Material("mat-linho").StockQuantity)
	assert.Empty(t, store.ItemsOf("prod-bolsa"))
}
