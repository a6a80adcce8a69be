package sales_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/application/sales"
	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
	"github.com/jhoicas/atelier-api/internal/testutil"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var opts = sales.Options{ShopName: "Ateliê", Currency: "BRL", WhatsAppCountryCode: "55"}

type saleMetrics struct {
	methods []string
	total   decimal.Decimal
}

func (m *saleMetrics) MaterialReceived(string, decimal.Decimal) {}
func (m *saleMetrics) StockWentNegative(string)                 {}
func (m *saleMetrics) CompositionChanged(string)                {}
func (m *saleMetrics) SaleRecorded(method string, amount decimal.Decimal) {
	m.methods = append(m.methods, method)
	m.total = m.total.Add(amount)
}

// seedCatalog producto de referencia: 2m de linho a 10.00, 4h30 a 12/h, margen 50%, descuento 5 → 106.00.
func seedCatalog(store *testutil.Store) {
	store.AddMaterial(entity.Material{ID: "mat-linho", Name: "Linho", UnitOfMeasure: entity.UnitMeter, UnitPrice: d("10.00"), StockQuantity: d("8")})
	store.AddProduct(entity.Product{
		ID:             "prod-bolsa",
		Name:           "Bolsa de Linho",
		LaborTime:      entity.LaborTime{Hours: 4, Minutes: 30},
		LaborRate:      d("12.00"),
		MarginPercent:  d("50"),
		DiscountAmount: d("5.00"),
	})
	store.AddItem(entity.CompositionItem{ID: "it-1", ProductID: "prod-bolsa", MaterialID: "mat-linho", QuantityUsed: d("2")})
	store.AddClient(entity.Client{ID: "cli-ana", Name: "Ana", Phone: "51999999999"})
}

func newSaleUC(store *testutil.Store, m *saleMetrics) *sales.SaleUseCase {
	return sales.NewSaleUseCase(store, store.Sales(), store.Products(), store.Clients(), opts, m, zerolog.Nop())
}

func TestRecordSale_MontoPorDefectoEsPrecioSugerido(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	m := &saleMetrics{}
	uc := newSaleUC(store, m)

	resp, err := uc.RecordSale(context.Background(), "u1", "prod-bolsa", dto.RecordSaleRequest{PaymentMethod: "PIX"})
	require.NoError(t, err)
	assert.True(t, resp.SaleAmount.Equal(d("106.00")), "obtenido %s", resp.SaleAmount)
	assert.Equal(t, "PIX", resp.PaymentMethod)
	assert.Equal(t, entity.SaleStatusRecorded, resp.Status)
	assert.Equal(t, "Bolsa de Linho", resp.ProductName)
	assert.Empty(t, resp.WhatsAppLink, "sin cliente no hay enlace")
	assert.False(t, resp.SaleDate.IsZero())
	assert.Equal(t, []string{"PIX"}, m.methods)
}

func TestRecordSale_NoModificaStock(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	uc := newSaleUC(store, &saleMetrics{})

	_, err := uc.RecordSale(context.Background(), "u1", "prod-bolsa", dto.RecordSaleRequest{PaymentMethod: "CASH"})
	require.NoError(t, err)
	assert.True(t, store.Material("mat-linho").StockQuantity.Equal(d("8")))
	assert.Empty(t, store.MovementsOf("mat-linho"))
}

func TestRecordSale_MontoQuedaFijo(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	uc := newSaleUC(store, &saleMetrics{})
	ctx := context.Background()

	resp, err := uc.RecordSale(ctx, "u1", "prod-bolsa", dto.RecordSaleRequest{PaymentMethod: "DEBIT"})
	require.NoError(t, err)

	// sube el precio del material después de la venta
	m := store.Material("mat-linho")
	m.UnitPrice = d("50.00")
	require.NoError(t, store.Materials().UpdateLedger(ctx, m))

	got, err := uc.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.SaleAmount.Equal(d("106.00")))
}

func TestRecordSale_MontoExplicitoYCliente(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	uc := newSaleUC(store, &saleMetrics{})

	clientID := "cli-ana"
	amount := d("99.90")
	resp, err := uc.RecordSale(context.Background(), "u1", "prod-bolsa", dto.RecordSaleRequest{
		ClientID:      &clientID,
		PaymentMethod: "CREDIT",
		SaleAmount:    &amount,
		Notes:         "presente",
	})
	require.NoError(t, err)
	assert.True(t, resp.SaleAmount.Equal(amount))
	assert.Equal(t, "Ana", resp.ClientName)
	assert.Equal(t, "presente", resp.Notes)
	assert.True(t, strings.HasPrefix(resp.WhatsAppLink, "https://wa.me/5551999999999?text="), resp.WhatsAppLink)
}

func TestRecordSale_Errores(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	uc := newSaleUC(store, &saleMetrics{})
	ctx := context.Background()

	_, err := uc.RecordSale(ctx, "u1", "prod-bolsa", dto.RecordSaleRequest{PaymentMethod: "BOLETO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := d("-1")
	_, err = uc.RecordSale(ctx, "u1", "prod-bolsa", dto.RecordSaleRequest{PaymentMethod: "PIX", SaleAmount: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RecordSale(ctx, "u1", "nope", dto.RecordSaleRequest{PaymentMethod: "PIX"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ghost := "cli-ghost"
	_, err = uc.RecordSale(ctx, "u1", "prod-bolsa", dto.RecordSaleRequest{PaymentMethod: "PIX", ClientID: &ghost})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 0, store.SaleCount())
}

// sale_amount se guarda con 2 decimales; 10.005 se respondería distinto de lo guardado.
func TestRecordSale_MontoConMasDeDosDecimales(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	uc := newSaleUC(store, &saleMetrics{})

	amount := d("10.005")
	_, err := uc.RecordSale(context.Background(), "u1", "prod-bolsa", dto.RecordSaleRequest{PaymentMethod: "PIX", SaleAmount: &amount})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	amount = d("10.50")
	resp, err := uc.RecordSale(context.Background(), "u1", "prod-bolsa", dto.RecordSaleRequest{PaymentMethod: "PIX", SaleAmount: &amount})
	require.NoError(t, err)
	assert.True(t, resp.SaleAmount.Equal(d("10.5")))
	assert.Equal(t, 1, store.SaleCount())
}

// 1h a 10/h, margen 0, descuento 25 → precio sugerido -15.
func TestRecordSale_PrecioSugeridoNegativo(t *testing.T) {
	store := testutil.NewStore()
	store.AddProduct(entity.Product{
		ID:             "prod-chaveiro",
		Name:           "Chaveiro",
		LaborTime:      entity.LaborTime{Hours: 1},
		LaborRate:      d("10"),
		MarginPercent:  d("0"),
		DiscountAmount: d("25"),
	})
	metrics := &saleMetrics{}
	uc := newSaleUC(store, metrics)
	ctx := context.Background()

	_, err := uc.RecordSale(ctx, "u1", "prod-chaveiro", dto.RecordSaleRequest{PaymentMethod: "PIX"})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	assert.Equal(t, 0, store.SaleCount())
	assert.Empty(t, metrics.methods)

	// con monto explícito la venta sí se registra
	amount := d("0")
	resp, err := uc.RecordSale(ctx, "u1", "prod-chaveiro", dto.RecordSaleRequest{PaymentMethod: "PIX", SaleAmount: &amount})
	require.NoError(t, err)
	assert.True(t, resp.SaleAmount.IsZero())
	assert.Equal(t, 1, store.SaleCount())
}

func TestRecordSale_ClienteVacioSeIgnora(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	uc := newSaleUC(store, &saleMetrics{})

	empty := ""
	resp, err := uc.RecordSale(context.Background(), "u1", "prod-bolsa", dto.RecordSaleRequest{PaymentMethod: "PIX", ClientID: &empty})
	require.NoError(t, err)
	assert.Nil(t, resp.ClientID)
}

func TestRecordSale_ProductoVendidoSeMarca(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	uc := newSaleUC(store, &saleMetrics{})
	ctx := context.Background()

	sold, err := store.Sales().SoldProductIDs(ctx)
	require.NoError(t, err)
	assert.False(t, sold["prod-bolsa"])

	_, err = uc.RecordSale(ctx, "u1", "prod-bolsa", dto.RecordSaleRequest{PaymentMethod: "PIX"})
	require.NoError(t, err)

	sold, err = store.Sales().SoldProductIDs(ctx)
	require.NoError(t, err)
	assert.True(t, sold["prod-bolsa"])
}

func TestList_FiltraYOrdena(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cli := "cli-ana"
	store.AddSale(entity.Sale{ID: "s1", ProductID: "prod-bolsa", SaleDate: base, SaleAmount: d("10"), PaymentMethod: entity.PaymentPIX})
	store.AddSale(entity.Sale{ID: "s2", ProductID: "prod-bolsa", ClientID: &cli, SaleDate: base.Add(48 * time.Hour), SaleAmount: d("20"), PaymentMethod: entity.PaymentCash})
	store.AddSale(entity.Sale{ID: "s3", ProductID: "prod-bolsa", SaleDate: base.Add(96 * time.Hour), SaleAmount: d("30"), PaymentMethod: entity.PaymentDebit})
	uc := newSaleUC(store, &saleMetrics{})
	ctx := context.Background()

	all, err := uc.List(ctx, repository.SaleFilter{}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, "s3", all.Items[0].ID)
	assert.Equal(t, 20, all.Page.Limit)

	from, to := base.Add(24*time.Hour), base.Add(72*time.Hour)
	ranged, err := uc.List(ctx, repository.SaleFilter{From: &from, To: &to}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, ranged.Items, 1)
	assert.Equal(t, "s2", ranged.Items[0].ID)
	assert.Equal(t, "Ana", ranged.Items[0].ClientName)

	byClient, err := uc.List(ctx, repository.SaleFilter{ClientID: "cli-ana"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, byClient.Items, 1)
}

func TestRecordSale_FallaAlGuardarNoRegistraMetrica(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	store.FailOn("Sales.Create", errors.New("boom"))
	m := &saleMetrics{}
	uc := newSaleUC(store, m)

	_, err := uc.RecordSale(context.Background(), "u1", "prod-bolsa", dto.RecordSaleRequest{PaymentMethod: "PIX"})
	require.Error(t, err)
	assert.Empty(t, m.methods)
}

// ── Recibo ───────────────────────────────────────────────────────────────────

type fakeGenerator struct {
	got sales.ReceiptData
	err error
}

func (g *fakeGenerator) GenerateReceiptPDF(_ context.Context, data sales.ReceiptData) ([]byte, error) {
	g.got = data
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-fake"), nil
}

func TestDownloadReceiptPDF(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	cli := "cli-ana"
	store.AddSale(entity.Sale{
		ID:            "a1b2c3d4-0000-0000-0000-000000000000",
		ProductID:     "prod-bolsa",
		ClientID:      &cli,
		SaleDate:      time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC),
		SaleAmount:    d("106.00"),
		PaymentMethod: entity.PaymentPIX,
	})
	gen := &fakeGenerator{}
	uc := sales.NewReceiptUseCase(store.Sales(), store.Products(), store.Clients(), gen, opts)

	pdf, filename, err := uc.DownloadReceiptPDF(context.Background(), "a1b2c3d4-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, "recibo_20260502_a1b2c3d4.pdf", filename)
	assert.Equal(t, "Ateliê", gen.got.ShopName)
	require.NotNil(t, gen.got.Client)
	assert.Equal(t, "Ana", gen.got.Client.Name)
	assert.Contains(t, gen.got.Link, "https://wa.me/5551999999999?text=")
	assert.Contains(t, gen.got.Link, "Bolsa%20de%20Linho")
}

func TestDownloadReceiptPDF_Errores(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	store.AddSale(entity.Sale{ID: "s1", ProductID: "prod-bolsa", SaleDate: time.Now(), SaleAmount: d("1"), PaymentMethod: entity.PaymentCash})
	gen := &fakeGenerator{err: errors.New("sin fuente")}
	uc := sales.NewReceiptUseCase(store.Sales(), store.Products(), store.Clients(), gen, opts)
	ctx := context.Background()

	_, _, err := uc.DownloadReceiptPDF(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = uc.DownloadReceiptPDF(ctx, "s1")
	require.Error(t, err)
	assert.Empty(t, gen.got.Link, "sin cliente no hay enlace")
}

// ── Exportación ──────────────────────────────────────────────────────────────

type fakeExporter struct{ rows []sales.SaleRow }

func (e *fakeExporter) ExportSales(_ context.Context, _ string, rows []sales.SaleRow) ([]byte, error) {
	e.rows = rows
	return []byte("xlsx"), nil
}

func TestExportSales(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	cli := "cli-ana"
	day := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	store.AddSale(entity.Sale{ID: "s1", ProductID: "prod-bolsa", ClientID: &cli, SaleDate: day, SaleAmount: d("106"), PaymentMethod: entity.PaymentPIX})
	store.AddSale(entity.Sale{ID: "s2", ProductID: "prod-bolsa", SaleDate: day.AddDate(0, 1, 0), SaleAmount: d("50"), PaymentMethod: entity.PaymentCash})
	exp := &fakeExporter{}
	uc := sales.NewExportUseCase(store.Sales(), store.Products(), store.Clients(), exp, opts)
	ctx := context.Background()

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 30, 23, 59, 59, 0, time.UTC)
	data, filename, err := uc.ExportSales(ctx, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	assert.Equal(t, "vendas_20260401_20260430.xlsx", filename)
	require.Len(t, exp.rows, 1)
	assert.Equal(t, "Bolsa de Linho", exp.rows[0].ProductName)
	assert.Equal(t, "Ana", exp.rows[0].ClientName)

	_, filename, err = uc.ExportSales(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "vendas.xlsx", filename)
	assert.Len(t, exp.rows, 2)

	_, _, err = uc.ExportSales(ctx, &to, &from)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Clientes ─────────────────────────────────────────────────────────────────

func TestClientUseCase(t *testing.T) {
	store := testutil.NewStore()
	uc := sales.NewClientUseCase(store.Clients())
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateClientRequest{Name: "  Beatriz ", Phone: "(51) 99999-8888"})
	require.NoError(t, err)
	assert.Equal(t, "Beatriz", created.Name)
	assert.Equal(t, "51999998888", created.Phone)
	assert.Equal(t, "(51) 99999-8888", created.PhoneFormatted)

	_, err = uc.Create(ctx, dto.CreateClientRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	email := "bia@example.com"
	updated, err := uc.Update(ctx, created.ID, dto.UpdateClientRequest{Email: &email})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, email, updated.Email)

	missing, err := uc.Update(ctx, "nope", dto.UpdateClientRequest{Email: &email})
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
