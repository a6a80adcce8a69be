// Package testutil repositorios en memoria y TxRunner con rollback por snapshot para tests de casos de uso y handlers.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/application/ports"
	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

// data estado completo del store; se copia entero para emular rollback.
type data struct {
	materials  map[string]entity.Material
	categories map[string]entity.MaterialCategory
	receipts   []entity.MaterialReceipt
	movements  []entity.StockMovement
	products   map[string]entity.Product
	items      map[string]entity.CompositionItem
	itemOrder  []string
	sales      map[string]entity.Sale
	clients    map[string]entity.Client
	users      map[string]entity.User
}

func newData() *data {
	return &data{
		materials:  map[string]entity.Material{},
		categories: map[string]entity.MaterialCategory{},
		products:   map[string]entity.Product{},
		items:      map[string]entity.CompositionItem{},
		sales:      map[string]entity.Sale{},
		clients:    map[string]entity.Client{},
		users:      map[string]entity.User{},
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.materials {
		c.materials[k] = v
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	c.receipts = append([]entity.MaterialReceipt(nil), d.receipts...)
	c.movements = append([]entity.StockMovement(nil), d.movements...)
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	c.itemOrder = append([]string(nil), d.itemOrder...)
	for k, v := range d.sales {
		c.sales[k] = v
	}
	for k, v := range d.clients {
		c.clients[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

// Store base de datos en memoria. Las entidades se guardan por valor: los repos devuelven copias.
type Store struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	d     *data
	fails map[string]error

	// TxCount transacciones confirmadas; Rollbacks transacciones revertidas.
	TxCount   int
	Rollbacks int
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{d: newData(), fails: map[string]error{}}
}

// FailOn hace que la operación indicada (ej: "Products.UpdateComputedPrice") devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails[op] = err
}

func (s *Store) fail(op string) error {
	return s.fails[op]
}

// Run implementa ports.TxRunner: serializa transacciones y restaura el snapshot si fn falla.
func (s *Store) Run(_ context.Context, fn func(repos ports.TxRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.d.clone()
	s.mu.Unlock()

	if err := fn(s.Repos()); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.Rollbacks++
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.TxCount++
	s.mu.Unlock()
	return nil
}

// Repos repositorios sobre el store (mismos objetos dentro y fuera de la transacción).
func (s *Store) Repos() ports.TxRepos {
	return ports.TxRepos{
		Materials:    s.Materials(),
		Receipts:     s.Receipts(),
		Movements:    s.Movements(),
		Products:     s.Products(),
		Compositions: s.Compositions(),
		Sales:        s.Sales(),
		Clients:      s.Clients(),
	}
}

// ── Seed helpers ──────────────────────────────────────────────────────────────

// AddMaterial inserta un material directamente (sin movimiento).
func (s *Store) AddMaterial(m entity.Material) *entity.Material {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.UnitOfMeasure == "" {
		m.UnitOfMeasure = entity.UnitMeter
	}
	s.d.materials[m.ID] = m
	return &m
}

// AddProduct inserta un producto directamente.
func (s *Store) AddProduct(p entity.Product) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.products[p.ID] = p
	return &p
}

// AddItem inserta una línea de composición sin tocar stock.
func (s *Store) AddItem(it entity.CompositionItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.items[it.ID] = it
	s.d.itemOrder = append(s.d.itemOrder, it.ID)
}

// AddClient inserta un cliente directamente.
func (s *Store) AddClient(c entity.Client) *entity.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.clients[c.ID] = c
	return &c
}

// AddSale inserta una venta directamente.
func (s *Store) AddSale(v entity.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.sales[v.ID] = v
}

// AddUser inserta un usuario directamente.
func (s *Store) AddUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.users[u.ID] = u
}

// Material lectura directa para asserts; nil si no existe.
func (s *Store) Material(id string) *entity.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.d.materials[id]
	if !ok {
		return nil
	}
	return &m
}

// Product lectura directa para asserts; nil si no existe.
func (s *Store) Product(id string) *entity.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.d.products[id]
	if !ok {
		return nil
	}
	return &p
}

// ItemsOf líneas del producto en orden de creación.
func (s *Store) ItemsOf(productID string) []entity.CompositionItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.CompositionItem
	for _, id := range s.d.itemOrder {
		if it, ok := s.d.items[id]; ok && it.ProductID == productID {
			out = append(out, it)
		}
	}
	return out
}

// MovementsOf movimientos del material en orden de inserción.
func (s *Store) MovementsOf(materialID string) []entity.StockMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.StockMovement
	for _, m := range s.d.movements {
		if m.MaterialID == materialID {
			out = append(out, m)
		}
	}
	return out
}

// SaleCount cantidad de ventas guardadas.
func (s *Store) SaleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.d.sales)
}

// ── Materials ────────────────────────────────────────────────────────────────

type materialRepo struct{ s *Store }

// Materials repositorio de materiales.
func (s *Store) Materials() repository.MaterialRepository { return materialRepo{s} }

func (r materialRepo) Create(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Materials.Create"); err != nil {
		return err
	}
	if m.CategoryID != nil {
		if _, ok := r.s.d.categories[*m.CategoryID]; !ok {
			return fmt.Errorf("categoría: %w", domain.ErrNotFound)
		}
	}
	r.s.d.materials[m.ID] = *m
	return nil
}

func (r materialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.d.materials[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r materialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

func (r materialRepo) Update(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.d.materials[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name = m.Name
	cur.CategoryID = m.CategoryID
	cur.UnitOfMeasure = m.UnitOfMeasure
	cur.MinimumStock = m.MinimumStock
	cur.UpdatedAt = m.UpdatedAt
	r.s.d.materials[m.ID] = cur
	return nil
}

func (r materialRepo) UpdateLedger(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Materials.UpdateLedger"); err != nil {
		return err
	}
	cur, ok := r.s.d.materials[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.StockQuantity = m.StockQuantity
	cur.UnitPrice = m.UnitPrice
	cur.UpdatedAt = m.UpdatedAt
	r.s.d.materials[m.ID] = cur
	return nil
}

func (r materialRepo) List(_ context.Context, f repository.MaterialFilter) ([]*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Material
	for _, m := range r.s.d.materials {
		if f.CategoryID != "" && (m.CategoryID == nil || *m.CategoryID != f.CategoryID) {
			continue
		}
		if f.InStockOnly && !m.InStock() {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r materialRepo) ListNeedingRestock(_ context.Context) ([]*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Material
	for _, m := range r.s.d.materials {
		if m.NeedsRestock() {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di := out[i].MinimumStock.Sub(out[i].StockQuantity)
		dj := out[j].MinimumStock.Sub(out[j].StockQuantity)
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r materialRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.materials[id]; !ok {
		return domain.ErrNotFound
	}
	for _, it := range r.s.d.items {
		if it.MaterialID == id {
			return fmt.Errorf("%w: el material se usa en la composición de productos", domain.ErrConflict)
		}
	}
	delete(r.s.d.materials, id)
	return nil
}

// ── Categories ───────────────────────────────────────────────────────────────

type categoryRepo struct{ s *Store }

// Categories repositorio de categorías.
func (s *Store) Categories() repository.CategoryRepository { return categoryRepo{s} }

func (r categoryRepo) Create(_ context.Context, c *entity.MaterialCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.d.categories {
		if strings.EqualFold(cur.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*entity.MaterialCategory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.d.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r categoryRepo) List(_ context.Context) ([]*entity.MaterialCategory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.MaterialCategory, 0, len(r.s.d.categories))
	for _, c := range r.s.d.categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r categoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.d.categories, id)
	for mid, m := range r.s.d.materials {
		if m.CategoryID != nil && *m.CategoryID == id {
			m.CategoryID = nil
			r.s.d.materials[mid] = m
		}
	}
	return nil
}

// ── Receipts / Movements ─────────────────────────────────────────────────────

type receiptRepo struct{ s *Store }

// Receipts repositorio de entradas.
func (s *Store) Receipts() repository.ReceiptRepository { return receiptRepo{s} }

func (r receiptRepo) Create(_ context.Context, rc *entity.MaterialReceipt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Receipts.Create"); err != nil {
		return err
	}
	if _, ok := r.s.d.materials[rc.MaterialID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.receipts = append(r.s.d.receipts, *rc)
	return nil
}

func (r receiptRepo) ListByMaterial(_ context.Context, materialID string, limit, offset int) ([]*entity.MaterialReceipt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.MaterialReceipt
	for i := len(r.s.d.receipts) - 1; i >= 0; i-- {
		rc := r.s.d.receipts[i]
		if rc.MaterialID == materialID {
			out = append(out, &rc)
		}
	}
	return paginate(out, limit, offset), nil
}

type movementRepo struct{ s *Store }

// Movements repositorio de movimientos de stock.
func (s *Store) Movements() repository.StockMovementRepository { return movementRepo{s} }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Movements.Create"); err != nil {
		return err
	}
	r.s.d.movements = append(r.s.d.movements, *m)
	return nil
}

func (r movementRepo) ListByMaterial(_ context.Context, materialID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.StockMovement
	for i := len(r.s.d.movements) - 1; i >= 0; i-- {
		m := r.s.d.movements[i]
		if m.MaterialID == materialID {
			out = append(out, &m)
		}
	}
	return paginate(out, limit, offset), nil
}

// ── Products / Compositions ──────────────────────────────────────────────────

type productRepo struct{ s *Store }

// Products repositorio de productos.
func (s *Store) Products() repository.ProductRepository { return productRepo{s} }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Products.Create"); err != nil {
		return err
	}
	r.s.d.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.d.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.d.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name = p.Name
	cur.Description = p.Description
	cur.LaborTime = p.LaborTime
	cur.LaborRate = p.LaborRate
	cur.MarginPercent = p.MarginPercent
	cur.DiscountAmount = p.DiscountAmount
	cur.UpdatedAt = p.UpdatedAt
	r.s.d.products[p.ID] = cur
	return nil
}

func (r productRepo) UpdateComputedPrice(_ context.Context, id string, price decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Products.UpdateComputedPrice"); err != nil {
		return err
	}
	cur, ok := r.s.d.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	cur.ComputedPrice = price
	r.s.d.products[id] = cur
	return nil
}

func (r productRepo) UpdateImage(_ context.Context, id, slot, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.d.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	switch slot {
	case entity.ImageFront:
		cur.ImageFront = key
	case entity.ImageSide:
		cur.ImageSide = key
	case entity.ImageBack:
		cur.ImageBack = key
	default:
		return domain.ErrInvalidInput
	}
	r.s.d.products[id] = cur
	return nil
}

func (r productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Product, 0, len(r.s.d.products))
	for _, p := range r.s.d.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, limit, offset), nil
}

func (r productRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, v := range r.s.d.sales {
		if v.ProductID == id {
			return fmt.Errorf("%w: el producto tiene ventas registradas", domain.ErrConflict)
		}
	}
	delete(r.s.d.products, id)
	for iid, it := range r.s.d.items {
		if it.ProductID == id {
			delete(r.s.d.items, iid)
		}
	}
	return nil
}

type compositionRepo struct{ s *Store }

// Compositions repositorio de líneas de composición.
func (s *Store) Compositions() repository.CompositionRepository { return compositionRepo{s} }

func (r compositionRepo) ListByProduct(_ context.Context, productID string) ([]*entity.CompositionLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.CompositionLine
	for _, id := range r.s.d.itemOrder {
		it, ok := r.s.d.items[id]
		if !ok || it.ProductID != productID {
			continue
		}
		out = append(out, &entity.CompositionLine{Item: it, Material: r.s.d.materials[it.MaterialID]})
	}
	return out, nil
}

func (r compositionRepo) Create(_ context.Context, it *entity.CompositionItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Compositions.Create"); err != nil {
		return err
	}
	if _, ok := r.s.d.materials[it.MaterialID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.d.products[it.ProductID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.items[it.ID] = *it
	r.s.d.itemOrder = append(r.s.d.itemOrder, it.ID)
	return nil
}

func (r compositionRepo) UpdateQuantity(_ context.Context, id string, qty decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.d.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.QuantityUsed = qty
	r.s.d.items[id] = it
	return nil
}

func (r compositionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.d.items, id)
	return nil
}

// ── Sales / Clients ──────────────────────────────────────────────────────────

type saleRepo struct{ s *Store }

// Sales repositorio de ventas.
func (s *Store) Sales() repository.SaleRepository { return saleRepo{s} }

func (r saleRepo) Create(_ context.Context, v *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Sales.Create"); err != nil {
		return err
	}
	if _, ok := r.s.d.products[v.ProductID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.sales[v.ID] = *v
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.d.sales[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r saleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Sale
	for _, v := range r.s.d.sales {
		if f.ProductID != "" && v.ProductID != f.ProductID {
			continue
		}
		if f.ClientID != "" && (v.ClientID == nil || *v.ClientID != f.ClientID) {
			continue
		}
		if f.From != nil && v.SaleDate.Before(*f.From) {
			continue
		}
		if f.To != nil && v.SaleDate.After(*f.To) {
			continue
		}
		v := v
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SaleDate.Equal(out[j].SaleDate) {
			return out[i].SaleDate.After(out[j].SaleDate)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, f.Limit, f.Offset), nil
}

func (r saleRepo) SoldProductIDs(_ context.Context) (map[string]bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]bool)
	for _, v := range r.s.d.sales {
		out[v.ProductID] = true
	}
	return out, nil
}

type clientRepo struct{ s *Store }

// Clients repositorio de clientes.
func (s *Store) Clients() repository.ClientRepository { return clientRepo{s} }

func (r clientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.clients[c.ID] = *c
	return nil
}

func (r clientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.d.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r clientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.clients[c.ID] = *c
	return nil
}

func (r clientRepo) List(_ context.Context, limit, offset int) ([]*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Client, 0, len(r.s.d.clients))
	for _, c := range r.s.d.clients {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

// ── Users ────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.d.users {
		if cur.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.d.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.d.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.d.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// ── Analytics ────────────────────────────────────────────────────────────────

type analyticsRepo struct{ s *Store }

// Analytics repositorio de agregados del dashboard.
func (s *Store) Analytics() repository.AnalyticsRepository { return analyticsRepo{s} }

func (r analyticsRepo) StockValue(_ context.Context) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, m := range r.s.d.materials {
		total = total.Add(m.StockValue())
	}
	return total, nil
}

func (r analyticsRepo) ListProductCosts(_ context.Context) ([]repository.ProductCostRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sold := make(map[string]bool)
	for _, v := range r.s.d.sales {
		sold[v.ProductID] = true
	}
	out := make([]repository.ProductCostRow, 0, len(r.s.d.products))
	for _, p := range r.s.d.products {
		cost := decimal.Zero
		for _, it := range r.s.d.items {
			if it.ProductID == p.ID {
				cost = cost.Add(it.QuantityUsed.Mul(r.s.d.materials[it.MaterialID].UnitPrice))
			}
		}
		out = append(out, repository.ProductCostRow{Product: p, MaterialCost: cost, Sold: sold[p.ID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.CreatedAt.After(out[j].Product.CreatedAt) })
	return out, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// FixedClock reloj fijo para casos de uso con campo now.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
