package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/application/ports"
	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/pricing"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

// Options parámetros de presentación de ventas.
type Options struct {
	ShopName            string
	Currency            string
	WhatsAppCountryCode string
}

// SaleUseCase registra y consulta ventas. Una venta nunca modifica el stock: los materiales
// ya se descontaron al componer el producto.
type SaleUseCase struct {
	txRunner    ports.TxRunner
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	opts        Options
	metrics     ports.Metrics
	log         zerolog.Logger
	now         func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner ports.TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	opts Options,
	metrics ports.Metrics,
	log zerolog.Logger,
) *SaleUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &SaleUseCase{
		txRunner:    txRunner,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		opts:        opts,
		metrics:     metrics,
		log:         log,
		now:         time.Now,
	}
}

// RecordSale registra la venta de un producto. Sin monto explícito se usa el precio sugerido
// calculado en ese momento, redondeado a 2 decimales; el monto queda fijo aunque luego cambien
// los precios de los materiales.
func (uc *SaleUseCase) RecordSale(ctx context.Context, userID, productID string, in dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	method := entity.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return nil, fmt.Errorf("%w: forma de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	if in.SaleAmount != nil {
		if in.SaleAmount.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidPrice
		}
		if err := domain.CheckScale("sale_amount", *in.SaleAmount, domain.MoneyScale); err != nil {
			return nil, err
		}
	}
	var clientID *string
	if in.ClientID != nil && *in.ClientID != "" {
		clientID = in.ClientID
	}

	var (
		sale    *entity.Sale
		product *entity.Product
		client  *entity.Client
	)
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		p, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if clientID != nil {
			c, err := repos.Clients.GetByID(ctx, *clientID)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("cliente %s: %w", *clientID, domain.ErrNotFound)
			}
			client = c
		}

		var amount decimal.Decimal
		if in.SaleAmount != nil {
			amount = *in.SaleAmount
		} else {
			lines, err := repos.Compositions.ListByProduct(ctx, productID)
			if err != nil {
				return err
			}
			amount = pricing.Compute(pricing.InputsFor(p, lines)).SalePrice()
			// descuento mayor que el costo con margen: sin monto explícito no hay venta
			if amount.IsNegative() {
				return fmt.Errorf("%w: precio sugerido %s, informe sale_amount", domain.ErrInvalidPrice, amount.StringFixed(2))
			}
		}

		s := &entity.Sale{
			ID:            uuid.New().String(),
			ProductID:     productID,
			ClientID:      clientID,
			SaleDate:      uc.now(),
			SaleAmount:    amount,
			PaymentMethod: method,
			Notes:         in.Notes,
			CreatedBy:     userID,
		}
		if err := repos.Sales.Create(ctx, s); err != nil {
			return err
		}
		sale, product = s, p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.SaleRecorded(string(sale.PaymentMethod), sale.SaleAmount)
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("product_id", productID).
		Str("amount", sale.SaleAmount.String()).
		Str("payment_method", string(sale.PaymentMethod)).
		Msg("venta registrada")

	resp := uc.toResponse(sale, product, client)
	return &resp, nil
}

// GetByID obtiene una venta con los nombres de producto y cliente y el enlace de WhatsApp.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	p, c, err := uc.resolve(ctx, s, nil, nil)
	if err != nil {
		return nil, err
	}
	resp := uc.toResponse(s, p, c)
	return &resp, nil
}

// List lista ventas, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, f repository.SaleFilter, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset
	list, err := uc.saleRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	products := map[string]*entity.Product{}
	clients := map[string]*entity.Client{}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		p, c, err := uc.resolve(ctx, s, products, clients)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.FromSale(s, p, c))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// resolve carga producto y cliente de la venta, usando los mapas como caché si no son nil.
func (uc *SaleUseCase) resolve(ctx context.Context, s *entity.Sale, products map[string]*entity.Product, clients map[string]*entity.Client) (*entity.Product, *entity.Client, error) {
	p, ok := products[s.ProductID]
	if !ok {
		var err error
		p, err = uc.productRepo.GetByID(ctx, s.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if products != nil {
			products[s.ProductID] = p
		}
	}
	if s.ClientID == nil {
		return p, nil, nil
	}
	c, ok := clients[*s.ClientID]
	if !ok {
		var err error
		c, err = uc.clientRepo.GetByID(ctx, *s.ClientID)
		if err != nil {
			return nil, nil, err
		}
		if clients != nil {
			clients[*s.ClientID] = c
		}
	}
	return p, c, nil
}

func (uc *SaleUseCase) toResponse(s *entity.Sale, p *entity.Product, c *entity.Client) dto.SaleResponse {
	resp := dto.FromSale(s, p, c)
	if c != nil && c.Phone != "" && p != nil {
		msg := ReceiptMessage(c.Name, p.Name, s.SaleAmount, uc.opts.Currency)
		resp.WhatsAppLink = WhatsAppLink(uc.opts.WhatsAppCountryCode, c.Phone, msg)
	}
	return resp
}
