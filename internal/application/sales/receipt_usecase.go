package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

// ReceiptUseCase genera el recibo (PDF) de una venta.
type ReceiptUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	generator   ReceiptPDFGenerator
	opts        Options
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	generator ReceiptPDFGenerator,
	opts Options,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		generator:   generator,
		opts:        opts,
	}
}

// DownloadReceiptPDF carga la venta, su producto y su cliente y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la venta no existe.
func (uc *ReceiptUseCase) DownloadReceiptPDF(ctx context.Context, saleID string) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}

	product, err := uc.productRepo.GetByID(ctx, sale.ProductID)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener producto: %w", err)
	}
	if product == nil {
		return nil, "", domain.ErrNotFound
	}

	var client *entity.Client
	if sale.ClientID != nil {
		client, err = uc.clientRepo.GetByID(ctx, *sale.ClientID)
		if err != nil {
			return nil, "", fmt.Errorf("recibo: obtener cliente: %w", err)
		}
	}

	data := ReceiptData{
		ShopName: uc.opts.ShopName,
		Currency: uc.opts.Currency,
		Sale:     sale,
		Product:  product,
		Client:   client,
	}
	if client != nil {
		msg := ReceiptMessage(client.Name, product.Name, sale.SaleAmount, uc.opts.Currency)
		data.Link = WhatsAppLink(uc.opts.WhatsAppCountryCode, client.Phone, msg)
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("recibo_%s_%s.pdf", sale.SaleDate.Format("20060102"), shortID(sale.ID))
	return pdfBytes, filename, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
