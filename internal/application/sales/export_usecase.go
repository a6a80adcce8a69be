package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/atelier-api/internal/domain"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

// maxExportRows tope de ventas por planilla.
const maxExportRows = 10000

// ExportUseCase exporta las ventas de un período a planilla.
type ExportUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	exporter    SalesExporter
	opts        Options
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	exporter SalesExporter,
	opts Options,
) *ExportUseCase {
	return &ExportUseCase{saleRepo: saleRepo, productRepo: productRepo, clientRepo: clientRepo, exporter: exporter, opts: opts}
}

// ExportSales genera la planilla de ventas entre from y to (inclusive). Fechas nil = sin límite.
func (uc *ExportUseCase) ExportSales(ctx context.Context, from, to *time.Time) (data []byte, filename string, err error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, "", fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	list, err := uc.saleRepo.List(ctx, repository.SaleFilter{From: from, To: to, Limit: maxExportRows})
	if err != nil {
		return nil, "", err
	}

	productNames := map[string]string{}
	clientNames := map[string]string{}
	rows := make([]SaleRow, 0, len(list))
	for _, s := range list {
		row := SaleRow{Sale: s}
		name, ok := productNames[s.ProductID]
		if !ok {
			p, err := uc.productRepo.GetByID(ctx, s.ProductID)
			if err != nil {
				return nil, "", err
			}
			if p != nil {
				name = p.Name
			}
			productNames[s.ProductID] = name
		}
		row.ProductName = name
		if s.ClientID != nil {
			cname, ok := clientNames[*s.ClientID]
			if !ok {
				c, err := uc.clientRepo.GetByID(ctx, *s.ClientID)
				if err != nil {
					return nil, "", err
				}
				cname = clientName(c)
				clientNames[*s.ClientID] = cname
			}
			row.ClientName = cname
		}
		rows = append(rows, row)
	}

	data, err = uc.exporter.ExportSales(ctx, uc.opts.Currency, rows)
	if err != nil {
		return nil, "", fmt.Errorf("exportar ventas: %w", err)
	}
	filename = "vendas"
	if from != nil {
		filename += "_" + from.Format("20060102")
	}
	if to != nil {
		filename += "_" + to.Format("20060102")
	}
	return data, filename + ".xlsx", nil
}

func clientName(c *entity.Client) string {
	if c == nil {
		return ""
	}
	return c.Name
}
