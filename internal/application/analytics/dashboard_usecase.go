// Package analytics contiene los casos de uso del dashboard del taller.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/pricing"
	"github.com/jhoicas/atelier-api/internal/domain/repository"
)

const dashboardRecentSales = 5 // ventas en el widget del dashboard

// DashboardUseCase genera el resumen del taller: valor del stock, ingresos y lucro potenciales
// de los productos disponibles, alertas de reposición y últimas ventas.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	materialRepo  repository.MaterialRepository
	saleRepo      repository.SaleRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	materialRepo repository.MaterialRepository,
	saleRepo repository.SaleRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		materialRepo:  materialRepo,
		saleRepo:      saleRepo,
	}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro consultas en paralelo:
//  1. StockValue         → StockValue
//  2. ListProductCosts   → PotentialRevenue, EstimatedProfit, contadores
//  3. ListNeedingRestock → RestockAlerts
//  4. últimas ventas     → RecentSales
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var (
		stockValue decimal.Decimal
		costs      []repository.ProductCostRow
		restock    []*entity.Material
		recent     []*entity.Sale
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := uc.analyticsRepo.StockValue(gCtx)
		if err != nil {
			return fmt.Errorf("dashboard: valor del stock: %w", err)
		}
		stockValue = v
		return nil
	})
	g.Go(func() error {
		rows, err := uc.analyticsRepo.ListProductCosts(gCtx)
		if err != nil {
			return fmt.Errorf("dashboard: costos de productos: %w", err)
		}
		costs = rows
		return nil
	})
	g.Go(func() error {
		list, err := uc.materialRepo.ListNeedingRestock(gCtx)
		if err != nil {
			return fmt.Errorf("dashboard: reposición: %w", err)
		}
		restock = list
		return nil
	})
	g.Go(func() error {
		list, err := uc.saleRepo.List(gCtx, repository.SaleFilter{Limit: dashboardRecentSales})
		if err != nil {
			return fmt.Errorf("dashboard: últimas ventas: %w", err)
		}
		recent = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardSummaryDTO{
		StockValue:       stockValue.Round(2),
		PotentialRevenue: decimal.Zero,
		EstimatedProfit:  decimal.Zero,
		RestockAlerts:    dto.FromMaterials(restock),
		RecentSales:      make([]dto.SaleResponse, 0, len(recent)),
	}

	names := make(map[string]*entity.Product, len(costs))
	for i := range costs {
		row := &costs[i]
		names[row.Product.ID] = &row.Product
		if row.Sold {
			out.SoldProducts++
			continue
		}
		out.AvailableProducts++
		b := pricing.Compute(inputsFromCost(row))
		out.PotentialRevenue = out.PotentialRevenue.Add(b.SuggestedPrice)
		out.EstimatedProfit = out.EstimatedProfit.Add(b.NetProfit)
	}
	out.PotentialRevenue = out.PotentialRevenue.Round(2)
	out.EstimatedProfit = out.EstimatedProfit.Round(2)

	for _, s := range recent {
		out.RecentSales = append(out.RecentSales, dto.FromSale(s, names[s.ProductID], nil))
	}
	return out, nil
}

// inputsFromCost el costo de materiales ya agregado entra como una única línea.
func inputsFromCost(row *repository.ProductCostRow) pricing.Inputs {
	return pricing.Inputs{
		Lines:          []pricing.Line{{QuantityUsed: decimal.NewFromInt(1), UnitPrice: row.MaterialCost}},
		LaborTime:      row.Product.LaborTime,
		LaborRate:      row.Product.LaborRate,
		MarginPercent:  row.Product.MarginPercent,
		DiscountAmount: row.Product.DiscountAmount,
	}
}
