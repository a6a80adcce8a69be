package dto

import (
	"github.com/jhoicas/atelier-api/internal/domain/entity"
	"github.com/jhoicas/atelier-api/internal/domain/pricing"
	"github.com/jhoicas/atelier-api/pkg/format"
)

// FromMaterial convierte una entidad Material en su DTO de salida.
func FromMaterial(m *entity.Material) MaterialResponse {
	return MaterialResponse{
		ID:            m.ID,
		Name:          m.Name,
		CategoryID:    m.CategoryID,
		UnitOfMeasure: string(m.UnitOfMeasure),
		UnitPrice:     m.UnitPrice,
		StockQuantity: m.StockQuantity,
		MinimumStock:  m.MinimumStock,
		NeedsRestock:  m.NeedsRestock(),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromMaterials convierte una lista de materiales.
func FromMaterials(ms []*entity.Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromMaterial(m))
	}
	return out
}

// FromProduct convierte una entidad Product. Las imágenes se exponen como rutas de descarga.
func FromProduct(p *entity.Product, sold bool) ProductResponse {
	images := map[string]string{}
	for _, slot := range []string{entity.ImageFront, entity.ImageSide, entity.ImageBack} {
		if p.ImageKey(slot) != "" {
			images[slot] = "/api/products/" + p.ID + "/images/" + slot
		}
	}
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		LaborTime:      p.LaborTime,
		LaborRate:      p.LaborRate,
		MarginPercent:  p.MarginPercent,
		DiscountAmount: p.DiscountAmount,
		ComputedPrice:  p.ComputedPrice,
		Images:         images,
		Sold:           sold,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// FromCompositionLines convierte las líneas de composición.
func FromCompositionLines(lines []*entity.CompositionLine) []CompositionLineResponse {
	out := make([]CompositionLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, CompositionLineResponse{
			ID:            l.Item.ID,
			MaterialID:    l.Material.ID,
			MaterialName:  l.Material.Name,
			UnitOfMeasure: string(l.Material.UnitOfMeasure),
			QuantityUsed:  l.Item.QuantityUsed,
			UnitPrice:     l.Material.UnitPrice,
			Subtotal:      l.Subtotal(),
		})
	}
	return out
}

// FromClient convierte una entidad Client.
func FromClient(c *entity.Client) ClientResponse {
	resp := ClientResponse{
		ID:           c.ID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		Address:      c.Address,
		RegisteredAt: c.RegisteredAt,
	}
	if c.Phone != "" {
		resp.PhoneFormatted = format.Phone(c.Phone)
	}
	return resp
}

// FromSale convierte una venta; product y client son opcionales (nombres para la salida).
func FromSale(s *entity.Sale, product *entity.Product, client *entity.Client) SaleResponse {
	resp := SaleResponse{
		ID:            s.ID,
		ProductID:     s.ProductID,
		ClientID:      s.ClientID,
		SaleDate:      s.SaleDate,
		SaleAmount:    s.SaleAmount,
		PaymentMethod: string(s.PaymentMethod),
		Notes:         s.Notes,
		Status:        entity.SaleStatusRecorded,
	}
	if product != nil {
		resp.ProductName = product.Name
	}
	if client != nil {
		resp.ClientName = client.Name
	}
	return resp
}

// FromUser convierte un usuario (sin hash de password).
func FromUser(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromBreakdown arma la respuesta de precio a partir del desglose calculado.
func FromBreakdown(p *entity.Product, b pricing.Breakdown) PricingResponse {
	return PricingResponse{
		ProductID:      p.ID,
		MaterialCost:   b.MaterialCost,
		LaborHours:     b.LaborHours,
		LaborCost:      b.LaborCost,
		BaseCost:       b.BaseCost,
		MarginPercent:  p.MarginPercent,
		DiscountAmount: p.DiscountAmount,
		SuggestedPrice: b.SuggestedPrice,
		NetProfit:      b.NetProfit,
		ComputedPrice:  p.ComputedPrice,
	}
}
