package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Posiciones de imagen de un producto.
const (
	ImageFront = "front"
	ImageSide  = "side"
	ImageBack  = "back"
)

// Product pieza producida por el taller. ComputedPrice es un caché del precio sugerido;
// el valor autoritativo se calcula en vivo desde la composición y la mano de obra.
type Product struct {
	ID             string
	Name           string
	Description    string
	LaborTime      LaborTime
	LaborRate      decimal.Decimal // valor por hora
	MarginPercent  decimal.Decimal
	DiscountAmount decimal.Decimal // descuento fijo en moneda
	ComputedPrice  decimal.Decimal
	ImageFront     string // claves de objeto en el almacenamiento
	ImageSide      string
	ImageBack      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ImageKey devuelve la clave almacenada para la posición dada.
func (p *Product) ImageKey(slot string) string {
	switch slot {
	case ImageFront:
		return p.ImageFront
	case ImageSide:
		return p.ImageSide
	case ImageBack:
		return p.ImageBack
	}
	return ""
}

// ValidImageSlot indica si la posición de imagen existe.
func ValidImageSlot(slot string) bool {
	return slot == ImageFront || slot == ImageSide || slot == ImageBack
}
