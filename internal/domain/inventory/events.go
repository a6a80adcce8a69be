package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

// EventKind tipo de evento que afecta el stock de un material.
type EventKind string

// Eventos de composición. Se procesan de forma síncrona dentro de la transacción que los origina.
const (
	CompositionItemAdded           EventKind = "CompositionItemAdded"
	CompositionItemRemoved         EventKind = "CompositionItemRemoved"
	CompositionItemQuantityChanged EventKind = "CompositionItemQuantityChanged"
)

// StockEvent evento de dominio emitido al editar la composición de un producto.
type StockEvent struct {
	Kind        EventKind
	ItemID      string
	ProductID   string
	MaterialID  string
	OldQuantity decimal.Decimal // solo en CompositionItemQuantityChanged y CompositionItemRemoved
	NewQuantity decimal.Decimal // solo en CompositionItemQuantityChanged y CompositionItemAdded
}

// ItemAdded evento de línea creada.
func ItemAdded(item entity.CompositionItem) StockEvent {
	return StockEvent{
		Kind:        CompositionItemAdded,
		ItemID:      item.ID,
		ProductID:   item.ProductID,
		MaterialID:  item.MaterialID,
		OldQuantity: decimal.Zero,
		NewQuantity: item.QuantityUsed,
	}
}

// ItemRemoved evento de línea eliminada.
func ItemRemoved(item entity.CompositionItem) StockEvent {
	return StockEvent{
		Kind:        CompositionItemRemoved,
		ItemID:      item.ID,
		ProductID:   item.ProductID,
		MaterialID:  item.MaterialID,
		OldQuantity: item.QuantityUsed,
		NewQuantity: decimal.Zero,
	}
}

// ItemQuantityChanged evento de cambio de cantidad en una línea existente.
func ItemQuantityChanged(item entity.CompositionItem, oldQty decimal.Decimal) StockEvent {
	return StockEvent{
		Kind:        CompositionItemQuantityChanged,
		ItemID:      item.ID,
		ProductID:   item.ProductID,
		MaterialID:  item.MaterialID,
		OldQuantity: oldQty,
		NewQuantity: item.QuantityUsed,
	}
}

// StockDelta variación de stock que produce el evento: lo consumido sale del stock,
// lo devuelto entra. En los tres casos es old - new.
func (e StockEvent) StockDelta() decimal.Decimal {
	return e.OldQuantity.Sub(e.NewQuantity)
}

// MovementKind tipo de movimiento con el que se registra el evento.
func (e StockEvent) MovementKind() string {
	switch e.Kind {
	case CompositionItemAdded:
		return entity.MovementCompositionAdd
	case CompositionItemRemoved:
		return entity.MovementCompositionRemove
	default:
		return entity.MovementCompositionEdit
	}
}
