package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrStorageDisabled    = errors.New("almacenamiento de imágenes no configurado")
)

// Variantes de validación: errors.Is(err, ErrInvalidInput) sigue siendo verdadero.
var (
	ErrMaterialOutOfStock = fmt.Errorf("%w: el material no tiene stock disponible", ErrInvalidInput)
	ErrInvalidQuantity    = fmt.Errorf("%w: la cantidad debe ser mayor que cero", ErrInvalidInput)
	ErrInvalidPrice       = fmt.Errorf("%w: el precio no puede ser negativo", ErrInvalidInput)
)
