package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/domain"
)

// RequireUUIDParam corta con 404 cuando un parámetro de ruta no es un UUID: ningún recurso
// tiene ese id y la consulta no debe llegar a la base.
func RequireUUIDParam(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			if !isUUID(c.Params(name)) {
				return respondError(c, domain.ErrNotFound)
			}
		}
		return c.Next()
	}
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// checkID valida un id opcional de cuerpo o query. Vacío significa ausente.
func checkID(field, id string) error {
	if id == "" || isUUID(id) {
		return nil
	}
	return fmt.Errorf("%w: %s no es un id válido", domain.ErrInvalidInput, field)
}

// checkOptionalID igual que checkID para punteros.
func checkOptionalID(field string, id *string) error {
	if id == nil {
		return nil
	}
	return checkID(field, *id)
}

// checkItemIDs valida los ids de las líneas de composición.
func checkItemIDs(items []dto.CompositionItemInput) error {
	for _, it := range items {
		if err := checkID("id", it.ID); err != nil {
			return err
		}
		if err := checkID("material_id", it.MaterialID); err != nil {
			return err
		}
	}
	return nil
}
