package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/application/inventory"
	"github.com/jhoicas/atelier-api/internal/application/pricing"
	"github.com/jhoicas/atelier-api/internal/application/usecase"
)

// ProductHandler maneja productos, su composición, su precio y sus imágenes (protegido).
type ProductHandler struct {
	uc          *usecase.ProductUseCase
	composition *inventory.CompositionUseCase
	pricing     *pricing.PricingUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, composition *inventory.CompositionUseCase, pricingUC *pricing.PricingUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, composition: composition, pricing: pricingUC}
}

// Create godoc
// @Summary      Crear producto
// @Description  Crea el producto y, si trae composición, descuenta el stock de sus materiales en la misma transacción.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	if err := checkItemIDs(in.Composition); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "producto")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "producto")
	}
	return c.JSON(out)
}

// Delete elimina el producto y devuelve al stock los materiales de su composición.
// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetComposition godoc
// @Summary      Reemplazar la composición
// @Description  Items con id se editan (el stock se ajusta por la diferencia), sin id se agregan y los ausentes se eliminan.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del producto"
// @Param        body  body  dto.SetCompositionRequest  true  "Items de la composición"
// @Success      200   {object}  dto.CompositionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/composition [put]
func (h *ProductHandler) SetComposition(c *fiber.Ctx) error {
	var in dto.SetCompositionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := checkItemIDs(in.Items); err != nil {
		return respondError(c, err)
	}
	out, err := h.composition.SetComposition(c.Context(), GetUserID(c), c.Params("id"), in.Items)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Pricing godoc
// @Summary      Desglose de precio
// @Description  Costo de materiales, mano de obra, precio sugerido y ganancia neta con los precios actuales.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.PricingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/pricing [get]
func (h *ProductHandler) Pricing(c *fiber.Ctx) error {
	out, err := h.pricing.ComputePricing(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PersistPrice guarda el precio sugerido como precio calculado del producto.
// POST /api/products/:id/pricing/persist
func (h *ProductHandler) PersistPrice(c *fiber.Ctx) error {
	out, err := h.pricing.PersistPrice(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UploadImage recibe multipart con el campo "image".
// POST /api/products/:id/images/:slot (slot: front, side, back)
func (h *ProductHandler) UploadImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campo image requerido"})
	}
	if fh.Size > usecase.MaxImageSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "TOO_LARGE", Message: "la imagen supera 5MB"})
	}
	f, err := fh.Open()
	if err != nil {
		return badBody(c)
	}
	defer f.Close()

	out, err := h.uc.UploadImage(c.Context(), c.Params("id"), c.Params("slot"), fh.Filename, f, fh.Size, fh.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetImage GET /api/products/:id/images/:slot
func (h *ProductHandler) GetImage(c *fiber.Ctx) error {
	rc, contentType, err := h.uc.GetImage(c.Context(), c.Params("id"), c.Params("slot"))
	if err != nil {
		return respondError(c, err)
	}
	if contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	// fasthttp cierra el stream al terminar de enviarlo
	return c.SendStream(rc)
}
