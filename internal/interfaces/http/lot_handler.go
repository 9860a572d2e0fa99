package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/inventory"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
)

// LotHandler maneja las peticiones HTTP de lotes (protegido).
type LotHandler struct {
	uc *inventory.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *inventory.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

func toLotResponse(l *entity.Lot) dto.LotResponse {
	out := dto.LotResponse{
		ID:           l.ID,
		ProductoID:   l.ProductID,
		NumeroLote:   l.LotNumber,
		Disponible:   l.Available,
		Ubicacion:    l.Location,
		PrecioCompra: l.PurchasePrice,
		PrecioVenta:  l.SalePrice,
		Estado:       l.State,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if l.ExpiryDate != nil {
		out.FechaCaducidad = l.ExpiryDate.Format("2006-01-02")
	}
	return out
}

// Create godoc
// @Summary      Crear lote de un producto
// @Tags         lotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "Datos del lote"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lotes [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	l, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLotResponse(l))
}

// Update godoc
// @Summary      Actualizar lote (caducidad, ubicación, precios)
// @Description  La cantidad disponible no se edita por aquí: cambia solo
// @Description  vía ajustes, recepciones, ventas y devoluciones.
// @Tags         lotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.UpdateLotRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.LotResponse
// @Router       /api/lotes/{id} [put]
func (h *LotHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	l, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLotResponse(l))
}

// ChangeState godoc
// @Summary      Cambio manual de estado del lote
// @Description  Solo admite Disponible y En Cuarentena; el resto de estados
// @Description  los administra la regla de caducidad o el flujo de vencimientos.
// @Tags         lotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.ChangeLotStateRequest  true  "Nuevo estado"
// @Success      200   {object}  map[string]any
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lotes/{id}/estado [put]
func (h *LotHandler) ChangeState(c *fiber.Ctx) error {
	var in dto.ChangeLotStateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ChangeState(c.Context(), c.Params("id"), in.NuevoEstado); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

// Delete godoc
// @Summary      Eliminar lote
// @Description  Bloqueado si el lote tiene stock o registros asociados.
// @Tags         lotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/lotes/{id} [delete]
func (h *LotHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

// GetByID godoc
// @Summary      Obtener lote por ID
// @Tags         lotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lotes/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	l, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if l == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
	}
	return c.JSON(toLotResponse(l))
}

// ListByProduct godoc
// @Summary      Listar lotes de un producto
// @Tags         lotes
// @Security     Bearer
// @Produce      json
// @Param        producto_id  query  string  true  "ID del producto"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/lotes [get]
func (h *LotHandler) ListByProduct(c *fiber.Ctx) error {
	productID := c.Query("producto_id")
	if productID == "" {
		return writeError(c, domain.ErrMissingProduct)
	}
	list, err := h.uc.ListByProduct(productID)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.LotResponse, 0, len(list))
	for _, l := range list {
		items = append(items, toLotResponse(l))
	}
	return c.JSON(items)
}

// SearchSellable godoc
// @Summary      Buscar lotes vendibles de un producto
// @Description  Solo lotes en estado Disponible o Próximo a Vencer, en orden
// @Description  FIFO por caducidad.
// @Tags         lotes
// @Security     Bearer
// @Produce      json
// @Param        producto_id  query  string  true   "ID del producto"
// @Param        q            query  string  false  "Número de lote"
// @Param        limit        query  int     false  "Límite"  default(10)
// @Success      200  {array}  dto.LotResponse
// @Router       /api/lotes/vendibles [get]
func (h *LotHandler) SearchSellable(c *fiber.Ctx) error {
	productID := c.Query("producto_id")
	if productID == "" {
		return writeError(c, domain.ErrMissingProduct)
	}
	list, err := h.uc.SearchSellable(productID, c.Query("q"), c.QueryInt("limit", 10))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.LotResponse, 0, len(list))
	for _, l := range list {
		items = append(items, toLotResponse(l))
	}
	return c.JSON(items)
}
