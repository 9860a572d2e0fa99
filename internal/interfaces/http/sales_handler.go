package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/query"
	"github.com/saif-farmacia/saif-api/internal/application/sales"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

// SalesHandler maneja ventas y devoluciones sobre el libro de movimientos.
type SalesHandler struct {
	uc      *sales.UseCase
	queryUC *query.UseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *sales.UseCase, queryUC *query.UseCase) *SalesHandler {
	return &SalesHandler{uc: uc, queryUC: queryUC}
}

func toReferenceList(items []repository.ReferenceSummary) []fiber.Map {
	out := make([]fiber.Map, 0, len(items))
	for _, s := range items {
		out = append(out, fiber.Map{
			"referencia": s.Reference,
			"fecha":      s.Date.Format("2006-01-02 15:04"),
			"usuario":    s.UserID,
			"estado":     s.State,
		})
	}
	return out
}

// CreateVenta godoc
// @Summary      Registrar venta descontando stock FIFO por caducidad
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Factura y renglones vendidos"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Router       /api/ventas [post]
func (h *SalesHandler) CreateVenta(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	referencia, err := h.uc.CreateVenta(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"referencia": referencia})
}

// ListVentas godoc
// @Summary      Listar ventas agrupadas por factura
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite de página"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/ventas [get]
func (h *SalesHandler) ListVentas(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()

	items, err := h.uc.ListVentas(page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"ventas": toReferenceList(items)})
}

// VentaDetail godoc
// @Summary      Movimientos de una venta
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        referencia  path  string  true  "Número de factura"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/ventas/{referencia} [get]
func (h *SalesHandler) VentaDetail(c *fiber.Ctx) error {
	out, err := h.queryUC.TransactionDetail(c.Params("referencia"), entity.MovementTypeVEN)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"venta": out})
}

// CancelVenta godoc
// @Summary      Cancelar una venta devolviendo el stock a sus lotes
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        referencia  path  string  true  "Número de factura"
// @Param        body        body  dto.CancelRequest  false  "Motivo"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/ventas/{referencia}/anular [post]
func (h *SalesHandler) CancelVenta(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if err := h.uc.CancelVenta(c.Context(), GetUserID(c), c.Params("referencia"), in.Motivo); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "venta cancelada"})
}

// CreateDevolucion godoc
// @Summary      Registrar devolución de una venta
// @Tags         devoluciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "Factura original y renglones devueltos"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Router       /api/devoluciones [post]
func (h *SalesHandler) CreateDevolucion(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if err := h.uc.CreateDevolucion(c.Context(), GetUserID(c), in); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"referencia": in.FormData.NumeroFactura})
}

// ListDevoluciones godoc
// @Summary      Listar devoluciones agrupadas por factura
// @Tags         devoluciones
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite de página"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/devoluciones [get]
func (h *SalesHandler) ListDevoluciones(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()

	items, err := h.uc.ListDevoluciones(page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"devoluciones": toReferenceList(items)})
}

// DevolucionDetail godoc
// @Summary      Movimientos de una devolución
// @Tags         devoluciones
// @Security     Bearer
// @Produce      json
// @Param        referencia  path  string  true  "Número de factura"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/devoluciones/{referencia} [get]
func (h *SalesHandler) DevolucionDetail(c *fiber.Ctx) error {
	out, err := h.queryUC.TransactionDetail(c.Params("referencia"), entity.MovementTypeDEV)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"devolucion": out})
}

// CancelDevolucion godoc
// @Summary      Cancelar una devolución descontando de nuevo el stock
// @Tags         devoluciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        referencia  path  string  true  "Número de factura"
// @Param        body        body  dto.CancelRequest  false  "Motivo"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/devoluciones/{referencia}/anular [post]
func (h *SalesHandler) CancelDevolucion(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if err := h.uc.CancelDevolucion(c.Context(), GetUserID(c), c.Params("referencia"), in.Motivo); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "devolución cancelada"})
}

// LotesVendidos godoc
// @Summary      Lotes vendidos de un producto bajo una factura
// @Description  Base para armar una devolución: cuánto se vendió por lote y
// @Description  cuánto admite devolución.
// @Tags         devoluciones
// @Security     Bearer
// @Produce      json
// @Param        numero_factura  query  string  true  "Factura original"
// @Param        producto_id     query  string  true  "Producto vendido"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/devoluciones/lotes-por-factura [get]
func (h *SalesHandler) LotesVendidos(c *fiber.Ctx) error {
	referencia := c.Query("numero_factura")
	productoID := c.Query("producto_id")
	items, err := h.queryUC.SoldLots(referencia, productoID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"lotes": items})
}
