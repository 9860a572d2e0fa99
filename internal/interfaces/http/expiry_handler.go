package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/expiry"
	"github.com/saif-farmacia/saif-api/internal/application/query"
	"github.com/saif-farmacia/saif-api/internal/application/reports"
)

// ExpiryHandler maneja reportes de vencimiento y la actualización batch de
// estados de lote.
type ExpiryHandler struct {
	uc      *expiry.UseCase
	queryUC *query.UseCase
	pdfUC   *reports.PDFUseCase
}

// NewExpiryHandler construye el handler.
func NewExpiryHandler(uc *expiry.UseCase, queryUC *query.UseCase, pdfUC *reports.PDFUseCase) *ExpiryHandler {
	return &ExpiryHandler{uc: uc, queryUC: queryUC, pdfUC: pdfUC}
}

// Reconcile godoc
// @Summary      Actualizar estados de lote según fecha de caducidad
// @Description  Marca vencidos y próximos a vencer y revierte lotes cuya
// @Description  fecha se corrigió. Mismo comando que corre el scheduler.
// @Tags         vencimientos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconcileResultDTO
// @Router       /api/vencimientos/actualizar-estados [post]
func (h *ExpiryHandler) Reconcile(c *fiber.Ctx) error {
	result, err := h.uc.Reconcile(c.Context(), time.Now())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"resultado": result})
}

// LotesVencidos godoc
// @Summary      Lotes vencidos con stock disponible
// @Tags         vencimientos
// @Security     Bearer
// @Produce      json
// @Param        producto_id  query  string  false  "Filtrar por producto"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/vencimientos/lotes [get]
func (h *ExpiryHandler) LotesVencidos(c *fiber.Ctx) error {
	lots, err := h.uc.LotesVencidos(c.Query("producto_id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, toLotResponse(l))
	}
	return ok(c, fiber.StatusOK, fiber.Map{"lotes": out})
}

// CreateReporte godoc
// @Summary      Generar reporte de retiro de lotes vencidos
// @Tags         vencimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExpiryReportRequest  true  "Documento y lotes a retirar"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Router       /api/vencimientos/reportes [post]
func (h *ExpiryHandler) CreateReporte(c *fiber.Ctx) error {
	var in dto.CreateExpiryReportRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	id, err := h.uc.CreateReporte(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"id": id})
}

// List godoc
// @Summary      Listar reportes de vencimiento
// @Tags         vencimientos
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite de página"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/vencimientos/reportes [get]
func (h *ExpiryHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()

	items, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]fiber.Map, 0, len(items))
	for _, r := range items {
		out = append(out, fiber.Map{
			"id":        r.ID,
			"fecha":     r.Date.Format("2006-01-02 15:04"),
			"documento": r.Document,
			"estado":    r.State,
			"usuario":   r.UserID,
		})
	}
	return ok(c, fiber.StatusOK, fiber.Map{"reportes": out})
}

// GetByID godoc
// @Summary      Detalle de un reporte de vencimiento
// @Tags         vencimientos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del reporte"
// @Success      200  {object}  dto.ExpiryReportResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/vencimientos/reportes/{id} [get]
func (h *ExpiryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.queryUC.ExpiryReportDetail(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"reporte": out})
}

// ChangeState godoc
// @Summary      Cambiar el estado de un reporte de vencimiento
// @Description  Cancelar devuelve los lotes retirados a estado Vencido con
// @Description  su stock.
// @Tags         vencimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del reporte"
// @Param        body  body  dto.ChangeExpiryReportStateRequest  true  "Nuevo estado"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/vencimientos/reportes/{id}/estado [put]
func (h *ExpiryHandler) ChangeState(c *fiber.Ctx) error {
	var in dto.ChangeExpiryReportStateRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if err := h.uc.ChangeState(c.Context(), GetUserID(c), c.Params("id"), in.NuevoEstado); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "estado actualizado"})
}

// PDF godoc
// @Summary      PDF de un reporte de vencimiento
// @Tags         vencimientos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del reporte"
// @Success      200  {file}  binary
// @Router       /api/vencimientos/reportes/{id}/pdf [get]
func (h *ExpiryHandler) PDF(c *fiber.Ctx) error {
	pdf, filename, err := h.pdfUC.ExpiryReportPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
