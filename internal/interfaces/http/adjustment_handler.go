package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/saif-farmacia/saif-api/internal/application/adjustment"
	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/query"
	"github.com/saif-farmacia/saif-api/internal/application/reports"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
)

// AdjustmentHandler maneja las peticiones HTTP de ajustes de inventario.
type AdjustmentHandler struct {
	uc      *adjustment.UseCase
	queryUC *query.UseCase
	pdfUC   *reports.PDFUseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *adjustment.UseCase, queryUC *query.UseCase, pdfUC *reports.PDFUseCase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc, queryUC: queryUC, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Registrar ajuste de inventario (ingreso o salida)
// @Tags         ajustes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "Cabecera y renglones del ajuste"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Router       /api/ajustes [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	id, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"id": id})
}

// List godoc
// @Summary      Listar ajustes por tipo
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        tipo    query  string  false  "Ingreso o Salida"  default(Ingreso)
// @Param        limit   query  int     false  "Límite de página"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/ajustes [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	tipo := c.Query("tipo", entity.AdjustmentKindIngreso)
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()

	items, err := h.uc.ListByKind(tipo, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]fiber.Map, 0, len(items))
	for _, a := range items {
		out = append(out, fiber.Map{
			"id":      a.ID,
			"fecha":   a.Date.Format("2006-01-02 15:04"),
			"tipo":    a.Kind,
			"estado":  a.State,
			"usuario": a.UserID,
		})
	}
	return ok(c, fiber.StatusOK, fiber.Map{"ajustes": out})
}

// GetByID godoc
// @Summary      Detalle de un ajuste con sus renglones
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/ajustes/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.queryUC.AdjustmentDetail(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"ajuste": out})
}

// Cancel godoc
// @Summary      Anular un ajuste revirtiendo su efecto sobre el stock
// @Tags         ajustes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ajuste"
// @Param        body  body  dto.CancelRequest  false  "Motivo de la anulación"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/ajustes/{id}/anular [post]
func (h *AdjustmentHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if err := h.uc.Cancel(c.Context(), GetUserID(c), c.Params("id"), in.Motivo); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "ajuste anulado"})
}

// PDF godoc
// @Summary      Comprobante PDF de un ajuste
// @Tags         ajustes
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {file}  binary
// @Router       /api/ajustes/{id}/pdf [get]
func (h *AdjustmentHandler) PDF(c *fiber.Ctx) error {
	pdf, filename, err := h.pdfUC.AdjustmentPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
