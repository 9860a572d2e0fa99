package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/query"
	"github.com/saif-farmacia/saif-api/internal/application/receiving"
	"github.com/saif-farmacia/saif-api/internal/application/reports"
)

// ReceptionHandler maneja las peticiones HTTP de recepciones de bodega.
type ReceptionHandler struct {
	uc      *receiving.UseCase
	queryUC *query.UseCase
	pdfUC   *reports.PDFUseCase
}

// NewReceptionHandler construye el handler.
func NewReceptionHandler(uc *receiving.UseCase, queryUC *query.UseCase, pdfUC *reports.PDFUseCase) *ReceptionHandler {
	return &ReceptionHandler{uc: uc, queryUC: queryUC, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Registrar recepción de envío de bodega
// @Tags         recepciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceptionRequest  true  "Cabecera y renglones recibidos"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Router       /api/recepciones [post]
func (h *ReceptionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceptionRequest
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
// @Summary      Listar recepciones
// @Tags         recepciones
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite de página"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/recepciones [get]
func (h *ReceptionHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()

	items, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]fiber.Map, 0, len(items))
	for _, r := range items {
		out = append(out, fiber.Map{
			"id":                  r.ID,
			"numero_envio_bodega": r.ShipmentNumber,
			"fecha_recepcion":     r.ReceivedAt.Format("2006-01-02 15:04"),
			"estado":              r.State,
			"usuario":             r.UserID,
		})
	}
	return ok(c, fiber.StatusOK, fiber.Map{"recepciones": out})
}

// GetByID godoc
// @Summary      Detalle de una recepción con sus renglones
// @Tags         recepciones
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceptionResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/recepciones/{id} [get]
func (h *ReceptionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.queryUC.ReceptionDetail(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"recepcion": out})
}

// ChangeState godoc
// @Summary      Cambiar el estado de una recepción
// @Description  Rechazar exige motivo y revierte el stock ingresado.
// @Tags         recepciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la recepción"
// @Param        body  body  dto.ChangeReceptionStateRequest  true  "Nuevo estado"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/recepciones/{id}/estado [put]
func (h *ReceptionHandler) ChangeState(c *fiber.Ctx) error {
	var in dto.ChangeReceptionStateRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if err := h.uc.ChangeState(c.Context(), GetUserID(c), c.Params("id"), in); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "estado actualizado"})
}

// PDF godoc
// @Summary      Comprobante PDF de una recepción
// @Tags         recepciones
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la recepción"
// @Success      200  {file}  binary
// @Router       /api/recepciones/{id}/pdf [get]
func (h *ReceptionHandler) PDF(c *fiber.Ctx) error {
	pdf, filename, err := h.pdfUC.ReceptionPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
