package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/query"
	"github.com/saif-farmacia/saif-api/internal/application/restock"
)

// RestockHandler maneja solicitudes de faltantes a bodega central.
type RestockHandler struct {
	uc      *restock.UseCase
	queryUC *query.UseCase
}

// NewRestockHandler construye el handler.
func NewRestockHandler(uc *restock.UseCase, queryUC *query.UseCase) *RestockHandler {
	return &RestockHandler{uc: uc, queryUC: queryUC}
}

// Suggestions godoc
// @Summary      Productos bajo el umbral de stock mínimo
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/solicitudes/sugerencias [get]
func (h *RestockHandler) Suggestions(c *fiber.Ctx) error {
	items, err := h.uc.Suggestions()
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"sugerencias": items})
}

// Create godoc
// @Summary      Registrar solicitud de faltantes
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRestockRequest  true  "Documento y renglones solicitados"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Router       /api/solicitudes [post]
func (h *RestockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRestockRequest
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
// @Summary      Listar solicitudes de faltantes
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite de página"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/solicitudes [get]
func (h *RestockHandler) List(c *fiber.Ctx) error {
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
	return ok(c, fiber.StatusOK, fiber.Map{"solicitudes": out})
}

// GetByID godoc
// @Summary      Detalle de una solicitud de faltantes
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RestockResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/solicitudes/{id} [get]
func (h *RestockHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.queryUC.RestockDetail(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"solicitud": out})
}

// ChangeState godoc
// @Summary      Cambiar el estado de una solicitud
// @Description  Las solicitudes no mueven stock: el cambio de estado sólo
// @Description  registra el avance del trámite con bodega central.
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ChangeRestockStateRequest  true  "Nuevo estado"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/solicitudes/{id}/estado [put]
func (h *RestockHandler) ChangeState(c *fiber.Ctx) error {
	var in dto.ChangeRestockStateRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if err := h.uc.ChangeState(c.Context(), c.Params("id"), in.NuevoEstado); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "estado actualizado"})
}
