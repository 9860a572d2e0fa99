package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/inventory"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
)

// LedgerHandler consultas de sólo lectura sobre el libro de movimientos y
// el registro de recetas.
type LedgerHandler struct {
	uc *inventory.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *inventory.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

func toMovementResponses(movs []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementResponse{
			ID:         m.ID,
			LoteID:     m.LotID,
			Tipo:       m.Type,
			Cantidad:   m.Quantity,
			Fecha:      m.Date,
			Usuario:    m.UserID,
			Referencia: m.Reference,
			Comentario: m.Comment,
			Estado:     m.State,
		})
	}
	return out
}

// Movements godoc
// @Summary      Consultar el libro de movimientos
// @Description  Por lote (kardex, más recientes primero) o por referencia
// @Description  con tipo. Uno de los dos filtros es obligatorio.
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        lote_id     query  string  false  "Kardex de un lote"
// @Param        referencia  query  string  false  "Movimientos de una transacción"
// @Param        tipo        query  string  false  "Tipo de movimiento al filtrar por referencia"
// @Param        limit       query  int     false  "Límite de página"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/movimientos [get]
func (h *LedgerHandler) Movements(c *fiber.Ctx) error {
	if loteID := c.Query("lote_id"); loteID != "" {
		page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
		page.DefaultPage()
		movs, err := h.uc.MovimientosPorLote(loteID, page.Limit, page.Offset)
		if err != nil {
			return writeError(c, err)
		}
		return ok(c, fiber.StatusOK, fiber.Map{"movimientos": toMovementResponses(movs)})
	}

	referencia := c.Query("referencia")
	if referencia == "" {
		return writeError(c, domain.ErrMissingReference)
	}
	movs, err := h.uc.MovimientosPorReferencia(referencia, c.Query("tipo"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"movimientos": toMovementResponses(movs)})
}

// Prescriptions godoc
// @Summary      Consultar el registro de recetas
// @Tags         recetas
// @Security     Bearer
// @Produce      json
// @Param        numero_factura  query  string  false  "Recetas de una factura"
// @Param        limit           query  int     false  "Límite de página"
// @Param        offset          query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/recetas [get]
func (h *LedgerHandler) Prescriptions(c *fiber.Ctx) error {
	var (
		items []*entity.Prescription
		err   error
	)
	if factura := c.Query("numero_factura"); factura != "" {
		items, err = h.uc.RecetasPorFactura(factura)
	} else {
		page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
		page.DefaultPage()
		items, err = h.uc.Recetas(page.Limit, page.Offset)
	}
	if err != nil {
		return writeError(c, err)
	}

	out := make([]dto.PrescriptionResponse, 0, len(items))
	for _, p := range items {
		out = append(out, dto.PrescriptionResponse{
			ID:            p.ID,
			FechaVenta:    p.SoldAt,
			NumeroFactura: p.InvoiceReference,
			NumeroReceta:  p.RxReference,
			ProductoID:    p.ProductID,
			Usuario:       p.UserID,
		})
	}
	return ok(c, fiber.StatusOK, fiber.Map{"recetas": out})
}
