package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrAlreadyCancelled   = errors.New("ya está cancelado")
	ErrNoDetails          = errors.New("no se enviaron detalles")
	ErrMissingProduct     = errors.New("falta producto")
	ErrMissingLot         = errors.New("falta número de lote")
	ErrInvalidQuantity    = errors.New("cantidad inválida")
	ErrMissingReference   = errors.New("referencia de transacción requerida")
	ErrMissingReason      = errors.New("debe indicar un motivo")
	ErrUnknownState       = errors.New("estado no permitido")
	ErrLotProductMismatch = errors.New("el lote no pertenece al producto")
	ErrLotNotSold         = errors.New("el lote no figura en la factura")
	ErrReturnExceedsSold  = errors.New("la devolución supera lo vendido en la factura")
	ErrLotNotExpired      = errors.New("el lote aún no ha vencido")
	ErrLotModified        = errors.New("el lote fue modificado después del reporte")
	ErrLotInUse           = errors.New("el lote tiene registros asociados")
	ErrProductHasStock    = errors.New("el producto tiene stock disponible")
	ErrDownstreamMovement = errors.New("existen movimientos de salida posteriores")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
)

// Shortfall cuánto stock falta para cubrir la cantidad solicitada de un producto.
type Shortfall struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

// Faltan devuelve las unidades faltantes.
func (s Shortfall) Faltan() int { return s.Requested - s.Available }

// StockShortfallError agrupa los productos sin stock suficiente de una venta.
// La venta completa se rechaza antes de tocar cualquier lote.
type StockShortfallError struct {
	Shortfalls []Shortfall
}

func (e *StockShortfallError) Error() string {
	msgs := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		msgs = append(msgs, fmt.Sprintf(
			"stock insuficiente para '%s': solicitado %d, disponible %d",
			s.ProductName, s.Requested, s.Available,
		))
	}
	return strings.Join(msgs, "; ")
}

// Is permite detectarlo con errors.Is(err, domain.ErrInsufficientStock).
func (e *StockShortfallError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Messages devuelve un mensaje por producto faltante, para la respuesta JSON.
func (e *StockShortfallError) Messages() []string {
	msgs := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		msgs = append(msgs, fmt.Sprintf(
			"Stock insuficiente para '%s'. Faltan %d.", s.ProductName, s.Faltan(),
		))
	}
	return msgs
}

// LineError envuelve un error de validación con el número de línea del detalle.
func LineError(line int, err error) error {
	return fmt.Errorf("línea %d: %w", line, err)
}
