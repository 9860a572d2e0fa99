package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLotRequest entrada para crear un lote de un producto.
type CreateLotRequest struct {
	ProductoID     string           `json:"producto_id" validate:"required,uuid"`
	NumeroLote     string           `json:"numero_lote" validate:"required,min=1,max=100"`
	FechaCaducidad string           `json:"fecha_caducidad,omitempty"`
	Ubicacion      string           `json:"ubicacion"`
	PrecioCompra   *decimal.Decimal `json:"precio_compra"`
	PrecioVenta    *decimal.Decimal `json:"precio_venta"`
}

// UpdateLotRequest entrada para actualizar un lote. La cantidad disponible
// no se edita por aquí: solo cambia vía ajustes, recepciones, ventas y
// devoluciones.
type UpdateLotRequest struct {
	FechaCaducidad *string          `json:"fecha_caducidad"`
	Ubicacion      *string          `json:"ubicacion"`
	PrecioCompra   *decimal.Decimal `json:"precio_compra"`
	PrecioVenta    *decimal.Decimal `json:"precio_venta"`
}

// ChangeLotStateRequest cambio manual de estado (Disponible / En Cuarentena).
type ChangeLotStateRequest struct {
	NuevoEstado string `json:"nuevo_estado" validate:"required"`
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID             string           `json:"id"`
	ProductoID     string           `json:"producto_id"`
	Producto       string           `json:"producto,omitempty"`
	NumeroLote     string           `json:"numero_lote"`
	FechaCaducidad string           `json:"fecha_caducidad,omitempty"`
	Disponible     int              `json:"cantidad_disponible"`
	Ubicacion      string           `json:"ubicacion"`
	PrecioCompra   *decimal.Decimal `json:"precio_compra,omitempty"`
	PrecioVenta    *decimal.Decimal `json:"precio_venta,omitempty"`
	Estado         string           `json:"estado"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}
