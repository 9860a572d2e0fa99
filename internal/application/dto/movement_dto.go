package dto

import "time"

// MovementResponse un asiento del libro de movimientos.
type MovementResponse struct {
	ID         string    `json:"id"`
	LoteID     string    `json:"lote_id"`
	Tipo       string    `json:"tipo"`
	Cantidad   int       `json:"cantidad"`
	Fecha      time.Time `json:"fecha"`
	Usuario    string    `json:"usuario"`
	Referencia string    `json:"referencia,omitempty"`
	Comentario string    `json:"comentario,omitempty"`
	Estado     string    `json:"estado"`
}

// PrescriptionResponse registro de receta asociada a una venta.
type PrescriptionResponse struct {
	ID            string    `json:"id"`
	FechaVenta    time.Time `json:"fecha_venta"`
	NumeroFactura string    `json:"numero_factura"`
	NumeroReceta  string    `json:"numero_receta"`
	ProductoID    string    `json:"producto_id"`
	Usuario       string    `json:"usuario"`
}
