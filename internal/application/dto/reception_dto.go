package dto

import "github.com/shopspring/decimal"

// ReceptionForm cabecera para POST /api/recepciones.
type ReceptionForm struct {
	NumeroEnvioBodega string `json:"numero_envio_bodega"`
	FechaRecepcion    string `json:"fecha_recepcion,omitempty"`
	Comentario        string `json:"comentario,omitempty"`
}

// ReceptionLine renglón recibido. Igual que en ajustes, lote_id refiere un
// lote existente y numero_lote crea uno nuevo.
type ReceptionLine struct {
	ProductoID       string          `json:"producto_id"`
	LoteID           string          `json:"lote_id,omitempty"`
	NumeroLote       string          `json:"numero_lote,omitempty"`
	FechaCaducidad   string          `json:"fecha_caducidad,omitempty"`
	Ubicacion        string          `json:"ubicacion,omitempty"`
	CantidadRecibida int             `json:"cantidad_recibida"`
	CostoUnitario    decimal.Decimal `json:"costo_unitario"`
}

// CreateReceptionRequest body para registrar una recepción de bodega.
type CreateReceptionRequest struct {
	FormData ReceptionForm   `json:"form_data"`
	Detalles []ReceptionLine `json:"detalles"`
}

// ChangeReceptionStateRequest body para PUT /api/recepciones/:id/estado.
// Motivo es obligatorio cuando el nuevo estado es Rechazado.
type ChangeReceptionStateRequest struct {
	NuevoEstado string `json:"nuevo_estado"`
	Motivo      string `json:"motivo,omitempty"`
}

// ReceptionDetailDTO renglón de una recepción registrada.
type ReceptionDetailDTO struct {
	LoteID           string          `json:"lote_id"`
	NumeroLote       string          `json:"numero_lote"`
	Producto         string          `json:"producto"`
	CantidadRecibida int             `json:"cantidad_recibida"`
	CostoUnitario    decimal.Decimal `json:"costo_unitario"`
}

// ReceptionResponse cabecera + renglones para vistas de detalle.
type ReceptionResponse struct {
	ID                string               `json:"id"`
	NumeroEnvioBodega string               `json:"numero_envio_bodega"`
	FechaRecepcion    string               `json:"fecha_recepcion"`
	Estado            string               `json:"estado"`
	Usuario           string               `json:"usuario"`
	Detalles          []ReceptionDetailDTO `json:"detalles"`
}
