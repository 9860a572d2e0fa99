package dto

import "github.com/shopspring/decimal"

// RestockForm cabecera para POST /api/solicitudes.
type RestockForm struct {
	NombreDocumento string `json:"nombre_documento"`
	Comentario      string `json:"comentario,omitempty"`
}

// RestockLine renglón de la solicitud a bodega central.
type RestockLine struct {
	ProductoID    string `json:"producto_id"`
	Cantidad      int    `json:"cantidad"`
	Urgente       bool   `json:"urgente"`
	Observaciones string `json:"observaciones,omitempty"`
}

// CreateRestockRequest body para registrar una solicitud de faltantes.
type CreateRestockRequest struct {
	FormData RestockForm   `json:"form_data"`
	Detalles []RestockLine `json:"detalles"`
}

// ChangeRestockStateRequest body para PUT /api/solicitudes/:id/estado.
type ChangeRestockStateRequest struct {
	NuevoEstado string `json:"nuevo_estado"`
}

// RestockSuggestionDTO producto bajo el umbral de stock mínimo, con la
// cantidad sugerida para volver al nivel objetivo.
type RestockSuggestionDTO struct {
	ProductoID          string          `json:"producto_id"`
	Codigo              string          `json:"codigo"`
	Nombre              string          `json:"nombre"`
	StockMinimo         int             `json:"stock_minimo"`
	StockDisponible     int             `json:"stock_disponible"`
	CantidadSugerida    int             `json:"cantidad_sugerida"`
	UltimoCostoUnitario decimal.Decimal `json:"ultimo_costo_unitario"`
}

// RestockDetailDTO renglón de una solicitud registrada.
type RestockDetailDTO struct {
	ProductoID    string `json:"producto_id"`
	Producto      string `json:"producto"`
	Cantidad      int    `json:"cantidad"`
	Urgente       bool   `json:"urgente"`
	Observaciones string `json:"observaciones,omitempty"`
}

// RestockResponse cabecera + renglones para vistas de detalle.
type RestockResponse struct {
	ID        string             `json:"id"`
	Fecha     string             `json:"fecha"`
	Documento string             `json:"documento"`
	Estado    string             `json:"estado"`
	Usuario   string             `json:"usuario"`
	Detalles  []RestockDetailDTO `json:"detalles"`
}
