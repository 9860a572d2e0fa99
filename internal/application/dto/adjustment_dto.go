package dto

// AdjustmentForm cabecera para POST /api/ajustes.
type AdjustmentForm struct {
	FechaAjuste string `json:"fecha_ajuste,omitempty"`
	Tipo        string `json:"tipo"`
}

// AdjustmentLine renglón de conteo. Para ingresos puede referir un lote
// existente por lote_id o crear uno nuevo con numero_lote.
type AdjustmentLine struct {
	ProductoID       string `json:"producto_id"`
	LoteID           string `json:"lote_id,omitempty"`
	NumeroLote       string `json:"numero_lote,omitempty"`
	FechaCaducidad   string `json:"fecha_caducidad,omitempty"`
	Ubicacion        string `json:"ubicacion,omitempty"`
	CantidadAjustada int    `json:"cantidad_ajustada"`
}

// CreateAdjustmentRequest body para crear un ajuste de inventario.
type CreateAdjustmentRequest struct {
	FormData AdjustmentForm   `json:"form_data"`
	Detalles []AdjustmentLine `json:"detalles"`
}

// AdjustmentDetailDTO renglón de un ajuste ya registrado.
type AdjustmentDetailDTO struct {
	LoteID          string `json:"lote_id"`
	NumeroLote      string `json:"numero_lote"`
	Producto        string `json:"producto"`
	CantidadSistema int    `json:"cantidad_sistema"`
	CantidadContada int    `json:"cantidad_contada"`
	Diferencia      int    `json:"diferencia"`
}

// AdjustmentResponse cabecera + renglones para vistas de detalle.
type AdjustmentResponse struct {
	ID       string                `json:"id"`
	Fecha    string                `json:"fecha"`
	Tipo     string                `json:"tipo"`
	Estado   string                `json:"estado"`
	Usuario  string                `json:"usuario"`
	Detalles []AdjustmentDetailDTO `json:"detalles"`
}
