package dto

// ExpiryReportForm cabecera para POST /api/vencimientos/reportes.
type ExpiryReportForm struct {
	Documento     string `json:"documento,omitempty"`
	Observaciones string `json:"observaciones,omitempty"`
}

// ExpiryReportLine renglón del reporte: lote vencido a retirar. La cantidad
// retirada la determina el motor (todo el stock disponible del lote).
type ExpiryReportLine struct {
	LoteID string `json:"lote_id"`
}

// CreateExpiryReportRequest body para generar un reporte de vencimiento.
type CreateExpiryReportRequest struct {
	FormData ExpiryReportForm   `json:"form_data"`
	Detalles []ExpiryReportLine `json:"detalles"`
}

// ChangeExpiryReportStateRequest body para PUT /api/vencimientos/reportes/:id/estado.
type ChangeExpiryReportStateRequest struct {
	NuevoEstado string `json:"nuevo_estado"`
}

// ExpiryReportDetailDTO renglón de un reporte registrado.
type ExpiryReportDetailDTO struct {
	LoteID            string `json:"lote_id"`
	NumeroLote        string `json:"numero_lote"`
	Producto          string `json:"producto"`
	FechaCaducidad    string `json:"fecha_caducidad,omitempty"`
	CantidadReportada int    `json:"cantidad_reportada"`
}

// ExpiryReportResponse cabecera + renglones para vistas de detalle.
type ExpiryReportResponse struct {
	ID            string                  `json:"id"`
	Fecha         string                  `json:"fecha"`
	Documento     string                  `json:"documento"`
	Observaciones string                  `json:"observaciones,omitempty"`
	Estado        string                  `json:"estado"`
	Usuario       string                  `json:"usuario"`
	Detalles      []ExpiryReportDetailDTO `json:"detalles"`
}

// ReconcileResultDTO resumen del comando batch de actualización de estados.
type ReconcileResultDTO struct {
	Vencidos        int64 `json:"vencidos"`
	ProximosAVencer int64 `json:"proximos_a_vencer"`
	Revertidos      int64 `json:"revertidos"`
}
