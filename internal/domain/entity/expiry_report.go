package entity

import "time"

// Estados del reporte de vencimiento y sus transiciones permitidas.
const (
	ExpiryReportStateCompletado = "Completado"
	ExpiryReportStateEnviado    = "Enviado"
	ExpiryReportStateCancelado  = "Cancelado"
)

// ExpiryReportTransitions transiciones de estado permitidas en el reporte.
// Enviado y Cancelado son terminales.
var ExpiryReportTransitions = map[string][]string{
	ExpiryReportStateCompletado: {ExpiryReportStateEnviado, ExpiryReportStateCancelado},
	ExpiryReportStateEnviado:    {},
	ExpiryReportStateCancelado:  {},
}

// CanTransitionExpiryReport indica si el reporte puede pasar de from a to.
func CanTransitionExpiryReport(from, to string) bool {
	for _, s := range ExpiryReportTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ExpiryReport encabezado de un reporte de vencimiento: retira del
// inventario lotes ya vencidos con stock, dejándolos en cero y Devuelto.
type ExpiryReport struct {
	ID           string
	Date         time.Time
	Document     string
	Observations string
	UserID       string
	State        string
}

// ExpiryReportDetail cantidad retirada de un lote por el reporte.
type ExpiryReportDetail struct {
	ID       string
	ReportID string
	LotID    string
	Quantity int
}
