package entity

import "time"

// Estados de solicitud de faltantes a bodega central.
const (
	RestockStatePendiente = "Pendiente"
	RestockStateEnviada   = "Enviada"
	RestockStateAtendida  = "Atendida"
	RestockStateCancelada = "Cancelada"
)

// RestockTransitions transiciones permitidas de la solicitud.
var RestockTransitions = map[string][]string{
	RestockStatePendiente: {RestockStateEnviada, RestockStateCancelada},
	RestockStateEnviada:   {RestockStateAtendida},
	RestockStateAtendida:  {},
	RestockStateCancelada: {},
}

// CanTransitionRestock indica si la solicitud puede pasar de from a to.
func CanTransitionRestock(from, to string) bool {
	for _, s := range RestockTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// RestockRequest solicitud de productos faltantes a bodega central.
type RestockRequest struct {
	ID       string
	Date     time.Time
	Document string
	UserID   string
	State    string
}

// RestockRequestDetail una línea solicitada.
type RestockRequestDetail struct {
	ID           string
	RequestID    string
	ProductID    string
	Quantity     int
	Urgent       bool
	Observations string
}
