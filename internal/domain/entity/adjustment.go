package entity

import "time"

// Tipos y estados de ajuste de inventario físico.
const (
	AdjustmentKindIngreso = "Ingreso"
	AdjustmentKindSalida  = "Salida"

	AdjustmentStateCompletado = "Completado"
	AdjustmentStateCancelado  = "Cancelado"
)

// Adjustment encabezado de un ajuste de inventario (conteo físico).
type Adjustment struct {
	ID     string
	Date   time.Time
	UserID string
	Kind   string // Ingreso | Salida
	State  string // Completado | Cancelado
}

// AdjustmentDetail una línea del ajuste: cantidad que tenía el sistema,
// cantidad contada y la diferencia con signo (+ ingreso, - salida).
type AdjustmentDetail struct {
	ID           string
	AdjustmentID string
	LotID        string
	SystemQty    int
	CountedQty   int
	Difference   int
}
