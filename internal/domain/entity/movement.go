package entity

import "time"

// Tipos de movimiento de inventario con su naturaleza (+1 suma stock, -1 resta).
const (
	MovementTypeREC = "REC" // recepción de envío (+1)
	MovementTypeVEN = "VEN" // venta (-1)
	MovementTypeDEV = "DEV" // devolución de venta (+1)
	MovementTypeAJI = "AJI" // ajuste de ingreso (+1)
	MovementTypeAJS = "AJS" // ajuste de salida (-1)
	MovementTypeRET = "RET" // retiro por vencimiento (-1)
)

// Estados de movimiento.
const (
	MovementStateCompletado = "Completado"
	MovementStateCancelado  = "Cancelado"
)

// MovementNature devuelve la naturaleza del tipo: +1 entrada, -1 salida,
// 0 si el tipo no existe en el catálogo.
func MovementNature(movType string) int {
	switch movType {
	case MovementTypeREC, MovementTypeDEV, MovementTypeAJI:
		return 1
	case MovementTypeVEN, MovementTypeAJS, MovementTypeRET:
		return -1
	}
	return 0
}

// Movement es una entrada del libro de movimientos: un cambio de cantidad
// con signo sobre un lote. Inmutable una vez creada, salvo estado y
// comentario que pueden actualizarse una única vez al cancelar.
type Movement struct {
	ID        string
	LotID     string
	Type      string
	Quantity  int // con signo según la naturaleza del tipo
	Date      time.Time
	UserID    string
	Reference string // agrupa movimientos de una misma transacción (factura, envío)
	Comment   string
	State     string // Completado | Cancelado
}
