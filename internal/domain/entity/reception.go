package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de recepción de envío.
const (
	ReceptionStateCompleto  = "Recibido Completo"
	ReceptionStateParcial   = "Recibido Parcialmente"
	ReceptionStateRechazado = "Rechazado"
)

// Reception encabezado de una recepción de envío desde bodega central.
type Reception struct {
	ID             string
	ShipmentNumber string // número de envío de bodega, referencia del libro
	ReceivedAt     time.Time
	UserID         string
	State          string
}

// ReceptionDetail una línea recibida: lote y cantidad con su costo unitario.
type ReceptionDetail struct {
	ID          string
	ReceptionID string
	LotID       string
	Quantity    int
	UnitCost    decimal.Decimal
}
