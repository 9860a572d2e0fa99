package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de lote. Disponible y En Cuarentena los elige el usuario;
// Próximo a Vencer y Vencido los maneja la regla automática de caducidad;
// Retirado y Devuelto son estados "fuertes": la regla nunca los pisa.
const (
	LotStateDisponible = "Disponible"
	LotStateCuarentena = "En Cuarentena"
	LotStateProximo    = "Próximo a Vencer"
	LotStateVencido    = "Vencido"
	LotStateRetirado   = "Retirado"
	LotStateDevuelto   = "Devuelto"
)

// Lot representa un lote físico de un producto, con su propia cantidad,
// fecha de caducidad y estado. (producto, número de lote) es único.
type Lot struct {
	ID            string
	ProductID     string
	LotNumber     string
	ExpiryDate    *time.Time // fecha de caducidad (puede no tener)
	Available     int        // cantidad disponible, nunca negativa
	Location      string     // ubicación en almacén
	PurchasePrice *decimal.Decimal
	SalePrice     *decimal.Decimal
	State         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsStrongState indica si el estado es fuerte (Retirado/Devuelto):
// la regla automática de caducidad no debe sobreescribirlo.
func IsStrongState(state string) bool {
	return state == LotStateRetirado || state == LotStateDevuelto
}

// IsAutoState indica si el estado lo administra la regla de caducidad.
func IsAutoState(state string) bool {
	return state == LotStateVencido || state == LotStateProximo
}

// IsStrongState indica si el lote está en un estado fuerte.
func (l *Lot) IsStrongState() bool { return IsStrongState(l.State) }

// IsAutoState indica si el estado del lote lo administra la regla de caducidad.
func (l *Lot) IsAutoState() bool { return IsAutoState(l.State) }

// SellableLotStates estados en los que un lote se ofrece para salidas.
var SellableLotStates = []string{LotStateDisponible, LotStateProximo}
