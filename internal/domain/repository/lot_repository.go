package repository

import (
	"time"

	"github.com/saif-farmacia/saif-api/internal/domain/entity"
)

// LotRepository puerto de persistencia de lotes. Las cantidades solo se
// mutan con AddQuantity/SetQuantityAndState, siempre tras bloquear la fila
// (GetForUpdate / ListForUpdate / ListSellableForUpdate) dentro de una
// transacción.
type LotRepository interface {
	Create(l *entity.Lot) error
	Update(l *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	GetByProductAndNumber(productID, lotNumber string) (*entity.Lot, error)

	// GetForUpdate relee el lote bloqueando la fila (SELECT ... FOR UPDATE).
	GetForUpdate(id string) (*entity.Lot, error)
	// ListForUpdate bloquea y devuelve varios lotes por id.
	ListForUpdate(ids []string) ([]*entity.Lot, error)
	// ListSellableForUpdate lotes con stock de un producto en orden FIFO por
	// caducidad (fecha ascendente, sin fecha al final, luego id), bloqueados.
	ListSellableForUpdate(productID string) ([]*entity.Lot, error)

	// AddQuantity suma delta (puede ser negativo) a cantidad_disponible.
	AddQuantity(id string, delta int) error
	// SetQuantityAndState fija cantidad y estado en una sola actualización.
	SetQuantityAndState(id string, quantity int, state string) error
	UpdateState(id, state string) error

	ListByProduct(productID string) ([]*entity.Lot, error)
	SearchByProduct(productID, term string, states []string, limit int) ([]*entity.Lot, error)
	// ListExpiredWithStock lotes vencidos a la fecha con stock positivo.
	ListExpiredWithStock(productID string, today time.Time) ([]*entity.Lot, error)
	// TotalAvailable stock agregado del producto a través de todos sus lotes.
	TotalAvailable(productID string) (int, error)

	// Actualización masiva de estados por caducidad (comando batch).
	// Respetan los estados fuertes y devuelven cuántas filas cambiaron.
	MarkExpired(today time.Time) (int64, error)
	MarkNearExpiry(today time.Time, windowDays int) (int64, error)
	RevertNearExpiry(today time.Time, windowDays int) (int64, error)

	Delete(id string) error
}
