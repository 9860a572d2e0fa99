package repository

import (
	"time"

	"github.com/saif-farmacia/saif-api/internal/domain/entity"
)

// SoldLot venta agregada de un lote dentro de una referencia (factura).
type SoldLot struct {
	LotID      string
	LotNumber  string
	ExpiryDate *time.Time
	Sold       int // valor absoluto de lo vendido
	Available  int // stock actual del lote
}

// ReferenceSummary una fila por referencia de transacción para listados.
type ReferenceSummary struct {
	Reference string
	Date      time.Time
	UserID    string
	State     string
}

// MovementRepository puerto del libro de movimientos de inventario.
// Las entradas son inmutables: solo estado y comentario cambian, una vez,
// al cancelar.
type MovementRepository interface {
	Create(m *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	ListByReference(reference, movType string) ([]*entity.Movement, error)
	ListByLot(lotID string, limit, offset int) ([]*entity.Movement, error)
	// ExistsByLot indica si el lote tiene algún asiento registrado.
	ExistsByLot(lotID string) (bool, error)
	// ListReferences agrupa por referencia los movimientos de un tipo.
	ListReferences(movType string, limit, offset int) ([]ReferenceSummary, error)

	// SumCompletedByReferenceAndLot suma con signo las cantidades Completado
	// del tipo dado para (referencia, lote).
	SumCompletedByReferenceAndLot(reference, movType, lotID string) (int, error)
	// SoldLotsByReference lotes vendidos (VEN Completado) de un producto en
	// una factura, con lo vendido y el stock actual.
	SoldLotsByReference(reference, productID string) ([]SoldLot, error)

	// FirstNegativeAfter primer movimiento de naturaleza negativa no
	// cancelado sobre alguno de los lotes desde la fecha dada, o nil.
	FirstNegativeAfter(lotIDs []string, since time.Time) (*entity.Movement, error)

	// CancelByReference marca Cancelado los movimientos Completado del tipo
	// y referencia dados, fijando el comentario. Devuelve cuántos cambió.
	CancelByReference(reference, movType, comment string) (int64, error)
	CancelByID(id, comment string) error
}
