package ports

import (
	"context"

	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Products      repository.ProductRepository
	Lots          repository.LotRepository
	Movements     repository.MovementRepository
	Adjustments   repository.AdjustmentRepository
	Receptions    repository.ReceptionRepository
	ExpiryReports repository.ExpiryReportRepository
	Restocks      repository.RestockRepository
	Prescriptions repository.PrescriptionRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
