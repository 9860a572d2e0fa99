package inventory

import (
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

// LedgerUseCase consultas de solo lectura sobre el libro de movimientos y
// el registro de recetas.
type LedgerUseCase struct {
	movRepo repository.MovementRepository
	rxRepo  repository.PrescriptionRepository
}

// NewLedgerUseCase construye el caso de uso de consultas del libro.
func NewLedgerUseCase(movRepo repository.MovementRepository, rxRepo repository.PrescriptionRepository) *LedgerUseCase {
	return &LedgerUseCase{movRepo: movRepo, rxRepo: rxRepo}
}

// MovimientosPorLote historial de asientos de un lote.
func (uc *LedgerUseCase) MovimientosPorLote(lotID string, limit, offset int) ([]*entity.Movement, error) {
	return uc.movRepo.ListByLot(lotID, limit, offset)
}

// MovimientosPorReferencia asientos de un tipo agrupados bajo una referencia.
func (uc *LedgerUseCase) MovimientosPorReferencia(referencia, tipo string) ([]*entity.Movement, error) {
	return uc.movRepo.ListByReference(referencia, tipo)
}

// Recetas listado paginado del registro de recetas.
func (uc *LedgerUseCase) Recetas(limit, offset int) ([]*entity.Prescription, error) {
	return uc.rxRepo.List(limit, offset)
}

// RecetasPorFactura recetas registradas en una factura.
func (uc *LedgerUseCase) RecetasPorFactura(numeroFactura string) ([]*entity.Prescription, error) {
	return uc.rxRepo.ListByReference(numeroFactura)
}
