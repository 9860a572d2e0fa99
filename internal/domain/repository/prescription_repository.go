package repository

import "github.com/saif-farmacia/saif-api/internal/domain/entity"

// PrescriptionRepository puerto de registro de recetas asociadas a ventas.
type PrescriptionRepository interface {
	Create(p *entity.Prescription) error
	ListByReference(invoiceReference string) ([]*entity.Prescription, error)
	List(limit, offset int) ([]*entity.Prescription, error)
}
