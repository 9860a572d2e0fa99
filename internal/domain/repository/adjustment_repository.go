package repository

import "github.com/saif-farmacia/saif-api/internal/domain/entity"

// AdjustmentRepository puerto de ajustes de inventario físico.
type AdjustmentRepository interface {
	Create(a *entity.Adjustment) error
	CreateDetail(d *entity.AdjustmentDetail) error
	GetByID(id string) (*entity.Adjustment, error)
	ListByKind(kind string, limit, offset int) ([]*entity.Adjustment, error)
	ListDetails(adjustmentID string) ([]*entity.AdjustmentDetail, error)
	ExistsDetailForLot(lotID string) (bool, error)
	UpdateState(id, state string) error
}
