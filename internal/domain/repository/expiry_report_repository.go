package repository

import "github.com/saif-farmacia/saif-api/internal/domain/entity"

// ExpiryReportRepository puerto de reportes de vencimiento.
type ExpiryReportRepository interface {
	Create(r *entity.ExpiryReport) error
	CreateDetail(d *entity.ExpiryReportDetail) error
	GetByID(id string) (*entity.ExpiryReport, error)
	List(limit, offset int) ([]*entity.ExpiryReport, error)
	ListDetails(reportID string) ([]*entity.ExpiryReportDetail, error)
	ExistsDetailForLot(lotID string) (bool, error)
	UpdateState(id, state string) error
}
