package repository

import "github.com/saif-farmacia/saif-api/internal/domain/entity"

// RestockRepository puerto de solicitudes de faltantes a bodega central.
type RestockRepository interface {
	Create(r *entity.RestockRequest) error
	CreateDetail(d *entity.RestockRequestDetail) error
	GetByID(id string) (*entity.RestockRequest, error)
	List(limit, offset int) ([]*entity.RestockRequest, error)
	ListDetails(requestID string) ([]*entity.RestockRequestDetail, error)
	UpdateState(id, state string) error
}
