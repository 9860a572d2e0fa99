package repository

import "github.com/saif-farmacia/saif-api/internal/domain/entity"

// ReceptionRepository puerto de recepciones de envío.
type ReceptionRepository interface {
	Create(r *entity.Reception) error
	CreateDetail(d *entity.ReceptionDetail) error
	GetByID(id string) (*entity.Reception, error)
	List(limit, offset int) ([]*entity.Reception, error)
	ListDetails(receptionID string) ([]*entity.ReceptionDetail, error)
	ExistsDetailForLot(lotID string) (bool, error)
	UpdateState(id, state string) error
}
