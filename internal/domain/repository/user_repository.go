package repository

import "github.com/saif-farmacia/saif-api/internal/domain/entity"

// UserRepository puerto de usuarios del sistema.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}
