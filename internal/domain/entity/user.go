package entity

import "time"

// Roles de usuario de la sucursal.
const (
	RoleAdmin        = "admin"
	RoleFarmaceutico = "farmaceutico"
	RoleBodeguero    = "bodeguero"
)

// User usuario del sistema; el core solo lo usa para atribuir movimientos.
type User struct {
	ID           string
	Email        string
	Name         string
	LastName     string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
}
