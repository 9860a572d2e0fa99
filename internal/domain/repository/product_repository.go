package repository

import (
	"github.com/shopspring/decimal"

	"github.com/saif-farmacia/saif-api/internal/domain/entity"
)

// LowStockProduct fila del listado de productos bajo stock mínimo,
// con el stock agregado de sus lotes y el último costo de recepción.
type LowStockProduct struct {
	ProductID      string
	Code           string
	Name           string
	MinStock       int
	TotalAvailable int
	LatestUnitCost decimal.Decimal
}

// ProductRepository puerto de persistencia del catálogo de productos.
type ProductRepository interface {
	Create(p *entity.Product) error
	Update(p *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	// SearchActive busca por nombre o código solo entre productos activos.
	SearchActive(term string, limit int) ([]*entity.Product, error)
	UpdateState(id, state string) error
	// ListLowStock productos activos cuyo stock agregado está por debajo de
	// stock_minimo * multiplier.
	ListLowStock(multiplier float64) ([]LowStockProduct, error)
}
