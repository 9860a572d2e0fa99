package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/ports"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

// ProductUseCase catálogo de productos: altas, edición y ciclo de vida
// Activo/Inactivo con las reglas de stock.
type ProductUseCase struct {
	txRunner    ports.TxRunner
	productRepo repository.ProductRepository
	lotRepo     repository.LotRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner ports.TxRunner, productRepo repository.ProductRepository, lotRepo repository.LotRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, productRepo: productRepo, lotRepo: lotRepo}
}

// Create da de alta un producto activo.
func (uc *ProductUseCase) Create(ctx context.Context, input dto.CreateProductRequest) (*entity.Product, error) {
	codigo := strings.TrimSpace(input.Codigo)
	nombre := strings.TrimSpace(input.Nombre)
	if codigo == "" || nombre == "" || strings.TrimSpace(input.UnidadMedida) == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.StockMinimo < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.productRepo.GetByCode(codigo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Code:         codigo,
		Name:         nombre,
		Description:  input.Descripcion,
		RequiresRx:   input.RequiereRx,
		Controlled:   input.Controlado,
		MinStock:     input.StockMinimo,
		Presentation: input.Presentacion,
		UnitMeasure:  input.UnidadMedida,
		Laboratory:   input.Laboratorio,
		State:        entity.ProductStateActivo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update aplica los campos presentes del request.
func (uc *ProductUseCase) Update(ctx context.Context, id string, input dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if input.Nombre != nil {
		if strings.TrimSpace(*input.Nombre) == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *input.Nombre
	}
	if input.Descripcion != nil {
		product.Description = *input.Descripcion
	}
	if input.RequiereRx != nil {
		product.RequiresRx = *input.RequiereRx
	}
	if input.Controlado != nil {
		product.Controlled = *input.Controlado
	}
	if input.StockMinimo != nil {
		if *input.StockMinimo < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = *input.StockMinimo
	}
	if input.Presentacion != nil {
		product.Presentation = *input.Presentacion
	}
	if input.UnidadMedida != nil {
		product.UnitMeasure = *input.UnidadMedida
	}
	if input.Laboratorio != nil {
		product.Laboratory = *input.Laboratorio
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Deactivate pasa el producto a Inactivo. Solo procede si el stock
// agregado de todos sus lotes es cero.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		product, err := r.Products.GetByID(id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.State == entity.ProductStateInactivo {
			return nil
		}
		total, err := r.Lots.TotalAvailable(id)
		if err != nil {
			return err
		}
		if total > 0 {
			return domain.ErrProductHasStock
		}
		return r.Products.UpdateState(id, entity.ProductStateInactivo)
	})
}

// Reactivate vuelve el producto a Activo si sus campos de referencia
// obligatorios siguen completos.
func (uc *ProductUseCase) Reactivate(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.State == entity.ProductStateActivo {
		return nil
	}
	if !product.CanReactivate() {
		return domain.ErrInvalidInput
	}
	return uc.productRepo.UpdateState(id, entity.ProductStateActivo)
}

// GetByID devuelve un producto.
func (uc *ProductUseCase) GetByID(id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List lista productos paginados.
func (uc *ProductUseCase) List(limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.List(limit, offset)
}

// SearchActive autocompletado por término entre productos activos.
func (uc *ProductUseCase) SearchActive(term string, limit int) ([]*entity.Product, error) {
	return uc.productRepo.SearchActive(strings.TrimSpace(term), limit)
}
