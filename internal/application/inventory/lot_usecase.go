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
	"github.com/saif-farmacia/saif-api/internal/domain/inventory"
	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

// LotUseCase gestión de lotes: altas, edición, cambio manual de estado y
// borrado con relaciones bloqueantes enumeradas. La regla de caducidad se
// aplica en todo camino de guardado.
type LotUseCase struct {
	txRunner ports.TxRunner
	lotRepo  repository.LotRepository
	ventana  int
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(txRunner ports.TxRunner, lotRepo repository.LotRepository, ventanaDias int) *LotUseCase {
	return &LotUseCase{txRunner: txRunner, lotRepo: lotRepo, ventana: ventanaDias}
}

// Create da de alta un lote en cero para un producto.
func (uc *LotUseCase) Create(ctx context.Context, input dto.CreateLotRequest) (*entity.Lot, error) {
	numero := strings.TrimSpace(input.NumeroLote)
	if input.ProductoID == "" || numero == "" {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.Lot
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		product, err := r.Products.GetByID(input.ProductoID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		existing, err := r.Lots.GetByProductAndNumber(input.ProductoID, numero)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}

		lot := &entity.Lot{
			ID:            uuid.New().String(),
			ProductID:     input.ProductoID,
			LotNumber:     numero,
			Location:      input.Ubicacion,
			PurchasePrice: input.PrecioCompra,
			SalePrice:     input.PrecioVenta,
			State:         entity.LotStateDisponible,
		}
		if input.FechaCaducidad != "" {
			exp, err := time.Parse("2006-01-02", input.FechaCaducidad)
			if err != nil {
				return domain.ErrInvalidInput
			}
			lot.ExpiryDate = &exp
		}
		lot.State = inventory.NextLotState(lot.State, lot.ExpiryDate, time.Now(), uc.ventana)
		if err := r.Lots.Create(lot); err != nil {
			return err
		}
		result = lot
		return nil
	})
	return result, err
}

// Update edita los campos del lote (nunca la cantidad) y recalcula su
// estado con la regla de caducidad.
func (uc *LotUseCase) Update(ctx context.Context, id string, input dto.UpdateLotRequest) (*entity.Lot, error) {
	var result *entity.Lot
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		lot, err := r.Lots.GetForUpdate(id)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if input.FechaCaducidad != nil {
			if *input.FechaCaducidad == "" {
				lot.ExpiryDate = nil
			} else {
				exp, err := time.Parse("2006-01-02", *input.FechaCaducidad)
				if err != nil {
					return domain.ErrInvalidInput
				}
				lot.ExpiryDate = &exp
			}
		}
		if input.Ubicacion != nil {
			lot.Location = *input.Ubicacion
		}
		if input.PrecioCompra != nil {
			lot.PurchasePrice = input.PrecioCompra
		}
		if input.PrecioVenta != nil {
			lot.SalePrice = input.PrecioVenta
		}
		lot.State = inventory.NextLotState(lot.State, lot.ExpiryDate, time.Now(), uc.ventana)
		if err := r.Lots.Update(lot); err != nil {
			return err
		}
		result = lot
		return nil
	})
	return result, err
}

// ChangeState cambio manual de estado. Solo se aceptan los estados de
// usuario; los automáticos y los fuertes los fija el sistema.
func (uc *LotUseCase) ChangeState(ctx context.Context, id, nuevoEstado string) error {
	if nuevoEstado != entity.LotStateDisponible && nuevoEstado != entity.LotStateCuarentena {
		return domain.ErrUnknownState
	}
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		lot, err := r.Lots.GetForUpdate(id)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if lot.IsStrongState() {
			return domain.ErrInvalidTransition
		}
		estado := inventory.NextLotState(nuevoEstado, lot.ExpiryDate, time.Now(), uc.ventana)
		return r.Lots.UpdateState(id, estado)
	})
}

// Delete elimina un lote sin historia. Cualquier relación registrada lo
// bloquea: asientos del libro, detalles de ajuste, de recepción o de
// reporte de vencimiento.
func (uc *LotUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		lot, err := r.Lots.GetForUpdate(id)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if lot.Available > 0 {
			return domain.ErrLotInUse
		}
		checks := []func(string) (bool, error){
			r.Movements.ExistsByLot,
			r.Adjustments.ExistsDetailForLot,
			r.Receptions.ExistsDetailForLot,
			r.ExpiryReports.ExistsDetailForLot,
		}
		for _, check := range checks {
			used, err := check(id)
			if err != nil {
				return err
			}
			if used {
				return domain.ErrLotInUse
			}
		}
		return r.Lots.Delete(id)
	})
}

// GetByID devuelve un lote.
func (uc *LotUseCase) GetByID(id string) (*entity.Lot, error) {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return lot, nil
}

// ListByProduct lotes de un producto.
func (uc *LotUseCase) ListByProduct(productID string) ([]*entity.Lot, error) {
	return uc.lotRepo.ListByProduct(productID)
}

// SearchSellable autocompletado de lotes vendibles de un producto.
func (uc *LotUseCase) SearchSellable(productID, term string, limit int) ([]*entity.Lot, error) {
	return uc.lotRepo.SearchByProduct(productID, strings.TrimSpace(term), entity.SellableLotStates, limit)
}
