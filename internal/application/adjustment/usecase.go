package adjustment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/ports"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/domain/inventory"
	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

// UseCase registra y anula ajustes de inventario (Ingreso/Salida) de forma
// transaccional, con bloqueo de fila sobre los lotes afectados.
type UseCase struct {
	txRunner   ports.TxRunner
	adjustRepo repository.AdjustmentRepository
	ventana    int
}

// NewUseCase construye el caso de uso. ventanaDias es la ventana de
// próximo a vencer usada al crear lotes nuevos.
func NewUseCase(txRunner ports.TxRunner, adjustRepo repository.AdjustmentRepository, ventanaDias int) *UseCase {
	return &UseCase{txRunner: txRunner, adjustRepo: adjustRepo, ventana: ventanaDias}
}

// Create valida y aplica un ajuste completo. Todas las líneas se aplican en
// una sola transacción; cualquier error revierte el ajuste entero.
func (uc *UseCase) Create(ctx context.Context, userID string, input dto.CreateAdjustmentRequest) (string, error) {
	kind := input.FormData.Tipo
	if kind != entity.AdjustmentKindIngreso && kind != entity.AdjustmentKindSalida {
		return "", domain.ErrInvalidInput
	}
	if len(input.Detalles) == 0 {
		return "", domain.ErrNoDetails
	}

	fecha := time.Now()
	if input.FormData.FechaAjuste != "" {
		parsed, err := time.Parse("2006-01-02", input.FormData.FechaAjuste)
		if err != nil {
			return "", domain.ErrInvalidInput
		}
		fecha = parsed
	}

	header := &entity.Adjustment{
		ID:     uuid.New().String(),
		Date:   fecha,
		UserID: userID,
		Kind:   kind,
		State:  entity.AdjustmentStateCompletado,
	}

	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if err := r.Adjustments.Create(header); err != nil {
			return err
		}
		for idx, det := range input.Detalles {
			if err := uc.applyLine(r, header, idx+1, det); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return header.ID, nil
}

// applyLine resuelve el lote, mueve stock y registra detalle + asiento.
func (uc *UseCase) applyLine(r ports.Repos, header *entity.Adjustment, line int, det dto.AdjustmentLine) error {
	if det.ProductoID == "" {
		return domain.LineError(line, domain.ErrMissingProduct)
	}
	if det.LoteID == "" && det.NumeroLote == "" {
		return domain.LineError(line, domain.ErrMissingLot)
	}
	if det.CantidadAjustada <= 0 {
		return domain.LineError(line, domain.ErrInvalidQuantity)
	}

	product, err := r.Products.GetByID(det.ProductoID)
	if err != nil {
		return domain.LineError(line, err)
	}
	if product == nil {
		return domain.LineError(line, domain.ErrNotFound)
	}

	lot, err := uc.resolveLot(r, header.Kind, product, det)
	if err != nil {
		return domain.LineError(line, err)
	}

	sistema := lot.Available
	delta := det.CantidadAjustada
	if header.Kind == entity.AdjustmentKindSalida {
		if delta > sistema {
			return domain.LineError(line, &domain.StockShortfallError{Shortfalls: []domain.Shortfall{{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   delta,
				Available:   sistema,
			}}})
		}
		delta = -delta
	}

	if err := r.Lots.AddQuantity(lot.ID, delta); err != nil {
		return err
	}

	detail := &entity.AdjustmentDetail{
		ID:           uuid.New().String(),
		AdjustmentID: header.ID,
		LotID:        lot.ID,
		SystemQty:    sistema,
		CountedQty:   sistema + delta,
		Difference:   delta,
	}
	if err := r.Adjustments.CreateDetail(detail); err != nil {
		return err
	}

	movType := entity.MovementTypeAJI
	if header.Kind == entity.AdjustmentKindSalida {
		movType = entity.MovementTypeAJS
	}
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		LotID:     lot.ID,
		Type:      movType,
		Quantity:  delta,
		Date:      time.Now(),
		UserID:    header.UserID,
		Reference: "AJUSTE-" + header.ID,
		State:     entity.MovementStateCompletado,
	}
	return r.Movements.Create(mov)
}

// resolveLot bloquea un lote existente, o lo crea para ingresos. En salidas
// no se permiten lotes nuevos.
func (uc *UseCase) resolveLot(r ports.Repos, kind string, product *entity.Product, det dto.AdjustmentLine) (*entity.Lot, error) {
	if det.LoteID != "" {
		lot, err := r.Lots.GetForUpdate(det.LoteID)
		if err != nil {
			return nil, err
		}
		if lot == nil {
			return nil, domain.ErrNotFound
		}
		if lot.ProductID != product.ID {
			return nil, domain.ErrLotProductMismatch
		}
		return lot, nil
	}
	if kind == entity.AdjustmentKindSalida {
		return nil, domain.ErrMissingLot
	}

	existing, err := r.Lots.GetByProductAndNumber(product.ID, det.NumeroLote)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return r.Lots.GetForUpdate(existing.ID)
	}

	lot := &entity.Lot{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		LotNumber: det.NumeroLote,
		Available: 0,
		Location:  det.Ubicacion,
		State:     entity.LotStateDisponible,
	}
	if det.FechaCaducidad != "" {
		exp, err := time.Parse("2006-01-02", det.FechaCaducidad)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		lot.ExpiryDate = &exp
	}
	lot.State = inventory.NextLotState(lot.State, lot.ExpiryDate, time.Now(), uc.ventana)
	if err := r.Lots.Create(lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// Cancel anula un ajuste completo, revirtiendo el stock línea a línea y
// marcando sus asientos como cancelados.
func (uc *UseCase) Cancel(ctx context.Context, userID, adjustmentID, comment string) error {
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		header, err := r.Adjustments.GetByID(adjustmentID)
		if err != nil {
			return err
		}
		if header == nil {
			return domain.ErrNotFound
		}
		if header.State == entity.AdjustmentStateCancelado {
			return domain.ErrAlreadyCancelled
		}
		details, err := r.Adjustments.ListDetails(adjustmentID)
		if err != nil {
			return err
		}
		if len(details) == 0 {
			return domain.ErrNoDetails
		}

		ids := make([]string, 0, len(details))
		for _, d := range details {
			ids = append(ids, d.LotID)
		}
		lots, err := r.Lots.ListForUpdate(ids)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.Lot, len(lots))
		for _, l := range lots {
			byID[l.ID] = l
		}

		// Primero validar: revertir un ingreso no puede dejar stock negativo.
		var shortfalls []domain.Shortfall
		for _, d := range details {
			lot := byID[d.LotID]
			if lot == nil {
				return domain.ErrNotFound
			}
			if d.Difference > 0 && lot.Available < d.Difference {
				shortfalls = append(shortfalls, domain.Shortfall{
					ProductID: lot.ProductID,
					Requested: d.Difference,
					Available: lot.Available,
				})
			}
		}
		if len(shortfalls) > 0 {
			return &domain.StockShortfallError{Shortfalls: shortfalls}
		}

		for _, d := range details {
			if err := r.Lots.AddQuantity(d.LotID, -d.Difference); err != nil {
				return err
			}
		}

		movType := entity.MovementTypeAJI
		if header.Kind == entity.AdjustmentKindSalida {
			movType = entity.MovementTypeAJS
		}
		if _, err := r.Movements.CancelByReference("AJUSTE-"+adjustmentID, movType, comment); err != nil {
			return err
		}
		return r.Adjustments.UpdateState(adjustmentID, entity.AdjustmentStateCancelado)
	})
}

// GetByID arma la vista de detalle de un ajuste.
func (uc *UseCase) GetByID(adjustmentID string) (*entity.Adjustment, []*entity.AdjustmentDetail, error) {
	header, err := uc.adjustRepo.GetByID(adjustmentID)
	if err != nil {
		return nil, nil, err
	}
	if header == nil {
		return nil, nil, domain.ErrNotFound
	}
	details, err := uc.adjustRepo.ListDetails(adjustmentID)
	if err != nil {
		return nil, nil, err
	}
	return header, details, nil
}

// ListByKind lista cabeceras de ajustes por tipo.
func (uc *UseCase) ListByKind(kind string, limit, offset int) ([]*entity.Adjustment, error) {
	return uc.adjustRepo.ListByKind(kind, limit, offset)
}
