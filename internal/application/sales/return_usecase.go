package sales

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

// CreateDevolucion re-acredita cantidades vendidas a sus lotes de origen.
// Cada línea debe referir un lote que efectivamente se vendió bajo la misma
// factura, y lo devuelto acumulado nunca supera lo vendido en ella.
func (uc *UseCase) CreateDevolucion(ctx context.Context, userID string, input dto.CreateReturnRequest) error {
	referencia := strings.TrimSpace(input.FormData.NumeroFactura)
	if referencia == "" {
		return domain.ErrMissingReference
	}
	motivo := strings.TrimSpace(input.FormData.Motivo)
	if motivo == "" {
		return domain.ErrMissingReason
	}
	if len(input.Detalles) == 0 {
		return domain.ErrNoDetails
	}

	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		now := time.Now()
		for idx, det := range input.Detalles {
			if err := devolverLinea(r, userID, referencia, motivo, now, idx+1, det); err != nil {
				return err
			}
		}
		return nil
	})
}

func devolverLinea(r ports.Repos, userID, referencia, motivo string, now time.Time, line int, det dto.ReturnLine) error {
	if det.ProductoID == "" {
		return domain.LineError(line, domain.ErrMissingProduct)
	}
	if det.LoteID == "" {
		return domain.LineError(line, domain.ErrMissingLot)
	}
	if det.Cantidad <= 0 {
		return domain.LineError(line, domain.ErrInvalidQuantity)
	}

	lot, err := r.Lots.GetForUpdate(det.LoteID)
	if err != nil {
		return domain.LineError(line, err)
	}
	if lot == nil {
		return domain.LineError(line, domain.ErrNotFound)
	}
	if lot.ProductID != det.ProductoID {
		return domain.LineError(line, domain.ErrLotProductMismatch)
	}

	vendido, err := r.Movements.SumCompletedByReferenceAndLot(referencia, entity.MovementTypeVEN, lot.ID)
	if err != nil {
		return err
	}
	if vendido >= 0 {
		// Los asientos VEN son negativos; sin ventas no hay qué devolver.
		return domain.LineError(line, domain.ErrLotNotSold)
	}
	devuelto, err := r.Movements.SumCompletedByReferenceAndLot(referencia, entity.MovementTypeDEV, lot.ID)
	if err != nil {
		return err
	}
	if devuelto+det.Cantidad > -vendido {
		return domain.LineError(line, domain.ErrReturnExceedsSold)
	}

	if err := r.Lots.AddQuantity(lot.ID, det.Cantidad); err != nil {
		return err
	}
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		LotID:     lot.ID,
		Type:      entity.MovementTypeDEV,
		Quantity:  det.Cantidad,
		Date:      now,
		UserID:    userID,
		Reference: referencia,
		Comment:   motivo,
		State:     entity.MovementStateCompletado,
	}
	return r.Movements.Create(mov)
}

// CancelDevolucion vuelve a debitar lo devuelto bajo la referencia. Exige
// que cada lote conserve stock suficiente para el re-débito completo.
func (uc *UseCase) CancelDevolucion(ctx context.Context, userID, referencia, comment string) error {
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		movs, err := r.Movements.ListByReference(referencia, entity.MovementTypeDEV)
		if err != nil {
			return err
		}
		completados := make([]*entity.Movement, 0, len(movs))
		for _, m := range movs {
			if m.State == entity.MovementStateCompletado {
				completados = append(completados, m)
			}
		}
		if len(completados) == 0 {
			if len(movs) > 0 {
				return domain.ErrAlreadyCancelled
			}
			return domain.ErrNotFound
		}

		porLote := make(map[string]int)
		for _, m := range completados {
			porLote[m.LotID] += m.Quantity
		}

		lots, err := r.Lots.ListForUpdate(lotIDs(completados))
		if err != nil {
			return err
		}
		var shortfalls []domain.Shortfall
		for _, lot := range lots {
			if lot.Available < porLote[lot.ID] {
				shortfalls = append(shortfalls, domain.Shortfall{
					ProductID: lot.ProductID,
					Requested: porLote[lot.ID],
					Available: lot.Available,
				})
			}
		}
		if len(shortfalls) > 0 {
			return &domain.StockShortfallError{Shortfalls: shortfalls}
		}

		now := time.Now()
		for lotID, qty := range porLote {
			if err := r.Lots.AddQuantity(lotID, -qty); err != nil {
				return err
			}
		}
		if _, err := r.Movements.CancelByReference(referencia, entity.MovementTypeDEV, comment); err != nil {
			return err
		}
		for lotID, qty := range porLote {
			comp := &entity.Movement{
				ID:        uuid.New().String(),
				LotID:     lotID,
				Type:      entity.MovementTypeDEV,
				Quantity:  -qty,
				Date:      now,
				UserID:    userID,
				Reference: referencia,
				Comment:   comment,
				State:     entity.MovementStateCancelado,
			}
			if err := r.Movements.Create(comp); err != nil {
				return err
			}
		}
		return nil
	})
}

// LotesVendidos lotes de un producto vendidos bajo una factura, con lo
// vendido y su stock actual, para armar el formulario de devolución.
func (uc *UseCase) LotesVendidos(referencia, productID string) ([]repository.SoldLot, error) {
	return uc.movRepo.SoldLotsByReference(referencia, productID)
}

// ListDevoluciones lista referencias con devoluciones para el índice.
func (uc *UseCase) ListDevoluciones(limit, offset int) ([]repository.ReferenceSummary, error) {
	return uc.movRepo.ListReferences(entity.MovementTypeDEV, limit, offset)
}

// MovimientosDeDevolucion asientos DEV de una factura.
func (uc *UseCase) MovimientosDeDevolucion(referencia string) ([]*entity.Movement, error) {
	return uc.movRepo.ListByReference(referencia, entity.MovementTypeDEV)
}
