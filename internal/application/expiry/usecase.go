package expiry

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

// UseCase aplica la regla de caducidad en lote (comando batch) y gestiona
// los reportes de vencimiento que retiran stock vencido.
type UseCase struct {
	txRunner   ports.TxRunner
	reportRepo repository.ExpiryReportRepository
	lotRepo    repository.LotRepository
	ventana    int
}

// NewUseCase construye el caso de uso. ventanaDias define la ventana de
// "próximo a vencer".
func NewUseCase(txRunner ports.TxRunner, reportRepo repository.ExpiryReportRepository, lotRepo repository.LotRepository, ventanaDias int) *UseCase {
	return &UseCase{txRunner: txRunner, reportRepo: reportRepo, lotRepo: lotRepo, ventana: ventanaDias}
}

// Reconcile recalcula el estado de todos los lotes según la fecha de hoy.
// Es idempotente: una segunda pasada sin cambios de datos no toca filas.
// Nunca modifica cantidades y respeta los estados fuertes.
func (uc *UseCase) Reconcile(ctx context.Context, today time.Time) (dto.ReconcileResultDTO, error) {
	var result dto.ReconcileResultDTO
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		vencidos, err := r.Lots.MarkExpired(today)
		if err != nil {
			return err
		}
		proximos, err := r.Lots.MarkNearExpiry(today, uc.ventana)
		if err != nil {
			return err
		}
		revertidos, err := r.Lots.RevertNearExpiry(today, uc.ventana)
		if err != nil {
			return err
		}
		result = dto.ReconcileResultDTO{
			Vencidos:        vencidos,
			ProximosAVencer: proximos,
			Revertidos:      revertidos,
		}
		return nil
	})
	return result, err
}

// CreateReporte retira los lotes vencidos seleccionados: deja su cantidad
// en cero, los marca Devuelto y asienta un RET por lo retirado.
func (uc *UseCase) CreateReporte(ctx context.Context, userID string, input dto.CreateExpiryReportRequest) (string, error) {
	if len(input.Detalles) == 0 {
		return "", domain.ErrNoDetails
	}

	now := time.Now()
	documento := strings.TrimSpace(input.FormData.Documento)
	if documento == "" {
		documento = "Reporte Vencimiento - " + now.Format("2006-01-02")
	}

	header := &entity.ExpiryReport{
		ID:           uuid.New().String(),
		Date:         now,
		Document:     documento,
		Observations: input.FormData.Observaciones,
		UserID:       userID,
		State:        entity.ExpiryReportStateCompletado,
	}

	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if err := r.ExpiryReports.Create(header); err != nil {
			return err
		}
		hoy := dateOnly(now)
		for idx, det := range input.Detalles {
			if det.LoteID == "" {
				return domain.LineError(idx+1, domain.ErrMissingLot)
			}
			lot, err := r.Lots.GetForUpdate(det.LoteID)
			if err != nil {
				return domain.LineError(idx+1, err)
			}
			if lot == nil {
				return domain.LineError(idx+1, domain.ErrNotFound)
			}
			if lot.ExpiryDate == nil || !dateOnly(*lot.ExpiryDate).Before(hoy) {
				return domain.LineError(idx+1, domain.ErrLotNotExpired)
			}
			if lot.Available <= 0 {
				return domain.LineError(idx+1, domain.ErrInsufficientStock)
			}

			retirada := lot.Available
			if err := r.Lots.SetQuantityAndState(lot.ID, 0, entity.LotStateDevuelto); err != nil {
				return err
			}
			detail := &entity.ExpiryReportDetail{
				ID:       uuid.New().String(),
				ReportID: header.ID,
				LotID:    lot.ID,
				Quantity: retirada,
			}
			if err := r.ExpiryReports.CreateDetail(detail); err != nil {
				return err
			}
			mov := &entity.Movement{
				ID:        uuid.New().String(),
				LotID:     lot.ID,
				Type:      entity.MovementTypeRET,
				Quantity:  -retirada,
				Date:      now,
				UserID:    userID,
				Reference: "VENC-" + header.ID,
				Comment:   documento,
				State:     entity.MovementStateCompletado,
			}
			if err := r.Movements.Create(mov); err != nil {
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

// ChangeState mueve el reporte de estado según sus transiciones permitidas.
// Pasar a Cancelado restaura los lotes retirados.
func (uc *UseCase) ChangeState(ctx context.Context, userID, reportID string, nuevoEstado string) error {
	nuevoEstado = strings.TrimSpace(nuevoEstado)
	if nuevoEstado == entity.ExpiryReportStateCancelado {
		return uc.cancel(ctx, reportID)
	}
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		header, err := r.ExpiryReports.GetByID(reportID)
		if err != nil {
			return err
		}
		if header == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransitionExpiryReport(header.State, nuevoEstado) {
			return domain.ErrInvalidTransition
		}
		return r.ExpiryReports.UpdateState(reportID, nuevoEstado)
	})
}

// cancel deshace el retiro: devuelve la cantidad reportada a cada lote y
// recalcula su estado con la regla de caducidad. Solo procede si nadie tocó
// el lote desde el reporte (sigue Devuelto y en cero).
func (uc *UseCase) cancel(ctx context.Context, reportID string) error {
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		header, err := r.ExpiryReports.GetByID(reportID)
		if err != nil {
			return err
		}
		if header == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransitionExpiryReport(header.State, entity.ExpiryReportStateCancelado) {
			if header.State == entity.ExpiryReportStateCancelado {
				return domain.ErrAlreadyCancelled
			}
			return domain.ErrInvalidTransition
		}
		details, err := r.ExpiryReports.ListDetails(reportID)
		if err != nil {
			return err
		}
		if len(details) == 0 {
			return domain.ErrNoDetails
		}

		now := time.Now()
		for _, d := range details {
			lot, err := r.Lots.GetForUpdate(d.LotID)
			if err != nil {
				return err
			}
			if lot == nil {
				return domain.ErrNotFound
			}
			// Chequeo optimista: el retiro dejó el lote Devuelto y en cero.
			if lot.State != entity.LotStateDevuelto || lot.Available != 0 {
				return domain.ErrLotModified
			}
			estado := inventory.NextLotState(entity.LotStateDisponible, lot.ExpiryDate, now, uc.ventana)
			if err := r.Lots.SetQuantityAndState(lot.ID, d.Quantity, estado); err != nil {
				return err
			}
		}
		if _, err := r.Movements.CancelByReference("VENC-"+reportID, entity.MovementTypeRET, "Reporte cancelado"); err != nil {
			return err
		}
		return r.ExpiryReports.UpdateState(reportID, entity.ExpiryReportStateCancelado)
	})
}

// GetByID arma la vista de detalle de un reporte.
func (uc *UseCase) GetByID(reportID string) (*entity.ExpiryReport, []*entity.ExpiryReportDetail, error) {
	header, err := uc.reportRepo.GetByID(reportID)
	if err != nil {
		return nil, nil, err
	}
	if header == nil {
		return nil, nil, domain.ErrNotFound
	}
	details, err := uc.reportRepo.ListDetails(reportID)
	if err != nil {
		return nil, nil, err
	}
	return header, details, nil
}

// List lista cabeceras de reportes.
func (uc *UseCase) List(limit, offset int) ([]*entity.ExpiryReport, error) {
	return uc.reportRepo.List(limit, offset)
}

// LotesVencidos lotes vencidos con stock de un producto, candidatos a un
// reporte de vencimiento. productID vacío lista todos.
func (uc *UseCase) LotesVencidos(productID string) ([]*entity.Lot, error) {
	return uc.lotRepo.ListExpiredWithStock(productID, time.Now())
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
