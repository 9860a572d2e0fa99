package receiving

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

// UseCase registra recepciones de envío desde bodega central y gestiona sus
// cambios de estado, incluido el rechazo con reversión de stock.
type UseCase struct {
	txRunner      ports.TxRunner
	receptionRepo repository.ReceptionRepository
	ventana       int
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, receptionRepo repository.ReceptionRepository, ventanaDias int) *UseCase {
	return &UseCase{txRunner: txRunner, receptionRepo: receptionRepo, ventana: ventanaDias}
}

// Create registra la recepción completa: suma stock a cada lote y escribe un
// asiento REC por línea con el número de envío como referencia.
func (uc *UseCase) Create(ctx context.Context, userID string, input dto.CreateReceptionRequest) (string, error) {
	envio := strings.TrimSpace(input.FormData.NumeroEnvioBodega)
	if envio == "" {
		return "", domain.ErrMissingReference
	}
	if len(input.Detalles) == 0 {
		return "", domain.ErrNoDetails
	}

	recibido := time.Now()
	if input.FormData.FechaRecepcion != "" {
		parsed, err := parseDateTime(input.FormData.FechaRecepcion)
		if err != nil {
			return "", domain.ErrInvalidInput
		}
		recibido = parsed
	}

	header := &entity.Reception{
		ID:             uuid.New().String(),
		ShipmentNumber: envio,
		ReceivedAt:     recibido,
		UserID:         userID,
		State:          entity.ReceptionStateCompleto,
	}

	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if err := r.Receptions.Create(header); err != nil {
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

func (uc *UseCase) applyLine(r ports.Repos, header *entity.Reception, line int, det dto.ReceptionLine) error {
	if det.ProductoID == "" {
		return domain.LineError(line, domain.ErrMissingProduct)
	}
	if det.LoteID == "" && det.NumeroLote == "" {
		return domain.LineError(line, domain.ErrMissingLot)
	}
	if det.CantidadRecibida <= 0 {
		return domain.LineError(line, domain.ErrInvalidQuantity)
	}
	if det.CostoUnitario.IsNegative() {
		return domain.LineError(line, domain.ErrInvalidInput)
	}

	product, err := r.Products.GetByID(det.ProductoID)
	if err != nil {
		return domain.LineError(line, err)
	}
	if product == nil {
		return domain.LineError(line, domain.ErrNotFound)
	}

	lot, err := uc.resolveLot(r, product, det)
	if err != nil {
		return domain.LineError(line, err)
	}

	if err := r.Lots.AddQuantity(lot.ID, det.CantidadRecibida); err != nil {
		return err
	}

	detail := &entity.ReceptionDetail{
		ID:          uuid.New().String(),
		ReceptionID: header.ID,
		LotID:       lot.ID,
		Quantity:    det.CantidadRecibida,
		UnitCost:    det.CostoUnitario,
	}
	if err := r.Receptions.CreateDetail(detail); err != nil {
		return err
	}

	mov := &entity.Movement{
		ID:        uuid.New().String(),
		LotID:     lot.ID,
		Type:      entity.MovementTypeREC,
		Quantity:  det.CantidadRecibida,
		Date:      header.ReceivedAt,
		UserID:    header.UserID,
		Reference: header.ShipmentNumber,
		State:     entity.MovementStateCompletado,
	}
	return r.Movements.Create(mov)
}

func (uc *UseCase) resolveLot(r ports.Repos, product *entity.Product, det dto.ReceptionLine) (*entity.Lot, error) {
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

// ChangeState mueve la recepción de estado. El rechazo exige motivo y se
// bloquea si algún lote involucrado ya tiene salidas posteriores a la
// recepción; si procede, cancela los asientos REC y resta lo recibido.
func (uc *UseCase) ChangeState(ctx context.Context, userID, receptionID string, input dto.ChangeReceptionStateRequest) error {
	estado := strings.TrimSpace(input.NuevoEstado)
	switch estado {
	case entity.ReceptionStateCompleto, entity.ReceptionStateParcial:
		return uc.txRunner.Run(ctx, func(r ports.Repos) error {
			header, err := r.Receptions.GetByID(receptionID)
			if err != nil {
				return err
			}
			if header == nil {
				return domain.ErrNotFound
			}
			if header.State == entity.ReceptionStateRechazado {
				return domain.ErrAlreadyCancelled
			}
			return r.Receptions.UpdateState(receptionID, estado)
		})
	case entity.ReceptionStateRechazado:
		motivo := strings.TrimSpace(input.Motivo)
		if motivo == "" {
			return domain.ErrMissingReason
		}
		return uc.reject(ctx, receptionID, motivo)
	default:
		return domain.ErrUnknownState
	}
}

func (uc *UseCase) reject(ctx context.Context, receptionID, motivo string) error {
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		header, err := r.Receptions.GetByID(receptionID)
		if err != nil {
			return err
		}
		if header == nil {
			return domain.ErrNotFound
		}
		if header.State == entity.ReceptionStateRechazado {
			return domain.ErrAlreadyCancelled
		}
		details, err := r.Receptions.ListDetails(receptionID)
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
		if _, err := r.Lots.ListForUpdate(ids); err != nil {
			return err
		}

		// No se puede deshacer stock que ya salió: cualquier movimiento de
		// naturaleza negativa sobre estos lotes desde la recepción bloquea
		// el rechazo.
		conflict, err := r.Movements.FirstNegativeAfter(ids, header.ReceivedAt)
		if err != nil {
			return err
		}
		if conflict != nil {
			return domain.ErrDownstreamMovement
		}

		if _, err := r.Movements.CancelByReference(header.ShipmentNumber, entity.MovementTypeREC, motivo); err != nil {
			return err
		}
		for _, d := range details {
			if err := r.Lots.AddQuantity(d.LotID, -d.Quantity); err != nil {
				return err
			}
		}
		return r.Receptions.UpdateState(receptionID, entity.ReceptionStateRechazado)
	})
}

// GetByID arma la vista de detalle de una recepción.
func (uc *UseCase) GetByID(receptionID string) (*entity.Reception, []*entity.ReceptionDetail, error) {
	header, err := uc.receptionRepo.GetByID(receptionID)
	if err != nil {
		return nil, nil, err
	}
	if header == nil {
		return nil, nil, domain.ErrNotFound
	}
	details, err := uc.receptionRepo.ListDetails(receptionID)
	if err != nil {
		return nil, nil, err
	}
	return header, details, nil
}

// List lista cabeceras de recepciones.
func (uc *UseCase) List(limit, offset int) ([]*entity.Reception, error) {
	return uc.receptionRepo.List(limit, offset)
}

// parseDateTime acepta fecha sola o fecha con hora (formato del formulario).
func parseDateTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.ErrInvalidInput
}
