package restock

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/ports"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

// UseCase genera sugerencias de reposición y registra solicitudes de
// faltantes a bodega central.
type UseCase struct {
	txRunner    ports.TxRunner
	restockRepo repository.RestockRepository
	productRepo repository.ProductRepository
	umbral      float64
}

// NewUseCase construye el caso de uso. umbral es el multiplicador sobre el
// stock mínimo que dispara la sugerencia (parámetro de negocio).
func NewUseCase(txRunner ports.TxRunner, restockRepo repository.RestockRepository, productRepo repository.ProductRepository, umbral float64) *UseCase {
	return &UseCase{txRunner: txRunner, restockRepo: restockRepo, productRepo: productRepo, umbral: umbral}
}

// Suggestions lista productos bajo el umbral, ordenados por déficit
// relativo (primero los más faltos respecto de su mínimo).
func (uc *UseCase) Suggestions() ([]dto.RestockSuggestionDTO, error) {
	rows, err := uc.productRepo.ListLowStock(uc.umbral)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RestockSuggestionDTO, 0, len(rows))
	for _, row := range rows {
		objetivo := int(math.Ceil(float64(row.MinStock) * uc.umbral))
		sugerida := objetivo - row.TotalAvailable
		if sugerida <= 0 {
			continue
		}
		out = append(out, dto.RestockSuggestionDTO{
			ProductoID:          row.ProductID,
			Codigo:              row.Code,
			Nombre:              row.Name,
			StockMinimo:         row.MinStock,
			StockDisponible:     row.TotalAvailable,
			CantidadSugerida:    sugerida,
			UltimoCostoUnitario: row.LatestUnitCost,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return deficit(out[i]) > deficit(out[j])
	})
	return out, nil
}

// deficit fracción faltante respecto del mínimo, para priorizar.
func deficit(s dto.RestockSuggestionDTO) float64 {
	if s.StockMinimo <= 0 {
		return 0
	}
	return 1 - float64(s.StockDisponible)/float64(s.StockMinimo)
}

// Create registra la solicitud con sus líneas.
func (uc *UseCase) Create(ctx context.Context, userID string, input dto.CreateRestockRequest) (string, error) {
	documento := strings.TrimSpace(input.FormData.NombreDocumento)
	if documento == "" {
		return "", domain.ErrInvalidInput
	}
	if len(input.Detalles) == 0 {
		return "", domain.ErrNoDetails
	}

	header := &entity.RestockRequest{
		ID:       uuid.New().String(),
		Date:     time.Now(),
		Document: documento,
		UserID:   userID,
		State:    entity.RestockStatePendiente,
	}

	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if err := r.Restocks.Create(header); err != nil {
			return err
		}
		for idx, det := range input.Detalles {
			if det.ProductoID == "" {
				return domain.LineError(idx+1, domain.ErrMissingProduct)
			}
			if det.Cantidad <= 0 {
				return domain.LineError(idx+1, domain.ErrInvalidQuantity)
			}
			product, err := r.Products.GetByID(det.ProductoID)
			if err != nil {
				return domain.LineError(idx+1, err)
			}
			if product == nil {
				return domain.LineError(idx+1, domain.ErrNotFound)
			}
			detail := &entity.RestockRequestDetail{
				ID:           uuid.New().String(),
				RequestID:    header.ID,
				ProductID:    det.ProductoID,
				Quantity:     det.Cantidad,
				Urgent:       det.Urgente,
				Observations: det.Observaciones,
			}
			if err := r.Restocks.CreateDetail(detail); err != nil {
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

// ChangeState mueve la solicitud según sus transiciones permitidas.
func (uc *UseCase) ChangeState(ctx context.Context, requestID, nuevoEstado string) error {
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		header, err := r.Restocks.GetByID(requestID)
		if err != nil {
			return err
		}
		if header == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransitionRestock(header.State, nuevoEstado) {
			return domain.ErrInvalidTransition
		}
		return r.Restocks.UpdateState(requestID, nuevoEstado)
	})
}

// GetByID arma la vista de detalle de una solicitud.
func (uc *UseCase) GetByID(requestID string) (*entity.RestockRequest, []*entity.RestockRequestDetail, error) {
	header, err := uc.restockRepo.GetByID(requestID)
	if err != nil {
		return nil, nil, err
	}
	if header == nil {
		return nil, nil, domain.ErrNotFound
	}
	details, err := uc.restockRepo.ListDetails(requestID)
	if err != nil {
		return nil, nil, err
	}
	return header, details, nil
}

// List lista cabeceras de solicitudes.
func (uc *UseCase) List(limit, offset int) ([]*entity.RestockRequest, error) {
	return uc.restockRepo.List(limit, offset)
}
