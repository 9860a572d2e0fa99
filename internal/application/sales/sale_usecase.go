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

// UseCase registra ventas con consumo FIFO por fecha de caducidad y
// devoluciones contra la factura original. Ambas operaciones viven en el
// libro de movimientos agrupadas por referencia de transacción.
type UseCase struct {
	txRunner ports.TxRunner
	movRepo  repository.MovementRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, movRepo repository.MovementRepository) *UseCase {
	return &UseCase{txRunner: txRunner, movRepo: movRepo}
}

// lineaVenta cantidad agregada por producto, en orden de aparición.
type lineaVenta struct {
	product *entity.Product
	qty     int
	recetas []string
}

// CreateVenta valida el pedido completo contra el stock agregado de cada
// producto y, solo si todo alcanza, consume lote a lote en orden FIFO por
// caducidad. Un asiento VEN negativo por lote tocado.
func (uc *UseCase) CreateVenta(ctx context.Context, userID string, input dto.CreateSaleRequest) (string, error) {
	referencia := strings.TrimSpace(input.FormData.NumeroFactura)
	if referencia == "" {
		return "", domain.ErrMissingReference
	}
	if len(input.Detalles) == 0 {
		return "", domain.ErrNoDetails
	}

	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		lineas, err := agruparLineas(r, input.Detalles)
		if err != nil {
			return err
		}

		// Bloquear los lotes vendibles de cada producto y verificar el
		// agregado antes de descontar nada: o alcanza para todo el pedido,
		// o se rechaza entero con un error por producto faltante.
		lotesPorProducto := make(map[string][]*entity.Lot, len(lineas))
		var shortfalls []domain.Shortfall
		for _, ln := range lineas {
			lots, err := r.Lots.ListSellableForUpdate(ln.product.ID)
			if err != nil {
				return err
			}
			total := 0
			for _, l := range lots {
				total += l.Available
			}
			if total < ln.qty {
				shortfalls = append(shortfalls, domain.Shortfall{
					ProductID:   ln.product.ID,
					ProductName: ln.product.Name,
					Requested:   ln.qty,
					Available:   total,
				})
				continue
			}
			lotesPorProducto[ln.product.ID] = lots
		}
		if len(shortfalls) > 0 {
			return &domain.StockShortfallError{Shortfalls: shortfalls}
		}

		now := time.Now()
		for _, ln := range lineas {
			restante := ln.qty
			for _, lot := range lotesPorProducto[ln.product.ID] {
				if restante == 0 {
					break
				}
				take := lot.Available
				if take > restante {
					take = restante
				}
				if take == 0 {
					continue
				}
				if err := r.Lots.AddQuantity(lot.ID, -take); err != nil {
					return err
				}
				mov := &entity.Movement{
					ID:        uuid.New().String(),
					LotID:     lot.ID,
					Type:      entity.MovementTypeVEN,
					Quantity:  -take,
					Date:      now,
					UserID:    userID,
					Reference: referencia,
					Comment:   input.FormData.Comentario,
					State:     entity.MovementStateCompletado,
				}
				if err := r.Movements.Create(mov); err != nil {
					return err
				}
				restante -= take
			}
			if restante > 0 {
				// El agregado alcanzaba pero los lotes vendibles no: deja
				// que la transacción completa se revierta.
				return &domain.StockShortfallError{Shortfalls: []domain.Shortfall{{
					ProductID:   ln.product.ID,
					ProductName: ln.product.Name,
					Requested:   ln.qty,
					Available:   ln.qty - restante,
				}}}
			}

			if ln.product.RequiresRx {
				for _, receta := range ln.recetas {
					p := &entity.Prescription{
						ID:               uuid.New().String(),
						SoldAt:           now,
						InvoiceReference: referencia,
						RxReference:      receta,
						ProductID:        ln.product.ID,
						UserID:           userID,
					}
					if err := r.Prescriptions.Create(p); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return referencia, nil
}

// agruparLineas valida cada línea y agrega cantidades por producto.
func agruparLineas(r ports.Repos, detalles []dto.SaleLine) ([]*lineaVenta, error) {
	orden := make([]*lineaVenta, 0, len(detalles))
	porProducto := make(map[string]*lineaVenta, len(detalles))
	for idx, det := range detalles {
		if det.ProductoID == "" {
			return nil, domain.LineError(idx+1, domain.ErrMissingProduct)
		}
		if det.Cantidad <= 0 {
			return nil, domain.LineError(idx+1, domain.ErrInvalidQuantity)
		}
		ln, ok := porProducto[det.ProductoID]
		if !ok {
			product, err := r.Products.GetByID(det.ProductoID)
			if err != nil {
				return nil, domain.LineError(idx+1, err)
			}
			if product == nil {
				return nil, domain.LineError(idx+1, domain.ErrNotFound)
			}
			ln = &lineaVenta{product: product}
			porProducto[det.ProductoID] = ln
			orden = append(orden, ln)
		}
		ln.qty += det.Cantidad
		if receta := strings.TrimSpace(det.NumeroReceta); receta != "" {
			ln.recetas = append(ln.recetas, receta)
		}
	}
	return orden, nil
}

// CancelVenta revierte todos los asientos VEN Completado de la referencia:
// devuelve el stock a cada lote, marca los originales como cancelados y
// escribe asientos compensatorios positivos con estado Cancelado.
func (uc *UseCase) CancelVenta(ctx context.Context, userID, referencia, comment string) error {
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		movs, err := r.Movements.ListByReference(referencia, entity.MovementTypeVEN)
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

		ids := lotIDs(completados)
		if _, err := r.Lots.ListForUpdate(ids); err != nil {
			return err
		}

		now := time.Now()
		for _, m := range completados {
			if err := r.Lots.AddQuantity(m.LotID, -m.Quantity); err != nil {
				return err
			}
		}
		if _, err := r.Movements.CancelByReference(referencia, entity.MovementTypeVEN, comment); err != nil {
			return err
		}
		for _, m := range completados {
			comp := &entity.Movement{
				ID:        uuid.New().String(),
				LotID:     m.LotID,
				Type:      entity.MovementTypeVEN,
				Quantity:  -m.Quantity,
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

// ListVentas lista referencias de venta para el índice.
func (uc *UseCase) ListVentas(limit, offset int) ([]repository.ReferenceSummary, error) {
	return uc.movRepo.ListReferences(entity.MovementTypeVEN, limit, offset)
}

// MovimientosDeVenta asientos de una factura, para la vista de detalle.
func (uc *UseCase) MovimientosDeVenta(referencia string) ([]*entity.Movement, error) {
	return uc.movRepo.ListByReference(referencia, entity.MovementTypeVEN)
}

// lotIDs ids de lote sin repetir, en orden de aparición.
func lotIDs(movs []*entity.Movement) []string {
	seen := make(map[string]bool, len(movs))
	ids := make([]string, 0, len(movs))
	for _, m := range movs {
		if !seen[m.LotID] {
			seen[m.LotID] = true
			ids = append(ids, m.LotID)
		}
	}
	return ids
}
