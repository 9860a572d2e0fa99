package query

import (
	"fmt"
	"time"

	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/ports"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
)

// UseCase vistas de detalle de sólo lectura: arma las respuestas de la API
// resolviendo nombres de producto y número de lote. Trabaja sobre
// repositorios atados al pool (fuera de transacción).
type UseCase struct {
	repos ports.Repos
}

// NewUseCase construye el caso de uso de consultas con repos de sólo lectura.
func NewUseCase(repos ports.Repos) *UseCase {
	return &UseCase{repos: repos}
}

const fechaHora = "2006-01-02 15:04"

// AdjustmentDetail vista de detalle de un ajuste.
func (uc *UseCase) AdjustmentDetail(id string) (*dto.AdjustmentResponse, error) {
	a, err := uc.repos.Adjustments.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.repos.Adjustments.ListDetails(id)
	if err != nil {
		return nil, err
	}
	out := &dto.AdjustmentResponse{
		ID:      a.ID,
		Fecha:   a.Date.Format(fechaHora),
		Tipo:    a.Kind,
		Estado:  a.State,
		Usuario: a.UserID,
	}
	for _, d := range details {
		lot, product, err := uc.lotWithProduct(d.LotID)
		if err != nil {
			return nil, err
		}
		out.Detalles = append(out.Detalles, dto.AdjustmentDetailDTO{
			LoteID:          d.LotID,
			NumeroLote:      lot.LotNumber,
			Producto:        product.Name,
			CantidadSistema: d.SystemQty,
			CantidadContada: d.CountedQty,
			Diferencia:      d.Difference,
		})
	}
	return out, nil
}

// ReceptionDetail vista de detalle de una recepción.
func (uc *UseCase) ReceptionDetail(id string) (*dto.ReceptionResponse, error) {
	r, err := uc.repos.Receptions.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.repos.Receptions.ListDetails(id)
	if err != nil {
		return nil, err
	}
	out := &dto.ReceptionResponse{
		ID:                r.ID,
		NumeroEnvioBodega: r.ShipmentNumber,
		FechaRecepcion:    r.ReceivedAt.Format(fechaHora),
		Estado:            r.State,
		Usuario:           r.UserID,
	}
	for _, d := range details {
		lot, product, err := uc.lotWithProduct(d.LotID)
		if err != nil {
			return nil, err
		}
		out.Detalles = append(out.Detalles, dto.ReceptionDetailDTO{
			LoteID:           d.LotID,
			NumeroLote:       lot.LotNumber,
			Producto:         product.Name,
			CantidadRecibida: d.Quantity,
			CostoUnitario:    d.UnitCost,
		})
	}
	return out, nil
}

// ExpiryReportDetail vista de detalle de un reporte de vencimiento.
func (uc *UseCase) ExpiryReportDetail(id string) (*dto.ExpiryReportResponse, error) {
	rep, err := uc.repos.ExpiryReports.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.repos.ExpiryReports.ListDetails(id)
	if err != nil {
		return nil, err
	}
	out := &dto.ExpiryReportResponse{
		ID:            rep.ID,
		Fecha:         rep.Date.Format(fechaHora),
		Documento:     rep.Document,
		Observaciones: rep.Observations,
		Estado:        rep.State,
		Usuario:       rep.UserID,
	}
	for _, d := range details {
		lot, product, err := uc.lotWithProduct(d.LotID)
		if err != nil {
			return nil, err
		}
		out.Detalles = append(out.Detalles, dto.ExpiryReportDetailDTO{
			LoteID:            d.LotID,
			NumeroLote:        lot.LotNumber,
			Producto:          product.Name,
			FechaCaducidad:    formatFecha(lot.ExpiryDate),
			CantidadReportada: d.Quantity,
		})
	}
	return out, nil
}

// RestockDetail vista de detalle de una solicitud de faltantes.
func (uc *UseCase) RestockDetail(id string) (*dto.RestockResponse, error) {
	req, err := uc.repos.Restocks.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.repos.Restocks.ListDetails(id)
	if err != nil {
		return nil, err
	}
	out := &dto.RestockResponse{
		ID:        req.ID,
		Fecha:     req.Date.Format(fechaHora),
		Documento: req.Document,
		Estado:    req.State,
		Usuario:   req.UserID,
	}
	for _, d := range details {
		product, err := uc.repos.Products.GetByID(d.ProductID)
		if err != nil {
			return nil, err
		}
		nombre := d.ProductID
		if product != nil {
			nombre = product.Name
		}
		out.Detalles = append(out.Detalles, dto.RestockDetailDTO{
			ProductoID:    d.ProductID,
			Producto:      nombre,
			Cantidad:      d.Quantity,
			Urgente:       d.Urgent,
			Observaciones: d.Observations,
		})
	}
	return out, nil
}

// TransactionDetail vista de detalle de una venta o devolución: los
// movimientos del tipo agrupados bajo la referencia.
func (uc *UseCase) TransactionDetail(referencia, tipo string) (*dto.SaleResponse, error) {
	movs, err := uc.repos.Movements.ListByReference(referencia, tipo)
	if err != nil {
		return nil, err
	}
	if len(movs) == 0 {
		return nil, domain.ErrNotFound
	}
	out := &dto.SaleResponse{
		Referencia: referencia,
		Fecha:      movs[0].Date.Format(fechaHora),
		Estado:     transactionState(movs),
		Usuario:    movs[0].UserID,
	}
	for _, m := range movs {
		lot, product, err := uc.lotWithProduct(m.LotID)
		if err != nil {
			return nil, err
		}
		out.Detalles = append(out.Detalles, dto.SaleMovementDTO{
			LoteID:         m.LotID,
			NumeroLote:     lot.LotNumber,
			Producto:       product.Name,
			FechaCaducidad: formatFecha(lot.ExpiryDate),
			Cantidad:       m.Quantity,
			Estado:         m.State,
		})
	}
	return out, nil
}

// SoldLots lotes vendidos de un producto bajo una factura, para armar una
// devolución.
func (uc *UseCase) SoldLots(referencia, productoID string) ([]dto.SoldLotDTO, error) {
	rows, err := uc.repos.Movements.SoldLotsByReference(referencia, productoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SoldLotDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.SoldLotDTO{
			LoteID:          r.LotID,
			NumeroLote:      r.LotNumber,
			FechaCaducidad:  formatFecha(r.ExpiryDate),
			CantidadVendida: r.Sold,
			Disponible:      r.Available,
		})
	}
	return out, nil
}

func (uc *UseCase) lotWithProduct(lotID string) (*entity.Lot, *entity.Product, error) {
	lot, err := uc.repos.Lots.GetByID(lotID)
	if err != nil {
		return nil, nil, err
	}
	if lot == nil {
		return nil, nil, fmt.Errorf("lote %s: %w", lotID, domain.ErrNotFound)
	}
	product, err := uc.repos.Products.GetByID(lot.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, fmt.Errorf("producto %s: %w", lot.ProductID, domain.ErrNotFound)
	}
	return lot, product, nil
}

// transactionState Completado si queda al menos un asiento Completado.
func transactionState(movs []*entity.Movement) string {
	for _, m := range movs {
		if m.State == entity.MovementStateCompletado {
			return entity.MovementStateCompletado
		}
	}
	return entity.MovementStateCancelado
}

func formatFecha(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
