package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

// AdjustmentPDFLine una línea del ajuste enriquecida para impresión.
type AdjustmentPDFLine struct {
	ProductCode string
	ProductName string
	LotNumber   string
	SystemQty   int
	CountedQty  int
	Difference  int
}

// ReceptionPDFLine una línea de recepción enriquecida para impresión.
type ReceptionPDFLine struct {
	ProductName string
	LotNumber   string
	ExpiryDate  *time.Time
	Quantity    int
	UnitCost    decimal.Decimal
}

// ExpiryPDFLine una línea del reporte de vencimiento para impresión.
type ExpiryPDFLine struct {
	ProductName string
	LotNumber   string
	ExpiryDate  *time.Time
	Quantity    int
}

// DocumentPDFGenerator genera la representación imprimible de los documentos
// de la sucursal. Implementado en infrastructure/pdf con Maroto.
type DocumentPDFGenerator interface {
	AdjustmentPDF(ctx context.Context, a *entity.Adjustment, lines []AdjustmentPDFLine) ([]byte, error)
	ReceptionPDF(ctx context.Context, r *entity.Reception, lines []ReceptionPDFLine) ([]byte, error)
	ExpiryReportPDF(ctx context.Context, r *entity.ExpiryReport, lines []ExpiryPDFLine) ([]byte, error)
}

// PDFUseCase arma los datos de un documento y delega la generación del PDF.
type PDFUseCase struct {
	adjustRepo  repository.AdjustmentRepository
	recepRepo   repository.ReceptionRepository
	reportRepo  repository.ExpiryReportRepository
	lotRepo     repository.LotRepository
	productRepo repository.ProductRepository
	generator   DocumentPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(
	adjustRepo repository.AdjustmentRepository,
	recepRepo repository.ReceptionRepository,
	reportRepo repository.ExpiryReportRepository,
	lotRepo repository.LotRepository,
	productRepo repository.ProductRepository,
	generator DocumentPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		adjustRepo:  adjustRepo,
		recepRepo:   recepRepo,
		reportRepo:  reportRepo,
		lotRepo:     lotRepo,
		productRepo: productRepo,
		generator:   generator,
	}
}

// AdjustmentPDF genera el comprobante de un ajuste de inventario.
func (uc *PDFUseCase) AdjustmentPDF(ctx context.Context, id string) ([]byte, string, error) {
	a, err := uc.adjustRepo.GetByID(id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener ajuste: %w", err)
	}
	if a == nil {
		return nil, "", domain.ErrNotFound
	}
	details, err := uc.adjustRepo.ListDetails(id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: detalles de ajuste: %w", err)
	}
	lines := make([]AdjustmentPDFLine, 0, len(details))
	for _, d := range details {
		lot, product, err := uc.lotWithProduct(d.LotID)
		if err != nil {
			return nil, "", err
		}
		lines = append(lines, AdjustmentPDFLine{
			ProductCode: product.Code,
			ProductName: product.Name,
			LotNumber:   lot.LotNumber,
			SystemQty:   d.SystemQty,
			CountedQty:  d.CountedQty,
			Difference:  d.Difference,
		})
	}
	pdf, err := uc.generator.AdjustmentPDF(ctx, a, lines)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("ajuste-%s.pdf", a.ID), nil
}

// ReceptionPDF genera el comprobante de una recepción de envío.
func (uc *PDFUseCase) ReceptionPDF(ctx context.Context, id string) ([]byte, string, error) {
	r, err := uc.recepRepo.GetByID(id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener recepción: %w", err)
	}
	if r == nil {
		return nil, "", domain.ErrNotFound
	}
	details, err := uc.recepRepo.ListDetails(id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: detalles de recepción: %w", err)
	}
	lines := make([]ReceptionPDFLine, 0, len(details))
	for _, d := range details {
		lot, product, err := uc.lotWithProduct(d.LotID)
		if err != nil {
			return nil, "", err
		}
		lines = append(lines, ReceptionPDFLine{
			ProductName: product.Name,
			LotNumber:   lot.LotNumber,
			ExpiryDate:  lot.ExpiryDate,
			Quantity:    d.Quantity,
			UnitCost:    d.UnitCost,
		})
	}
	pdf, err := uc.generator.ReceptionPDF(ctx, r, lines)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("recepcion-%s.pdf", r.ShipmentNumber), nil
}

// ExpiryReportPDF genera el documento de un reporte de vencimiento.
func (uc *PDFUseCase) ExpiryReportPDF(ctx context.Context, id string) ([]byte, string, error) {
	rep, err := uc.reportRepo.GetByID(id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener reporte: %w", err)
	}
	if rep == nil {
		return nil, "", domain.ErrNotFound
	}
	details, err := uc.reportRepo.ListDetails(id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: detalles de reporte: %w", err)
	}
	lines := make([]ExpiryPDFLine, 0, len(details))
	for _, d := range details {
		lot, product, err := uc.lotWithProduct(d.LotID)
		if err != nil {
			return nil, "", err
		}
		lines = append(lines, ExpiryPDFLine{
			ProductName: product.Name,
			LotNumber:   lot.LotNumber,
			ExpiryDate:  lot.ExpiryDate,
			Quantity:    d.Quantity,
		})
	}
	pdf, err := uc.generator.ExpiryReportPDF(ctx, rep, lines)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("reporte-vencimiento-%s.pdf", rep.ID), nil
}

func (uc *PDFUseCase) lotWithProduct(lotID string) (*entity.Lot, *entity.Product, error) {
	lot, err := uc.lotRepo.GetByID(lotID)
	if err != nil {
		return nil, nil, fmt.Errorf("pdf: obtener lote: %w", err)
	}
	if lot == nil {
		return nil, nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(lot.ProductID)
	if err != nil {
		return nil, nil, fmt.Errorf("pdf: obtener producto: %w", err)
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	return lot, product, nil
}
