// Package pdf implementa la generación de los comprobantes imprimibles de la
// sucursal (ajustes de inventario, recepciones de envío y reportes de
// vencimiento) usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del documento  │  N° / Fecha                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: referencia, responsable, estado                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: una fila por línea del detalle                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE: totales y leyenda                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/saif-farmacia/saif-api/internal/application/reports"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 96, Blue: 57}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPDFGenerator implementa reports.DocumentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

var _ reports.DocumentPDFGenerator = (*MarotoPDFGenerator)(nil)

// AdjustmentPDF genera el comprobante de un ajuste de inventario.
func (g *MarotoPDFGenerator) AdjustmentPDF(_ context.Context, a *entity.Adjustment, lines []reports.AdjustmentPDFLine) ([]byte, error) {
	m := newDocument("Ajuste de Inventario")

	m.AddRows(headerRow(
		fmt.Sprintf("AJUSTE DE %s", titleKind(a.Kind)),
		"AJUSTE-"+a.ID,
		a.Date,
	))
	m.AddRows(metaRow("Estado: "+a.State, "Responsable: "+nonEmpty(a.UserID, "—")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeader(
		cell{"Código", 2, align.Left},
		cell{"Producto", 4, align.Left},
		cell{"Lote", 2, align.Left},
		cell{"Sistema", 1, align.Right},
		cell{"Contado", 1, align.Right},
		cell{"Dif.", 2, align.Right},
	))
	var total int
	for _, l := range lines {
		total += l.Difference
		m.AddRows(tableRow(
			cell{l.ProductCode, 2, align.Left},
			cell{l.ProductName, 4, align.Left},
			cell{l.LotNumber, 2, align.Left},
			cell{fmt.Sprintf("%d", l.SystemQty), 1, align.Right},
			cell{fmt.Sprintf("%d", l.CountedQty), 1, align.Right},
			cell{fmt.Sprintf("%+d", l.Difference), 2, align.Right},
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(fmt.Sprintf("Diferencia total: %+d unidades", total)))

	return generate(m)
}

// ReceptionPDF genera el comprobante de una recepción de envío.
func (g *MarotoPDFGenerator) ReceptionPDF(_ context.Context, r *entity.Reception, lines []reports.ReceptionPDFLine) ([]byte, error) {
	m := newDocument("Recepción de Envío")

	m.AddRows(headerRow("RECEPCIÓN DE ENVÍO", r.ShipmentNumber, r.ReceivedAt))
	m.AddRows(metaRow("Estado: "+r.State, "Responsable: "+nonEmpty(r.UserID, "—")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeader(
		cell{"Producto", 5, align.Left},
		cell{"Lote", 2, align.Left},
		cell{"Caducidad", 2, align.Center},
		cell{"Cant.", 1, align.Right},
		cell{"Costo Unit.", 2, align.Right},
	))
	var total int
	for _, l := range lines {
		total += l.Quantity
		m.AddRows(tableRow(
			cell{l.ProductName, 5, align.Left},
			cell{l.LotNumber, 2, align.Left},
			cell{formatDate(l.ExpiryDate), 2, align.Center},
			cell{fmt.Sprintf("%d", l.Quantity), 1, align.Right},
			cell{"$" + l.UnitCost.StringFixed(2), 2, align.Right},
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(fmt.Sprintf("Unidades recibidas: %d", total)))

	return generate(m)
}

// ExpiryReportPDF genera el documento de un reporte de vencimiento.
func (g *MarotoPDFGenerator) ExpiryReportPDF(_ context.Context, r *entity.ExpiryReport, lines []reports.ExpiryPDFLine) ([]byte, error) {
	m := newDocument("Reporte de Vencimiento")

	m.AddRows(headerRow("REPORTE DE VENCIMIENTO", r.Document, r.Date))
	m.AddRows(metaRow("Estado: "+r.State, "Responsable: "+nonEmpty(r.UserID, "—")))
	if r.Observations != "" {
		m.AddRows(metaRow("Observaciones: "+r.Observations, ""))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeader(
		cell{"Producto", 6, align.Left},
		cell{"Lote", 2, align.Left},
		cell{"Caducidad", 2, align.Center},
		cell{"Retirado", 2, align.Right},
	))
	var total int
	for _, l := range lines {
		total += l.Quantity
		m.AddRows(tableRow(
			cell{l.ProductName, 6, align.Left},
			cell{l.LotNumber, 2, align.Left},
			cell{formatDate(l.ExpiryDate), 2, align.Center},
			cell{fmt.Sprintf("%d", l.Quantity), 2, align.Right},
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(fmt.Sprintf("Unidades retiradas del inventario: %d", total)))

	return generate(m)
}

// ── construcción del documento ────────────────────────────────────────────────

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título del documento (izq) y referencia + fecha (der).
func headerRow(title, reference string, date time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("Farmacia SAIF", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New(reference, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2,
			}),
			text.New("Fecha: "+date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// metaRow: una línea de datos generales en dos columnas.
func metaRow(left, right string) core.Row {
	return row.New(6).Add(
		col.New(6).Add(text.New(left, props.Text{Size: 8, Color: colorGray, Top: 1})),
		col.New(6).Add(text.New(right, props.Text{Size: 8, Color: colorGray, Top: 1, Align: align.Right})),
	)
}

type cell struct {
	label string
	size  int
	align align.Type
}

func tableHeader(cells ...cell) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func tableRow(cells ...cell) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(7).Add(cols...)
}

func totalRow(label string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 1,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func titleKind(kind string) string {
	if kind == entity.AdjustmentKindIngreso {
		return "INGRESO"
	}
	return "SALIDA"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("02/01/2006")
}
