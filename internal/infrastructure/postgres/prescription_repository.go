package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

var _ repository.PrescriptionRepository = (*PrescriptionRepo)(nil)

// PrescriptionRepo registro de ventas con receta sobre PostgreSQL (usable con pool o tx).
type PrescriptionRepo struct {
	q Querier
}

// NewPrescriptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPrescriptionRepository(q Querier) *PrescriptionRepo {
	return &PrescriptionRepo{q: q}
}

// Create persiste el registro de receta de una venta.
func (r *PrescriptionRepo) Create(p *entity.Prescription) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO recetas (id, fecha_venta, numero_factura, numero_receta, producto_id, usuario_id)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.SoldAt, p.InvoiceReference, p.RxReference, p.ProductID, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("insert receta: %w", err)
	}
	return nil
}

// ListByReference lista las recetas registradas en una factura.
func (r *PrescriptionRepo) ListByReference(invoiceReference string) ([]*entity.Prescription, error) {
	query := `
		SELECT id, fecha_venta, numero_factura, numero_receta, producto_id, usuario_id
		FROM recetas WHERE numero_factura = $1 ORDER BY fecha_venta, id`
	return r.queryPrescriptions(query, invoiceReference)
}

// List lista recetas con paginación, las más recientes primero.
func (r *PrescriptionRepo) List(limit, offset int) ([]*entity.Prescription, error) {
	query := `
		SELECT id, fecha_venta, numero_factura, numero_receta, producto_id, usuario_id
		FROM recetas ORDER BY fecha_venta DESC LIMIT $1 OFFSET $2`
	return r.queryPrescriptions(query, limit, offset)
}

func (r *PrescriptionRepo) queryPrescriptions(query string, args ...any) ([]*entity.Prescription, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recetas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Prescription
	for rows.Next() {
		var p entity.Prescription
		if err := rows.Scan(&p.ID, &p.SoldAt, &p.InvoiceReference, &p.RxReference, &p.ProductID, &p.UserID); err != nil {
			return nil, fmt.Errorf("scan receta: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
