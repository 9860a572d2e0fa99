package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

var _ repository.ExpiryReportRepository = (*ExpiryReportRepo)(nil)

// ExpiryReportRepo implementación de reportes de vencimiento sobre PostgreSQL (usable con pool o tx).
type ExpiryReportRepo struct {
	q Querier
}

// NewExpiryReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpiryReportRepository(q Querier) *ExpiryReportRepo {
	return &ExpiryReportRepo{q: q}
}

// Create persiste el encabezado del reporte de vencimiento.
func (r *ExpiryReportRepo) Create(rep *entity.ExpiryReport) error {
	if rep.ID == "" {
		rep.ID = uuid.New().String()
	}
	query := `
		INSERT INTO reportes_vencimiento (id, fecha, documento, observaciones, usuario_id, estado)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		rep.ID, rep.Date, rep.Document, rep.Observations, rep.UserID, rep.State,
	)
	if err != nil {
		return fmt.Errorf("insert reporte vencimiento: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea del reporte (lote retirado y cantidad).
func (r *ExpiryReportRepo) CreateDetail(d *entity.ExpiryReportDetail) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	query := `
		INSERT INTO detalles_reporte_vencimiento (id, reporte_id, lote_id, cantidad)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, d.ID, d.ReportID, d.LotID, d.Quantity)
	if err != nil {
		return fmt.Errorf("insert detalle reporte: %w", err)
	}
	return nil
}

// GetByID obtiene un reporte por ID.
func (r *ExpiryReportRepo) GetByID(id string) (*entity.ExpiryReport, error) {
	query := `SELECT id, fecha, documento, observaciones, usuario_id, estado FROM reportes_vencimiento WHERE id = $1`
	var rep entity.ExpiryReport
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rep.ID, &rep.Date, &rep.Document, &rep.Observations, &rep.UserID, &rep.State,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reporte vencimiento: %w", err)
	}
	return &rep, nil
}

// List lista reportes con paginación, los más recientes primero.
func (r *ExpiryReportRepo) List(limit, offset int) ([]*entity.ExpiryReport, error) {
	query := `
		SELECT id, fecha, documento, observaciones, usuario_id, estado
		FROM reportes_vencimiento ORDER BY fecha DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reportes vencimiento: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExpiryReport
	for rows.Next() {
		var rep entity.ExpiryReport
		if err := rows.Scan(&rep.ID, &rep.Date, &rep.Document, &rep.Observations, &rep.UserID, &rep.State); err != nil {
			return nil, fmt.Errorf("scan reporte vencimiento: %w", err)
		}
		list = append(list, &rep)
	}
	return list, rows.Err()
}

// ListDetails lista las líneas de un reporte.
func (r *ExpiryReportRepo) ListDetails(reportID string) ([]*entity.ExpiryReportDetail, error) {
	query := `
		SELECT id, reporte_id, lote_id, cantidad
		FROM detalles_reporte_vencimiento WHERE reporte_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, reportID)
	if err != nil {
		return nil, fmt.Errorf("list detalles reporte: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExpiryReportDetail
	for rows.Next() {
		var d entity.ExpiryReportDetail
		if err := rows.Scan(&d.ID, &d.ReportID, &d.LotID, &d.Quantity); err != nil {
			return nil, fmt.Errorf("scan detalle reporte: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ExistsDetailForLot indica si algún reporte referencia el lote.
func (r *ExpiryReportRepo) ExistsDetailForLot(lotID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM detalles_reporte_vencimiento WHERE lote_id = $1)`,
		lotID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists detalle reporte: %w", err)
	}
	return exists, nil
}

// UpdateState cambia el estado del reporte.
func (r *ExpiryReportRepo) UpdateState(id, state string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE reportes_vencimiento SET estado = $2 WHERE id = $1`, id, state)
	if err != nil {
		return fmt.Errorf("update estado reporte: %w", err)
	}
	return nil
}
