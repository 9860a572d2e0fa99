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

var _ repository.RestockRepository = (*RestockRepo)(nil)

// RestockRepo implementación de solicitudes de faltantes sobre PostgreSQL (usable con pool o tx).
type RestockRepo struct {
	q Querier
}

// NewRestockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRestockRepository(q Querier) *RestockRepo {
	return &RestockRepo{q: q}
}

// Create persiste el encabezado de la solicitud.
func (r *RestockRepo) Create(req *entity.RestockRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	query := `
		INSERT INTO solicitudes_reposicion (id, fecha, documento, usuario_id, estado)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.Date, req.Document, req.UserID, req.State,
	)
	if err != nil {
		return fmt.Errorf("insert solicitud: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea solicitada.
func (r *RestockRepo) CreateDetail(d *entity.RestockRequestDetail) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	query := `
		INSERT INTO detalles_solicitud_reposicion (id, solicitud_id, producto_id, cantidad, urgente, observaciones)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.RequestID, d.ProductID, d.Quantity, d.Urgent, d.Observations,
	)
	if err != nil {
		return fmt.Errorf("insert detalle solicitud: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *RestockRepo) GetByID(id string) (*entity.RestockRequest, error) {
	query := `SELECT id, fecha, documento, usuario_id, estado FROM solicitudes_reposicion WHERE id = $1`
	var req entity.RestockRequest
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&req.ID, &req.Date, &req.Document, &req.UserID, &req.State,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get solicitud: %w", err)
	}
	return &req, nil
}

// List lista solicitudes con paginación, las más recientes primero.
func (r *RestockRepo) List(limit, offset int) ([]*entity.RestockRequest, error) {
	query := `
		SELECT id, fecha, documento, usuario_id, estado
		FROM solicitudes_reposicion ORDER BY fecha DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list solicitudes: %w", err)
	}
	defer rows.Close()
	var list []*entity.RestockRequest
	for rows.Next() {
		var req entity.RestockRequest
		if err := rows.Scan(&req.ID, &req.Date, &req.Document, &req.UserID, &req.State); err != nil {
			return nil, fmt.Errorf("scan solicitud: %w", err)
		}
		list = append(list, &req)
	}
	return list, rows.Err()
}

// ListDetails lista las líneas de una solicitud.
func (r *RestockRepo) ListDetails(requestID string) ([]*entity.RestockRequestDetail, error) {
	query := `
		SELECT id, solicitud_id, producto_id, cantidad, urgente, observaciones
		FROM detalles_solicitud_reposicion WHERE solicitud_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list detalles solicitud: %w", err)
	}
	defer rows.Close()
	var list []*entity.RestockRequestDetail
	for rows.Next() {
		var d entity.RestockRequestDetail
		if err := rows.Scan(&d.ID, &d.RequestID, &d.ProductID, &d.Quantity, &d.Urgent, &d.Observations); err != nil {
			return nil, fmt.Errorf("scan detalle solicitud: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// UpdateState cambia el estado de la solicitud.
func (r *RestockRepo) UpdateState(id, state string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE solicitudes_reposicion SET estado = $2 WHERE id = $1`, id, state)
	if err != nil {
		return fmt.Errorf("update estado solicitud: %w", err)
	}
	return nil
}
