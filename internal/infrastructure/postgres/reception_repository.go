package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

var _ repository.ReceptionRepository = (*ReceptionRepo)(nil)

// ReceptionRepo implementación de recepciones de envío sobre PostgreSQL (usable con pool o tx).
type ReceptionRepo struct {
	q Querier
}

// NewReceptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceptionRepository(q Querier) *ReceptionRepo {
	return &ReceptionRepo{q: q}
}

// Create persiste el encabezado de la recepción. El número de envío es único.
func (r *ReceptionRepo) Create(rec *entity.Reception) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	query := `
		INSERT INTO recepciones (id, numero_envio_bodega, fecha_recepcion, usuario_id, estado)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.ShipmentNumber, rec.ReceivedAt, rec.UserID, rec.State,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert recepcion: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea recibida.
func (r *ReceptionRepo) CreateDetail(d *entity.ReceptionDetail) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	query := `
		INSERT INTO detalles_recepcion (id, recepcion_id, lote_id, cantidad, costo_unitario)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.ReceptionID, d.LotID, d.Quantity, d.UnitCost,
	)
	if err != nil {
		return fmt.Errorf("insert detalle recepcion: %w", err)
	}
	return nil
}

// GetByID obtiene una recepción por ID.
func (r *ReceptionRepo) GetByID(id string) (*entity.Reception, error) {
	query := `SELECT id, numero_envio_bodega, fecha_recepcion, usuario_id, estado FROM recepciones WHERE id = $1`
	var rec entity.Reception
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rec.ID, &rec.ShipmentNumber, &rec.ReceivedAt, &rec.UserID, &rec.State,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recepcion: %w", err)
	}
	return &rec, nil
}

// List lista recepciones con paginación, las más recientes primero.
func (r *ReceptionRepo) List(limit, offset int) ([]*entity.Reception, error) {
	query := `
		SELECT id, numero_envio_bodega, fecha_recepcion, usuario_id, estado
		FROM recepciones ORDER BY fecha_recepcion DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recepciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reception
	for rows.Next() {
		var rec entity.Reception
		if err := rows.Scan(&rec.ID, &rec.ShipmentNumber, &rec.ReceivedAt, &rec.UserID, &rec.State); err != nil {
			return nil, fmt.Errorf("scan recepcion: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// ListDetails lista las líneas de una recepción.
func (r *ReceptionRepo) ListDetails(receptionID string) ([]*entity.ReceptionDetail, error) {
	query := `
		SELECT id, recepcion_id, lote_id, cantidad, costo_unitario
		FROM detalles_recepcion WHERE recepcion_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, receptionID)
	if err != nil {
		return nil, fmt.Errorf("list detalles recepcion: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReceptionDetail
	for rows.Next() {
		var d entity.ReceptionDetail
		if err := rows.Scan(&d.ID, &d.ReceptionID, &d.LotID, &d.Quantity, &d.UnitCost); err != nil {
			return nil, fmt.Errorf("scan detalle recepcion: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ExistsDetailForLot indica si alguna recepción referencia el lote.
func (r *ReceptionRepo) ExistsDetailForLot(lotID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM detalles_recepcion WHERE lote_id = $1)`,
		lotID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists detalle recepcion: %w", err)
	}
	return exists, nil
}

// UpdateState cambia el estado de la recepción.
func (r *ReceptionRepo) UpdateState(id, state string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE recepciones SET estado = $2 WHERE id = $1`, id, state)
	if err != nil {
		return fmt.Errorf("update estado recepcion: %w", err)
	}
	return nil
}
