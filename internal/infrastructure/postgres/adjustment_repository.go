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

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación de ajustes de inventario sobre PostgreSQL (usable con pool o tx).
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create persiste el encabezado del ajuste.
func (r *AdjustmentRepo) Create(a *entity.Adjustment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO ajustes (id, fecha, usuario_id, tipo, estado)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query, a.ID, a.Date, a.UserID, a.Kind, a.State)
	if err != nil {
		return fmt.Errorf("insert ajuste: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea del ajuste.
func (r *AdjustmentRepo) CreateDetail(d *entity.AdjustmentDetail) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	query := `
		INSERT INTO detalles_ajuste (id, ajuste_id, lote_id, cantidad_sistema, cantidad_contada, diferencia)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.AdjustmentID, d.LotID, d.SystemQty, d.CountedQty, d.Difference,
	)
	if err != nil {
		return fmt.Errorf("insert detalle ajuste: %w", err)
	}
	return nil
}

// GetByID obtiene un ajuste por ID.
func (r *AdjustmentRepo) GetByID(id string) (*entity.Adjustment, error) {
	query := `SELECT id, fecha, usuario_id, tipo, estado FROM ajustes WHERE id = $1`
	var a entity.Adjustment
	err := r.q.QueryRow(context.Background(), query, id).Scan(&a.ID, &a.Date, &a.UserID, &a.Kind, &a.State)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ajuste: %w", err)
	}
	return &a, nil
}

// ListByKind lista ajustes de un tipo con paginación, los más recientes primero.
func (r *AdjustmentRepo) ListByKind(kind string, limit, offset int) ([]*entity.Adjustment, error) {
	query := `
		SELECT id, fecha, usuario_id, tipo, estado
		FROM ajustes WHERE tipo = $1
		ORDER BY fecha DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ajustes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Adjustment
	for rows.Next() {
		var a entity.Adjustment
		if err := rows.Scan(&a.ID, &a.Date, &a.UserID, &a.Kind, &a.State); err != nil {
			return nil, fmt.Errorf("scan ajuste: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// ListDetails lista las líneas de un ajuste.
func (r *AdjustmentRepo) ListDetails(adjustmentID string) ([]*entity.AdjustmentDetail, error) {
	query := `
		SELECT id, ajuste_id, lote_id, cantidad_sistema, cantidad_contada, diferencia
		FROM detalles_ajuste WHERE ajuste_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, adjustmentID)
	if err != nil {
		return nil, fmt.Errorf("list detalles ajuste: %w", err)
	}
	defer rows.Close()
	var list []*entity.AdjustmentDetail
	for rows.Next() {
		var d entity.AdjustmentDetail
		if err := rows.Scan(&d.ID, &d.AdjustmentID, &d.LotID, &d.SystemQty, &d.CountedQty, &d.Difference); err != nil {
			return nil, fmt.Errorf("scan detalle ajuste: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ExistsDetailForLot indica si algún ajuste referencia el lote.
func (r *AdjustmentRepo) ExistsDetailForLot(lotID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM detalles_ajuste WHERE lote_id = $1)`,
		lotID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists detalle ajuste: %w", err)
	}
	return exists, nil
}

// UpdateState cambia el estado del ajuste.
func (r *AdjustmentRepo) UpdateState(id, state string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE ajustes SET estado = $2 WHERE id = $1`, id, state)
	if err != nil {
		return fmt.Errorf("update estado ajuste: %w", err)
	}
	return nil
}
