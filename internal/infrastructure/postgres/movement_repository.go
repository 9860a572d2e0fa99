package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Las entradas son inmutables: solo se actualizan
// estado y comentario al cancelar.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, lote_id, tipo, cantidad, fecha, usuario_id, referencia, comentario, estado`

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.LotID, &m.Type, &m.Quantity, &m.Date,
		&m.UserID, &m.Reference, &m.Comment, &m.State,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MovementRepo) queryMovements(query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Create persiste una entrada del libro de movimientos.
func (r *MovementRepo) Create(m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos_inventario (id, lote_id, tipo, cantidad, fecha, usuario_id, referencia, comentario, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.LotID, m.Type, m.Quantity, m.Date, m.UserID, m.Reference, m.Comment, m.State,
	)
	if err != nil {
		return fmt.Errorf("insert movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movimientos_inventario WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return m, nil
}

// ListByReference lista los movimientos de un tipo que comparten referencia,
// en orden de registro.
func (r *MovementRepo) ListByReference(reference, movType string) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movimientos_inventario
		WHERE referencia = $1 AND tipo = $2
		ORDER BY fecha, id`
	list, err := r.queryMovements(query, reference, movType)
	if err != nil {
		return nil, fmt.Errorf("list movimientos por referencia: %w", err)
	}
	return list, nil
}

// ListByLot lista los movimientos de un lote, los más recientes primero.
func (r *MovementRepo) ListByLot(lotID string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movimientos_inventario
		WHERE lote_id = $1
		ORDER BY fecha DESC, id DESC LIMIT $2 OFFSET $3`
	list, err := r.queryMovements(query, lotID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movimientos por lote: %w", err)
	}
	return list, nil
}

// ExistsByLot indica si el lote tiene algún asiento registrado.
func (r *MovementRepo) ExistsByLot(lotID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM movimientos_inventario WHERE lote_id = $1)`,
		lotID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists movimiento por lote: %w", err)
	}
	return exists, nil
}

// ListReferences agrupa por referencia los movimientos de un tipo, una fila
// por transacción, las más recientes primero. El estado agregado es
// Completado si queda al menos un asiento Completado.
func (r *MovementRepo) ListReferences(movType string, limit, offset int) ([]repository.ReferenceSummary, error) {
	query := `
		SELECT referencia, MIN(fecha) AS fecha, MIN(usuario_id) AS usuario_id,
		       CASE WHEN COUNT(*) FILTER (WHERE estado = $1) > 0 THEN $1 ELSE $2 END AS estado
		FROM movimientos_inventario
		WHERE tipo = $3
		GROUP BY referencia
		ORDER BY fecha DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query,
		entity.MovementStateCompletado, entity.MovementStateCancelado, movType, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list referencias: %w", err)
	}
	defer rows.Close()
	var list []repository.ReferenceSummary
	for rows.Next() {
		var s repository.ReferenceSummary
		if err := rows.Scan(&s.Reference, &s.Date, &s.UserID, &s.State); err != nil {
			return nil, fmt.Errorf("scan referencia: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// SumCompletedByReferenceAndLot suma con signo las cantidades Completado del
// tipo dado para (referencia, lote).
func (r *MovementRepo) SumCompletedByReferenceAndLot(reference, movType, lotID string) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(cantidad), 0)
		FROM movimientos_inventario
		WHERE referencia = $1 AND tipo = $2 AND lote_id = $3 AND estado = $4`,
		reference, movType, lotID, entity.MovementStateCompletado,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum movimientos: %w", err)
	}
	return total, nil
}

// SoldLotsByReference lotes vendidos (VEN Completado) de un producto en una
// factura, con lo vendido en valor absoluto y el stock actual del lote.
func (r *MovementRepo) SoldLotsByReference(reference, productID string) ([]repository.SoldLot, error) {
	query := `
		SELECT l.id, l.numero_lote, l.fecha_caducidad,
		       -SUM(m.cantidad) AS vendido, l.cantidad_disponible
		FROM movimientos_inventario m
		JOIN lotes l ON l.id = m.lote_id
		WHERE m.referencia = $1 AND m.tipo = $2 AND m.estado = $3 AND l.producto_id = $4
		GROUP BY l.id, l.numero_lote, l.fecha_caducidad, l.cantidad_disponible
		HAVING SUM(m.cantidad) < 0
		ORDER BY l.fecha_caducidad ASC NULLS LAST, l.id`
	rows, err := r.q.Query(context.Background(), query,
		reference, entity.MovementTypeVEN, entity.MovementStateCompletado, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lotes vendidos: %w", err)
	}
	defer rows.Close()
	var list []repository.SoldLot
	for rows.Next() {
		var s repository.SoldLot
		if err := rows.Scan(&s.LotID, &s.LotNumber, &s.ExpiryDate, &s.Sold, &s.Available); err != nil {
			return nil, fmt.Errorf("scan lote vendido: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// FirstNegativeAfter primer movimiento de naturaleza negativa no cancelado
// sobre alguno de los lotes desde la fecha dada, o nil si no hay ninguno.
func (r *MovementRepo) FirstNegativeAfter(lotIDs []string, since time.Time) (*entity.Movement, error) {
	if len(lotIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + movementColumns + `
		FROM movimientos_inventario
		WHERE lote_id = ANY($1) AND fecha >= $2 AND estado = $3
		  AND tipo IN ($4, $5, $6)
		ORDER BY fecha, id LIMIT 1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query,
		lotIDs, since, entity.MovementStateCompletado,
		entity.MovementTypeVEN, entity.MovementTypeAJS, entity.MovementTypeRET,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar movimiento posterior: %w", err)
	}
	return m, nil
}

// CancelByReference marca Cancelado los movimientos Completado del tipo y
// referencia dados, fijando el comentario. Devuelve cuántos cambió.
func (r *MovementRepo) CancelByReference(reference, movType, comment string) (int64, error) {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE movimientos_inventario SET estado = $4, comentario = $5
		WHERE referencia = $1 AND tipo = $2 AND estado = $3`,
		reference, movType, entity.MovementStateCompletado,
		entity.MovementStateCancelado, comment,
	)
	if err != nil {
		return 0, fmt.Errorf("cancelar movimientos: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// CancelByID marca Cancelado un movimiento puntual.
func (r *MovementRepo) CancelByID(id, comment string) error {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE movimientos_inventario SET estado = $2, comentario = $3 WHERE id = $1`,
		id, entity.MovementStateCancelado, comment,
	)
	if err != nil {
		return fmt.Errorf("cancelar movimiento: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
