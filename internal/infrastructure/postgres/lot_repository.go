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

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del puerto LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, producto_id, numero_lote, fecha_caducidad, cantidad_disponible, ubicacion, precio_compra, precio_venta, estado, created_at, updated_at`

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(
		&l.ID, &l.ProductID, &l.LotNumber, &l.ExpiryDate, &l.Available,
		&l.Location, &l.PurchasePrice, &l.SalePrice, &l.State,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LotRepo) queryLots(query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Create persiste un lote nuevo. (producto, número de lote) es único.
func (r *LotRepo) Create(l *entity.Lot) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO lotes (id, producto_id, numero_lote, fecha_caducidad, cantidad_disponible, ubicacion, precio_compra, precio_venta, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.ProductID, l.LotNumber, l.ExpiryDate, l.Available,
		l.Location, l.PurchasePrice, l.SalePrice, l.State, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lote: %w", err)
	}
	return nil
}

// Update actualiza los campos editables del lote. La cantidad no se toca
// aquí: se muta solo con AddQuantity/SetQuantityAndState.
func (r *LotRepo) Update(l *entity.Lot) error {
	query := `
		UPDATE lotes SET numero_lote = $2, fecha_caducidad = $3, ubicacion = $4, precio_compra = $5, precio_venta = $6, estado = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.LotNumber, l.ExpiryDate, l.Location, l.PurchasePrice, l.SalePrice, l.State, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update lote: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lotes WHERE id = $1`
	l, err := scanLot(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return l, nil
}

// GetByProductAndNumber obtiene un lote por producto y número de lote.
func (r *LotRepo) GetByProductAndNumber(productID, lotNumber string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lotes WHERE producto_id = $1 AND numero_lote = $2`
	l, err := scanLot(r.q.QueryRow(context.Background(), query, productID, lotNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote por numero: %w", err)
	}
	return l, nil
}

// GetForUpdate relee el lote bloqueando la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lotes WHERE id = $1 FOR UPDATE`
	l, err := scanLot(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote for update: %w", err)
	}
	return l, nil
}

// ListForUpdate bloquea y devuelve varios lotes por id, en orden estable.
func (r *LotRepo) ListForUpdate(ids []string) ([]*entity.Lot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + lotColumns + ` FROM lotes WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	list, err := r.queryLots(query, ids)
	if err != nil {
		return nil, fmt.Errorf("list lotes for update: %w", err)
	}
	return list, nil
}

// ListSellableForUpdate lotes con stock de un producto en estados vendibles,
// bloqueados, en orden FIFO por caducidad (sin fecha al final, luego id).
func (r *LotRepo) ListSellableForUpdate(productID string) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lotes
		WHERE producto_id = $1 AND cantidad_disponible > 0 AND estado = ANY($2)
		ORDER BY fecha_caducidad ASC NULLS LAST, id
		FOR UPDATE`
	list, err := r.queryLots(query, productID, entity.SellableLotStates)
	if err != nil {
		return nil, fmt.Errorf("list lotes vendibles: %w", err)
	}
	return list, nil
}

// AddQuantity suma delta (puede ser negativo) a cantidad_disponible.
// El CHECK de la tabla impide dejarla negativa.
func (r *LotRepo) AddQuantity(id string, delta int) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE lotes SET cantidad_disponible = cantidad_disponible + $2, updated_at = now() WHERE id = $1`,
		id, delta,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("add cantidad lote: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetQuantityAndState fija cantidad y estado en una sola actualización.
func (r *LotRepo) SetQuantityAndState(id string, quantity int, state string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE lotes SET cantidad_disponible = $2, estado = $3, updated_at = now() WHERE id = $1`,
		id, quantity, state,
	)
	if err != nil {
		return fmt.Errorf("set cantidad y estado lote: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateState cambia solo el estado del lote.
func (r *LotRepo) UpdateState(id, state string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE lotes SET estado = $2, updated_at = now() WHERE id = $1`,
		id, state,
	)
	if err != nil {
		return fmt.Errorf("update estado lote: %w", err)
	}
	return nil
}

// ListByProduct lista los lotes de un producto, próximos a caducar primero.
func (r *LotRepo) ListByProduct(productID string) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lotes WHERE producto_id = $1 ORDER BY fecha_caducidad ASC NULLS LAST, id`
	list, err := r.queryLots(query, productID)
	if err != nil {
		return nil, fmt.Errorf("list lotes: %w", err)
	}
	return list, nil
}

// SearchByProduct busca lotes de un producto por número de lote, opcionalmente
// restringidos a un conjunto de estados.
func (r *LotRepo) SearchByProduct(productID, term string, states []string, limit int) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lotes
		WHERE producto_id = $1 AND numero_lote ILIKE '%' || $2 || '%'`
	args := []any{productID, term}
	pos := 3
	if len(states) > 0 {
		query += fmt.Sprintf(" AND estado = ANY($%d)", pos)
		args = append(args, states)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY fecha_caducidad ASC NULLS LAST, id LIMIT $%d", pos)
	args = append(args, limit)

	list, err := r.queryLots(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search lotes: %w", err)
	}
	return list, nil
}

// ListExpiredWithStock lotes ya vencidos a la fecha y con stock. productID
// vacío lista todos. fecha_caducidad es DATE: se compara contra la fecha,
// no contra la hora del momento.
func (r *LotRepo) ListExpiredWithStock(productID string, today time.Time) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lotes
		WHERE cantidad_disponible > 0
		  AND fecha_caducidad IS NOT NULL AND fecha_caducidad < $1::date`
	args := []any{today}
	if productID != "" {
		query += ` AND producto_id = $2`
		args = append(args, productID)
	}
	query += ` ORDER BY fecha_caducidad ASC, id`
	list, err := r.queryLots(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lotes vencidos: %w", err)
	}
	return list, nil
}

// TotalAvailable stock agregado del producto a través de todos sus lotes.
func (r *LotRepo) TotalAvailable(productID string) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(cantidad_disponible), 0) FROM lotes WHERE producto_id = $1`,
		productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total disponible: %w", err)
	}
	return total, nil
}

// MarkExpired marca Vencido todo lote con fecha ya pasada, sin pisar los
// estados fuertes (Retirado/Devuelto). Devuelve cuántas filas cambiaron.
// La comparación es estricta por fecha: un lote que vence hoy aún no está
// vencido, igual que en la regla de caducidad.
func (r *LotRepo) MarkExpired(today time.Time) (int64, error) {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE lotes SET estado = $1, updated_at = now()
		WHERE fecha_caducidad IS NOT NULL AND fecha_caducidad < $2::date
		  AND estado NOT IN ($1, $3, $4)`,
		entity.LotStateVencido, today, entity.LotStateRetirado, entity.LotStateDevuelto,
	)
	if err != nil {
		return 0, fmt.Errorf("marcar vencidos: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// MarkNearExpiry marca Próximo a Vencer todo lote no fuerte cuya fecha cae
// dentro de la ventana. Devuelve cuántas filas cambiaron.
func (r *LotRepo) MarkNearExpiry(today time.Time, windowDays int) (int64, error) {
	limit := today.AddDate(0, 0, windowDays)
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE lotes SET estado = $1, updated_at = now()
		WHERE fecha_caducidad IS NOT NULL
		  AND fecha_caducidad >= $2::date AND fecha_caducidad <= $3::date
		  AND estado NOT IN ($1, $4, $5)`,
		entity.LotStateProximo, today, limit, entity.LotStateRetirado, entity.LotStateDevuelto,
	)
	if err != nil {
		return 0, fmt.Errorf("marcar proximos a vencer: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// RevertNearExpiry devuelve a Disponible los lotes en estado automático cuya
// fecha quedó fuera de la ventana (se corrigió la caducidad o la ventana).
func (r *LotRepo) RevertNearExpiry(today time.Time, windowDays int) (int64, error) {
	limit := today.AddDate(0, 0, windowDays)
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE lotes SET estado = $1, updated_at = now()
		WHERE estado IN ($2, $3)
		  AND (fecha_caducidad IS NULL OR fecha_caducidad > $4::date)`,
		entity.LotStateDisponible, entity.LotStateProximo, entity.LotStateVencido, limit,
	)
	if err != nil {
		return 0, fmt.Errorf("revertir proximos a vencer: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// Delete elimina el lote. Si otra tabla lo referencia, la llave foránea
// lo impide y se reporta como lote en uso.
func (r *LotRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM lotes WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrLotInUse
		}
		return fmt.Errorf("delete lote: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
