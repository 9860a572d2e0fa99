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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, codigo, nombre, descripcion, requiere_receta, controlado, stock_minimo, presentacion, unidad_medida, laboratorio, estado, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.RequiresRx, &p.Controlled,
		&p.MinStock, &p.Presentation, &p.UnitMeasure, &p.Laboratory, &p.State,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto del catálogo.
func (r *ProductRepo) Create(product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	query := `
		INSERT INTO productos (id, codigo, nombre, descripcion, requiere_receta, controlado, stock_minimo, presentacion, unidad_medida, laboratorio, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Code, product.Name, product.Description,
		product.RequiresRx, product.Controlled, product.MinStock,
		product.Presentation, product.UnitMeasure, product.Laboratory,
		product.State, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// Update actualiza los campos editables del producto. El stock no vive aquí.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE productos SET codigo = $2, nombre = $3, descripcion = $4, requiere_receta = $5, controlado = $6, stock_minimo = $7, presentacion = $8, unidad_medida = $9, laboratorio = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Code, product.Name, product.Description,
		product.RequiresRx, product.Controlled, product.MinStock,
		product.Presentation, product.UnitMeasure, product.Laboratory,
		product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update producto: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return p, nil
}

// GetByCode obtiene un producto por su código único.
func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE codigo = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto por codigo: %w", err)
	}
	return p, nil
}

// List lista productos con paginación, los más recientes primero.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// SearchActive busca por nombre o código solo entre productos activos.
func (r *ProductRepo) SearchActive(term string, limit int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM productos
		WHERE estado = $1 AND (nombre ILIKE '%' || $2 || '%' OR codigo ILIKE '%' || $2 || '%')
		ORDER BY nombre LIMIT $3`
	rows, err := r.q.Query(context.Background(), query, entity.ProductStateActivo, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search productos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateState cambia el estado del producto (Activo/Inactivo).
func (r *ProductRepo) UpdateState(id, state string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE productos SET estado = $2, updated_at = now() WHERE id = $1`,
		id, state,
	)
	if err != nil {
		return fmt.Errorf("update estado producto: %w", err)
	}
	return nil
}

// ListLowStock productos activos con stock agregado bajo stock_minimo * multiplier,
// con el último costo unitario de recepción como referencia.
func (r *ProductRepo) ListLowStock(multiplier float64) ([]repository.LowStockProduct, error) {
	query := `
		SELECT p.id, p.codigo, p.nombre, p.stock_minimo,
		       COALESCE(SUM(l.cantidad_disponible), 0) AS stock_total,
		       COALESCE((
		           SELECT dr.costo_unitario
		           FROM detalles_recepcion dr
		           JOIN lotes lr ON lr.id = dr.lote_id
		           JOIN recepciones r ON r.id = dr.recepcion_id
		           WHERE lr.producto_id = p.id
		           ORDER BY r.fecha_recepcion DESC LIMIT 1
		       ), 0) AS ultimo_costo
		FROM productos p
		LEFT JOIN lotes l ON l.producto_id = p.id
		WHERE p.estado = $1 AND p.stock_minimo > 0
		GROUP BY p.id, p.codigo, p.nombre, p.stock_minimo
		HAVING COALESCE(SUM(l.cantidad_disponible), 0) < p.stock_minimo * $2
		ORDER BY p.nombre`
	rows, err := r.q.Query(context.Background(), query, entity.ProductStateActivo, multiplier)
	if err != nil {
		return nil, fmt.Errorf("list bajo stock: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockProduct
	for rows.Next() {
		var p repository.LowStockProduct
		if err := rows.Scan(&p.ProductID, &p.Code, &p.Name, &p.MinStock, &p.TotalAvailable, &p.LatestUnitCost); err != nil {
			return nil, fmt.Errorf("scan bajo stock: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
