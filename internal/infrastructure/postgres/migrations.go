package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate crea el esquema de la sucursal si no existe. Es idempotente y se
// ejecuta al arrancar la API o desde el CLI.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS usuarios (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			nombre TEXT NOT NULL,
			apellido TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			rol TEXT NOT NULL,
			activo BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS productos (
			id UUID PRIMARY KEY,
			codigo TEXT NOT NULL UNIQUE,
			nombre TEXT NOT NULL,
			descripcion TEXT NOT NULL DEFAULT '',
			requiere_receta BOOLEAN NOT NULL DEFAULT FALSE,
			controlado BOOLEAN NOT NULL DEFAULT FALSE,
			stock_minimo INTEGER NOT NULL DEFAULT 0,
			presentacion TEXT NOT NULL DEFAULT '',
			unidad_medida TEXT NOT NULL,
			laboratorio TEXT NOT NULL DEFAULT '',
			estado TEXT NOT NULL DEFAULT 'Activo',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS lotes (
			id UUID PRIMARY KEY,
			producto_id UUID NOT NULL REFERENCES productos(id),
			numero_lote TEXT NOT NULL,
			fecha_caducidad DATE,
			cantidad_disponible INTEGER NOT NULL DEFAULT 0 CHECK (cantidad_disponible >= 0),
			ubicacion TEXT NOT NULL DEFAULT '',
			precio_compra NUMERIC(12,2),
			precio_venta NUMERIC(12,2),
			estado TEXT NOT NULL DEFAULT 'Disponible',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (producto_id, numero_lote)
		)`,
		`CREATE TABLE IF NOT EXISTS movimientos_inventario (
			id UUID PRIMARY KEY,
			lote_id UUID NOT NULL REFERENCES lotes(id),
			tipo TEXT NOT NULL,
			cantidad INTEGER NOT NULL,
			fecha TIMESTAMPTZ NOT NULL DEFAULT now(),
			usuario_id TEXT NOT NULL DEFAULT '',
			referencia TEXT NOT NULL,
			comentario TEXT NOT NULL DEFAULT '',
			estado TEXT NOT NULL DEFAULT 'Completado'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movimientos_referencia ON movimientos_inventario (referencia, tipo)`,
		`CREATE INDEX IF NOT EXISTS idx_movimientos_lote ON movimientos_inventario (lote_id, fecha)`,
		`CREATE TABLE IF NOT EXISTS ajustes (
			id UUID PRIMARY KEY,
			fecha TIMESTAMPTZ NOT NULL,
			usuario_id TEXT NOT NULL DEFAULT '',
			tipo TEXT NOT NULL,
			estado TEXT NOT NULL DEFAULT 'Completado'
		)`,
		`CREATE TABLE IF NOT EXISTS detalles_ajuste (
			id UUID PRIMARY KEY,
			ajuste_id UUID NOT NULL REFERENCES ajustes(id),
			lote_id UUID NOT NULL REFERENCES lotes(id),
			cantidad_sistema INTEGER NOT NULL,
			cantidad_contada INTEGER NOT NULL,
			diferencia INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS recepciones (
			id UUID PRIMARY KEY,
			numero_envio_bodega TEXT NOT NULL UNIQUE,
			fecha_recepcion TIMESTAMPTZ NOT NULL,
			usuario_id TEXT NOT NULL DEFAULT '',
			estado TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS detalles_recepcion (
			id UUID PRIMARY KEY,
			recepcion_id UUID NOT NULL REFERENCES recepciones(id),
			lote_id UUID NOT NULL REFERENCES lotes(id),
			cantidad INTEGER NOT NULL,
			costo_unitario NUMERIC(12,2) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS reportes_vencimiento (
			id UUID PRIMARY KEY,
			fecha TIMESTAMPTZ NOT NULL,
			documento TEXT NOT NULL,
			observaciones TEXT NOT NULL DEFAULT '',
			usuario_id TEXT NOT NULL DEFAULT '',
			estado TEXT NOT NULL DEFAULT 'Completado'
		)`,
		`CREATE TABLE IF NOT EXISTS detalles_reporte_vencimiento (
			id UUID PRIMARY KEY,
			reporte_id UUID NOT NULL REFERENCES reportes_vencimiento(id),
			lote_id UUID NOT NULL REFERENCES lotes(id),
			cantidad INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS solicitudes_reposicion (
			id UUID PRIMARY KEY,
			fecha TIMESTAMPTZ NOT NULL,
			documento TEXT NOT NULL,
			usuario_id TEXT NOT NULL DEFAULT '',
			estado TEXT NOT NULL DEFAULT 'Pendiente'
		)`,
		`CREATE TABLE IF NOT EXISTS detalles_solicitud_reposicion (
			id UUID PRIMARY KEY,
			solicitud_id UUID NOT NULL REFERENCES solicitudes_reposicion(id),
			producto_id UUID NOT NULL REFERENCES productos(id),
			cantidad INTEGER NOT NULL,
			urgente BOOLEAN NOT NULL DEFAULT FALSE,
			observaciones TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS recetas (
			id UUID PRIMARY KEY,
			fecha_venta TIMESTAMPTZ NOT NULL,
			numero_factura TEXT NOT NULL,
			numero_receta TEXT NOT NULL DEFAULT '',
			producto_id UUID NOT NULL REFERENCES productos(id),
			usuario_id TEXT NOT NULL DEFAULT ''
		)`,
	}

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migración: %w", err)
		}
	}
	return nil
}
