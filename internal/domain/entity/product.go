package entity

import "time"

// Estados de producto.
const (
	ProductStateActivo   = "Activo"
	ProductStateInactivo = "Inactivo"
)

// Product representa un producto del catálogo farmacéutico.
// El stock no vive aquí: se lleva por lote (Lot.Available).
type Product struct {
	ID           string
	Code         string // código único del producto
	Name         string
	Description  string
	RequiresRx   bool // requiere receta médica
	Controlled   bool // sustancia controlada
	MinStock     int  // stock mínimo para alertas de reposición
	Presentation string
	UnitMeasure  string
	Laboratory   string
	State        string // Activo | Inactivo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanReactivate verifica que los campos de referencia obligatorios estén
// presentes antes de volver a activar el producto.
func (p *Product) CanReactivate() bool {
	return p.Code != "" && p.Name != "" && p.UnitMeasure != "" && p.Presentation != ""
}
