package dto

import "time"

// CreateProductRequest entrada para crear un producto del catálogo.
type CreateProductRequest struct {
	Codigo       string `json:"codigo" validate:"required,min=1,max=50"`
	Nombre       string `json:"nombre" validate:"required,min=1,max=200"`
	Descripcion  string `json:"descripcion"`
	RequiereRx   bool   `json:"requiere_receta"`
	Controlado   bool   `json:"controlado"`
	StockMinimo  int    `json:"stock_minimo" validate:"min=0"`
	Presentacion string `json:"presentacion"`
	UnidadMedida string `json:"unidad_medida" validate:"required"`
	Laboratorio  string `json:"laboratorio"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Nombre       *string `json:"nombre" validate:"omitempty,min=1,max=200"`
	Descripcion  *string `json:"descripcion"`
	RequiereRx   *bool   `json:"requiere_receta"`
	Controlado   *bool   `json:"controlado"`
	StockMinimo  *int    `json:"stock_minimo" validate:"omitempty,min=0"`
	Presentacion *string `json:"presentacion"`
	UnidadMedida *string `json:"unidad_medida"`
	Laboratorio  *string `json:"laboratorio"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string    `json:"id"`
	Codigo       string    `json:"codigo"`
	Nombre       string    `json:"nombre"`
	Descripcion  string    `json:"descripcion"`
	RequiereRx   bool      `json:"requiere_receta"`
	Controlado   bool      `json:"controlado"`
	StockMinimo  int       `json:"stock_minimo"`
	Presentacion string    `json:"presentacion"`
	UnidadMedida string    `json:"unidad_medida"`
	Laboratorio  string    `json:"laboratorio"`
	Estado       string    `json:"estado"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
