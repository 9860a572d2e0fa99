package dto

// SaleForm cabecera para POST /api/ventas.
type SaleForm struct {
	NumeroFactura string `json:"numero_factura"`
	Comentario    string `json:"comentario,omitempty"`
}

// SaleLine renglón de venta: cantidad solicitada por producto. El motor
// decide de qué lotes descontar (FIFO por fecha de caducidad).
type SaleLine struct {
	ProductoID   string `json:"producto_id"`
	Cantidad     int    `json:"cantidad"`
	NumeroReceta string `json:"numero_receta,omitempty"`
}

// CreateSaleRequest body para registrar una venta.
type CreateSaleRequest struct {
	FormData SaleForm   `json:"form_data"`
	Detalles []SaleLine `json:"detalles"`
}

// SaleMovementDTO un descuento de stock aplicado a un lote concreto.
type SaleMovementDTO struct {
	LoteID         string `json:"lote_id"`
	NumeroLote     string `json:"numero_lote"`
	Producto       string `json:"producto"`
	FechaCaducidad string `json:"fecha_caducidad,omitempty"`
	Cantidad       int    `json:"cantidad"`
	Estado         string `json:"estado"`
}

// SaleResponse movimientos agrupados bajo una misma factura.
type SaleResponse struct {
	Referencia string            `json:"referencia"`
	Fecha      string            `json:"fecha"`
	Estado     string            `json:"estado"`
	Usuario    string            `json:"usuario"`
	Detalles   []SaleMovementDTO `json:"detalles"`
}

// ReturnForm cabecera para POST /api/devoluciones.
type ReturnForm struct {
	NumeroFactura string `json:"numero_factura"`
	Motivo        string `json:"motivo"`
}

// ReturnLine renglón de devolución: el lote debe haberse vendido bajo la
// misma factura.
type ReturnLine struct {
	ProductoID string `json:"producto_id"`
	LoteID     string `json:"lote_id"`
	Cantidad   int    `json:"cantidad"`
}

// CreateReturnRequest body para registrar una devolución.
type CreateReturnRequest struct {
	FormData ReturnForm   `json:"form_data"`
	Detalles []ReturnLine `json:"detalles"`
}

// SoldLotDTO lote vendido bajo una factura, para armar la devolución.
type SoldLotDTO struct {
	LoteID          string `json:"lote_id"`
	NumeroLote      string `json:"numero_lote"`
	FechaCaducidad  string `json:"fecha_caducidad,omitempty"`
	CantidadVendida int    `json:"cantidad_vendida"`
	Disponible      int    `json:"disponible"`
}
