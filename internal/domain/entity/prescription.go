package entity

import "time"

// Prescription registro de venta con receta médica: qué producto controlado
// o con receta se vendió, en qué factura y con qué referente.
type Prescription struct {
	ID               string
	SoldAt           time.Time
	InvoiceReference string
	RxReference      string // número o referente de la receta presentada
	ProductID        string
	UserID           string
}
