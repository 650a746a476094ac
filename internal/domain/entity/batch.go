package entity

import "time"

// Batch representa un lote de un producto (código + unidades por caja) en la bodega de un dueño.
// La identidad de negocio es (UserID, WarehouseID, ProductCode, UnitsPerBox); ID es la clave técnica.
type Batch struct {
	ID          string
	UserID      string
	WarehouseID string
	ProductCode string
	Name        string
	Boxes       int // nunca negativo
	UnitsPerBox int // >= 1, inmutable
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TotalUnits cajas por unidades por caja.
func (b *Batch) TotalUnits() int {
	return b.Boxes * b.UnitsPerBox
}

// Key devuelve la identidad de negocio del lote.
func (b *Batch) Key() BatchKey {
	return BatchKey{
		UserID:      b.UserID,
		WarehouseID: b.WarehouseID,
		ProductCode: b.ProductCode,
		UnitsPerBox: b.UnitsPerBox,
	}
}

// BatchKey identidad de negocio de un lote: coincidencia exacta en los cuatro campos.
type BatchKey struct {
	UserID      string
	WarehouseID string
	ProductCode string
	UnitsPerBox int
}
