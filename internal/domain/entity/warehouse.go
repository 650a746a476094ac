package entity

import "time"

// DefaultWarehouseName nombre de la bodega creada al aprovisionar un dueño.
const DefaultWarehouseName = "Bodega Principal"

// Warehouse representa la bodega de un dueño; sus lotes se eliminan en cascada con ella.
type Warehouse struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
}
