package dto

import "time"

// StockInRequest body para POST /api/ingreso.
type StockInRequest struct {
	ProductCode string `json:"productCode" validate:"required,max=50"`
	Name        string `json:"name,omitempty" validate:"max=100"`
	UnitsPerBox int    `json:"unitsPerBox" validate:"required,min=1"`
	Boxes       int    `json:"boxes" validate:"required,min=1"`
}

// StockOutRequest body para POST /api/egreso.
type StockOutRequest struct {
	ProductCode string `json:"productCode" validate:"required,max=50"`
	UnitsPerBox int    `json:"unitsPerBox" validate:"required,min=1"`
	Boxes       int    `json:"boxes" validate:"required,min=1"`
}

// CreateStockMovementRequest body para POST /api/stockmovements.
// Action acepta inbound/outbound (o ingreso/egreso).
type CreateStockMovementRequest struct {
	ProductCode      string  `json:"productCode" validate:"required,max=50"`
	Action           string  `json:"action" validate:"required"`
	Delta            int     `json:"delta" validate:"required,min=-10000,max=10000"`
	BoxesAfterChange int     `json:"boxesAfterChange" validate:"min=0,max=10000"`
	UnitsPerBox      *int    `json:"unitsPerBox,omitempty" validate:"omitempty,min=1,max=10000"`
	BatchID          *string `json:"batchId,omitempty"`
}

// MessageResponse respuesta de las operaciones de ingreso/egreso.
type MessageResponse struct {
	Message string `json:"message"`
	BatchID string `json:"batchId,omitempty"`
	Boxes   int    `json:"boxes"`
}

// BatchResponse lote de inventario.
type BatchResponse struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouseId"`
	ProductCode string    `json:"productCode"`
	Name        string    `json:"name"`
	Boxes       int       `json:"boxes"`
	UnitsPerBox int       `json:"unitsPerBox"`
	TotalUnits  int       `json:"totalUnits"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MovementResponse entrada del libro de movimientos.
type MovementResponse struct {
	ID               int64     `json:"id"`
	ProductCode      string    `json:"productCode"`
	ProductName      string    `json:"productName"`
	Action           string    `json:"action"`
	Delta            int       `json:"delta"`
	BoxesAfterChange int       `json:"boxesAfterChange"`
	UnitsPerBox      int       `json:"unitsPerBox"`
	BatchID          *string   `json:"batchId,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
