package dto

import "time"

// ProvisionOwnerRequest alta de un dueño de inventario (id proviene del proveedor de identidad).
type ProvisionOwnerRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"omitempty,oneof=User AdminCliente Superadmin"`
}

// MeResponse identidad del usuario autenticado (GET /api/auth/me).
type MeResponse struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	WarehouseID string `json:"warehouseId,omitempty"`
}

// UserResponse dueño provisionado.
type UserResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	DefaultWarehouseID *string   `json:"defaultWarehouseId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
