package entity

import "time"

// Roles válidos para User.
const (
	RoleUser         = "User"
	RoleAdminCliente = "AdminCliente"
	RoleSuperadmin   = "Superadmin"
)

// User es el dueño (tenant) del inventario. Las credenciales viven en el servicio de identidad.
type User struct {
	ID                 string
	Email              string
	Role               string
	DefaultWarehouseID *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
