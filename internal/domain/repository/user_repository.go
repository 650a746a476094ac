package repository

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para el dueño del inventario.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// SetDefaultWarehouse fija la bodega operativa del dueño.
	SetDefaultWarehouse(ctx context.Context, userID, warehouseID string) error
}
