package repository

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Warehouse, error)
}
