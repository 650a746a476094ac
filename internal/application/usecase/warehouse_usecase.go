package usecase

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// WarehouseUseCase consulta de bodegas del dueño.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// List bodegas del dueño, la más antigua primero.
func (uc *WarehouseUseCase) List(ctx context.Context, userID string) ([]dto.WarehouseResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, dto.WarehouseResponse{ID: w.ID, Name: w.Name, CreatedAt: w.CreatedAt})
	}
	return items, nil
}
