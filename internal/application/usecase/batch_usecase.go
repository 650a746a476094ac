package usecase

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// DefaultLowStockThreshold lotes con menos cajas que este valor generan alerta.
const DefaultLowStockThreshold = 3

// BatchExporter escribe un listado de lotes en un formato de archivo (p. ej. XLSX).
type BatchExporter interface {
	WriteBatches(w io.Writer, batches []dto.BatchResponse) error
}

// BatchUseCase consultas y eliminación de lotes de un dueño.
type BatchUseCase struct {
	repo      repository.BatchRepository
	exporter  BatchExporter
	threshold int
}

// NewBatchUseCase construye el caso de uso. threshold <= 0 usa DefaultLowStockThreshold.
func NewBatchUseCase(repo repository.BatchRepository, exporter BatchExporter, threshold int) *BatchUseCase {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &BatchUseCase{repo: repo, exporter: exporter, threshold: threshold}
}

// ListInStock lotes con al menos una caja.
func (uc *BatchUseCase) ListInStock(ctx context.Context, userID string) ([]dto.BatchResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	return toBatchResponses(list), nil
}

// ListAll todos los lotes del dueño, incluidos los que están en 0.
func (uc *BatchUseCase) ListAll(ctx context.Context, userID string) ([]dto.BatchResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	return toBatchResponses(list), nil
}

// LowStock lotes por debajo del umbral de alerta.
func (uc *BatchUseCase) LowStock(ctx context.Context, userID string) ([]dto.BatchResponse, error) {
	list, err := uc.repo.ListBelow(ctx, userID, uc.threshold)
	if err != nil {
		return nil, err
	}
	return toBatchResponses(list), nil
}

// Delete elimina un lote del dueño. El historial del libro se conserva sin referencia al lote.
// Un id que no es uuid no puede existir: es ErrBatchNotFound sin consultar el almacén.
func (uc *BatchUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrBatchNotFound
	}
	deleted, err := uc.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrBatchNotFound
	}
	return nil
}

// Export escribe en w los lotes con stock del dueño.
func (uc *BatchUseCase) Export(ctx context.Context, userID string, w io.Writer) error {
	if uc.exporter == nil {
		return domain.ErrNotFound
	}
	list, err := uc.ListInStock(ctx, userID)
	if err != nil {
		return err
	}
	return uc.exporter.WriteBatches(w, list)
}

func toBatchResponses(list []*entity.Batch) []dto.BatchResponse {
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.BatchResponse{
			ID:          b.ID,
			WarehouseID: b.WarehouseID,
			ProductCode: b.ProductCode,
			Name:        b.Name,
			Boxes:       b.Boxes,
			UnitsPerBox: b.UnitsPerBox,
			TotalUnits:  b.TotalUnits(),
			CreatedAt:   b.CreatedAt,
			UpdatedAt:   b.UpdatedAt,
		})
	}
	return out
}
