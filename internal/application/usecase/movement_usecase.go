package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	domaininv "github.com/jhoicas/bodega-api/internal/domain/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// DefaultHistoryDays ventana del historial de movimientos.
const DefaultHistoryDays = 60

// maxHistoryItems tope de entradas cuando no se pide paginación.
const maxHistoryItems = 1000

// MovementUseCase consulta del libro de movimientos.
type MovementUseCase struct {
	repo repository.StockMovementRepository
	days int
	now  func() time.Time
}

// NewMovementUseCase construye el caso de uso. days <= 0 usa DefaultHistoryDays.
func NewMovementUseCase(repo repository.StockMovementRepository, days int) *MovementUseCase {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	return &MovementUseCase{repo: repo, days: days, now: func() time.Time { return time.Now().UTC() }}
}

// History entradas del dueño en la ventana configurada, las más recientes primero.
// productCode vacío no filtra.
func (uc *MovementUseCase) History(ctx context.Context, userID, productCode string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page = page.Clamp(maxHistoryItems)
	since := uc.now().AddDate(0, 0, -uc.days)
	list, err := uc.repo.List(ctx, repository.MovementFilter{
		UserID:      userID,
		ProductCode: domaininv.NormalizeCode(productCode),
		Since:       &since,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	}, nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:               m.ID,
		ProductCode:      m.ProductCode,
		ProductName:      m.ProductName,
		Action:           string(m.Action),
		Delta:            m.Delta,
		BoxesAfterChange: m.BoxesAfterChange,
		UnitsPerBox:      m.UnitsPerBox,
		BatchID:          m.BatchID,
		Timestamp:        m.Timestamp,
	}
}
