package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// LedgerEntry datos de una entrada a agregar al libro.
type LedgerEntry struct {
	UserID           string
	ProductCode      string
	ProductName      string
	Action           entity.MovementAction
	Delta            int
	BoxesAfterChange int
	UnitsPerBox      int
	BatchID          string
}

// LedgerWriter agrega entradas inmutables al libro de movimientos.
type LedgerWriter struct {
	movements repository.StockMovementRepository
	now       func() time.Time
}

// NewLedgerWriter construye el escritor sobre el repositorio de la unidad de trabajo.
func NewLedgerWriter(movements repository.StockMovementRepository, now func() time.Time) *LedgerWriter {
	return &LedgerWriter{movements: movements, now: now}
}

// Append agrega la entrada con la marca de tiempo del momento de escritura.
func (w *LedgerWriter) Append(ctx context.Context, e LedgerEntry) (*entity.StockMovement, error) {
	if !e.Action.Valid() {
		return nil, domain.NewValidationError("action", "acción de movimiento desconocida")
	}
	if e.BoxesAfterChange < 0 {
		return nil, domain.NewValidationError("boxesAfterChange", "no puede ser negativo")
	}
	mov := &entity.StockMovement{
		UserID:           e.UserID,
		ProductCode:      e.ProductCode,
		ProductName:      e.ProductName,
		Action:           e.Action,
		Delta:            e.Delta,
		BoxesAfterChange: e.BoxesAfterChange,
		UnitsPerBox:      e.UnitsPerBox,
		Timestamp:        w.now(),
	}
	if e.BatchID != "" {
		id := e.BatchID
		mov.BatchID = &id
	}
	if err := w.movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
