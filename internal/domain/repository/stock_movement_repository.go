package repository

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// MovementFilter filtros para consultar el libro de un dueño.
type MovementFilter struct {
	UserID      string
	ProductCode string
	BatchID     string
	Since       *time.Time
	Limit       int
	Offset      int
}

// StockMovementRepository define el puerto de persistencia del libro (solo inserción).
type StockMovementRepository interface {
	// Create agrega la entrada y completa su ID.
	Create(ctx context.Context, movement *entity.StockMovement) error
	// List devuelve entradas del dueño, las más recientes primero.
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
