package repository

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes (usable con pool o tx).
// Los métodos de lectura devuelven (nil, nil) cuando no hay coincidencia.
type BatchRepository interface {
	// FindByKey busca por la identidad de negocio exacta (dueño, bodega, código, unidades por caja).
	FindByKey(ctx context.Context, key entity.BatchKey) (*entity.Batch, error)
	// FindByKeyForUpdate igual que FindByKey pero bloquea la fila hasta el fin de la transacción.
	FindByKeyForUpdate(ctx context.Context, key entity.BatchKey) (*entity.Batch, error)
	// FindReferenceName devuelve el nombre de cualquier lote del dueño con ese código ("" si no hay).
	FindReferenceName(ctx context.Context, userID, productCode string) (string, error)
	// GetByID obtiene un lote del dueño por ID.
	GetByID(ctx context.Context, userID, id string) (*entity.Batch, error)
	// Create inserta el lote. Devuelve false si otro ya ocupó la misma identidad de negocio.
	Create(ctx context.Context, batch *entity.Batch) (bool, error)
	// AddBoxes suma cajas y devuelve el stock resultante.
	AddBoxes(ctx context.Context, id string, boxes int, at time.Time) (int, error)
	// RemoveBoxes resta cajas solo si alcanzan (decremento condicional atómico).
	// Devuelve domain.ErrInsufficientStock si el stock es menor a boxes.
	RemoveBoxes(ctx context.Context, id string, boxes int, at time.Time) (int, error)
	// ListByUser lista los lotes del dueño; onlyInStock filtra boxes > 0.
	ListByUser(ctx context.Context, userID string, onlyInStock bool) ([]*entity.Batch, error)
	// ListBelow lista los lotes con boxes < threshold.
	ListBelow(ctx context.Context, userID string, threshold int) ([]*entity.Batch, error)
	// Delete elimina un lote del dueño; devuelve false si no existía.
	Delete(ctx context.Context, userID, id string) (bool, error)
}
