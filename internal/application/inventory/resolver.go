package inventory

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// Resolver decide a qué lote existente (si alguno) aplica un cambio.
type Resolver struct {
	batches repository.BatchRepository
}

// NewResolver construye el resolvedor sobre el repositorio de la unidad de trabajo.
func NewResolver(batches repository.BatchRepository) *Resolver {
	return &Resolver{batches: batches}
}

// Resolve busca por coincidencia exacta de los cuatro campos. nil si no existe.
func (r *Resolver) Resolve(ctx context.Context, key entity.BatchKey) (*entity.Batch, error) {
	return r.batches.FindByKey(ctx, key)
}

// ResolveForUpdate como Resolve, bloqueando la fila hasta el fin de la transacción.
func (r *Resolver) ResolveForUpdate(ctx context.Context, key entity.BatchKey) (*entity.Batch, error) {
	return r.batches.FindByKeyForUpdate(ctx, key)
}

// ReferenceName nombre de cualquier lote del dueño con el mismo código, sin importar
// las unidades por caja. "" si el producto es nuevo para el dueño.
func (r *Resolver) ReferenceName(ctx context.Context, userID, productCode string) (string, error) {
	return r.batches.FindReferenceName(ctx, userID, productCode)
}
