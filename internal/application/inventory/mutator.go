package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	domaininv "github.com/jhoicas/bodega-api/internal/domain/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// BatchState estado del lote después de aplicar un cambio.
type BatchState struct {
	BatchID     string
	ProductCode string
	Name        string
	UnitsPerBox int
	Boxes       int
	Created     bool
}

// InboundChange ingreso de cajas a un lote (existente o nuevo).
type InboundChange struct {
	Key   entity.BatchKey
	Boxes int
	Name  string // opcional; solo se usa al crear si no hay nombre de referencia
}

// Mutator aplica deltas al stock de los lotes sin permitir stock negativo.
type Mutator struct {
	batches  repository.BatchRepository
	resolver *Resolver
	now      func() time.Time
}

// NewMutator construye el mutador sobre el repositorio de la unidad de trabajo.
func NewMutator(batches repository.BatchRepository, resolver *Resolver, now func() time.Time) *Mutator {
	return &Mutator{batches: batches, resolver: resolver, now: now}
}

// ApplyInbound suma cajas al lote que coincide o crea uno nuevo. Al fusionar conserva el nombre
// guardado; al crear usa el nombre de referencia del código o, en su defecto, el suministrado.
func (m *Mutator) ApplyInbound(ctx context.Context, in InboundChange) (BatchState, error) {
	if err := domaininv.ValidateBoxes(in.Boxes); err != nil {
		return BatchState{}, err
	}
	existing, err := m.resolver.ResolveForUpdate(ctx, in.Key)
	if err != nil {
		return BatchState{}, err
	}
	now := m.now()

	if existing == nil {
		name, err := m.resolver.ReferenceName(ctx, in.Key.UserID, in.Key.ProductCode)
		if err != nil {
			return BatchState{}, err
		}
		if name == "" {
			name = in.Name
		}
		if name == "" {
			return BatchState{}, domain.ErrMissingName
		}
		batch := &entity.Batch{
			ID:          uuid.New().String(),
			UserID:      in.Key.UserID,
			WarehouseID: in.Key.WarehouseID,
			ProductCode: in.Key.ProductCode,
			Name:        name,
			Boxes:       in.Boxes,
			UnitsPerBox: in.Key.UnitsPerBox,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		created, err := m.batches.Create(ctx, batch)
		if err != nil {
			return BatchState{}, err
		}
		if created {
			return stateOf(batch, true), nil
		}
		// Otra transacción creó el mismo lote entre la búsqueda y el INSERT: se fusiona con el suyo.
		existing, err = m.resolver.ResolveForUpdate(ctx, in.Key)
		if err != nil {
			return BatchState{}, err
		}
		if existing == nil {
			return BatchState{}, fmt.Errorf("lote %s/%d: %w", in.Key.ProductCode, in.Key.UnitsPerBox, domain.ErrConflict)
		}
	}

	boxes, err := m.batches.AddBoxes(ctx, existing.ID, in.Boxes, now)
	if err != nil {
		return BatchState{}, err
	}
	st := stateOf(existing, false)
	st.Boxes = boxes
	return st, nil
}

// ApplyOutbound resta cajas del lote que coincide. Rechaza la operación completa si no hay
// suficientes cajas; el stock puede quedar en 0 pero nunca negativo.
func (m *Mutator) ApplyOutbound(ctx context.Context, key entity.BatchKey, boxes int) (BatchState, error) {
	existing, err := m.resolver.ResolveForUpdate(ctx, key)
	if err != nil {
		return BatchState{}, err
	}
	if existing == nil {
		return BatchState{}, domain.ErrBatchNotFound
	}
	if err := domaininv.ValidateBoxes(boxes); err != nil {
		return BatchState{}, err
	}
	if _, err := domaininv.ApplyDelta(existing.Boxes, -boxes); err != nil {
		return BatchState{}, err
	}
	remaining, err := m.batches.RemoveBoxes(ctx, existing.ID, boxes, m.now())
	if err != nil {
		return BatchState{}, err
	}
	st := stateOf(existing, false)
	st.Boxes = remaining
	return st, nil
}

func stateOf(b *entity.Batch, created bool) BatchState {
	return BatchState{
		BatchID:     b.ID,
		ProductCode: b.ProductCode,
		Name:        b.Name,
		UnitsPerBox: b.UnitsPerBox,
		Boxes:       b.Boxes,
		Created:     created,
	}
}
