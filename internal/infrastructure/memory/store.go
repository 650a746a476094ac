// Package memory implementa los puertos de persistencia en memoria, con transacciones
// serializadas que restauran el estado previo si el callback falla.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store estado completo del inventario en memoria.
type Store struct {
	mu         sync.Mutex
	users      map[string]entity.User
	warehouses map[string]entity.Warehouse
	batches    map[string]entity.Batch
	movements  []entity.StockMovement
	nextMovID  int64

	// FailMovements si no es nil, toda escritura al libro devuelve este error.
	FailMovements error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]entity.User),
		warehouses: make(map[string]entity.Warehouse),
		batches:    make(map[string]entity.Batch),
	}
}

// Run ejecuta fn con repos sobre el almacén. Las transacciones se serializan; si fn devuelve
// error el estado vuelve al de antes de la llamada.
func (s *Store) Run(ctx context.Context, fn func(uow inventory.UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := s.snapshot()
	if err := fn(s.uow()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Batches repositorio de lotes fuera de transacción (lecturas de consultas).
func (s *Store) Batches() repository.BatchRepository { return &lockedBatches{s: s} }

// Movements repositorio del libro fuera de transacción.
func (s *Store) Movements() repository.StockMovementRepository { return &lockedMovements{s: s} }

// Warehouses repositorio de bodegas fuera de transacción.
func (s *Store) Warehouses() repository.WarehouseRepository { return &lockedWarehouses{s: s} }

// Users repositorio de dueños fuera de transacción.
func (s *Store) Users() repository.UserRepository { return &lockedUsers{s: s} }

func (s *Store) uow() inventory.UnitOfWork {
	return inventory.UnitOfWork{
		Batches:    &batchRepo{s: s},
		Movements:  &movementRepo{s: s},
		Warehouses: &warehouseRepo{s: s},
		Users:      &userRepo{s: s},
	}
}

type snapshot struct {
	users      map[string]entity.User
	warehouses map[string]entity.Warehouse
	batches    map[string]entity.Batch
	movements  []entity.StockMovement
	nextMovID  int64
}

func (s *Store) snapshot() snapshot {
	sn := snapshot{
		users:      make(map[string]entity.User, len(s.users)),
		warehouses: make(map[string]entity.Warehouse, len(s.warehouses)),
		batches:    make(map[string]entity.Batch, len(s.batches)),
		movements:  append([]entity.StockMovement(nil), s.movements...),
		nextMovID:  s.nextMovID,
	}
	for k, v := range s.users {
		sn.users[k] = v
	}
	for k, v := range s.warehouses {
		sn.warehouses[k] = v
	}
	for k, v := range s.batches {
		sn.batches[k] = v
	}
	return sn
}

func (s *Store) restore(sn snapshot) {
	s.users = sn.users
	s.warehouses = sn.warehouses
	s.batches = sn.batches
	s.movements = sn.movements
	s.nextMovID = sn.nextMovID
}

// ---------------------------------------------------------------------------
// Repos dentro de Run (el mutex ya está tomado)
// ---------------------------------------------------------------------------

type batchRepo struct{ s *Store }

func (r *batchRepo) FindByKey(_ context.Context, key entity.BatchKey) (*entity.Batch, error) {
	for _, b := range r.s.batches {
		if b.Key() == key {
			out := b
			return &out, nil
		}
	}
	return nil, nil
}

func (r *batchRepo) FindByKeyForUpdate(ctx context.Context, key entity.BatchKey) (*entity.Batch, error) {
	return r.FindByKey(ctx, key)
}

func (r *batchRepo) FindReferenceName(_ context.Context, userID, productCode string) (string, error) {
	var oldest *entity.Batch
	for _, b := range r.s.batches {
		if b.UserID != userID || b.ProductCode != productCode {
			continue
		}
		if oldest == nil || b.CreatedAt.Before(oldest.CreatedAt) {
			c := b
			oldest = &c
		}
	}
	if oldest == nil {
		return "", nil
	}
	return oldest.Name, nil
}

func (r *batchRepo) GetByID(_ context.Context, userID, id string) (*entity.Batch, error) {
	b, ok := r.s.batches[id]
	if !ok || b.UserID != userID {
		return nil, nil
	}
	return &b, nil
}

func (r *batchRepo) Create(_ context.Context, batch *entity.Batch) (bool, error) {
	for _, b := range r.s.batches {
		if b.Key() == batch.Key() {
			return false, nil
		}
	}
	r.s.batches[batch.ID] = *batch
	return true, nil
}

func (r *batchRepo) AddBoxes(_ context.Context, id string, boxes int, at time.Time) (int, error) {
	b, ok := r.s.batches[id]
	if !ok {
		return 0, domain.ErrBatchNotFound
	}
	b.Boxes += boxes
	b.UpdatedAt = at
	r.s.batches[id] = b
	return b.Boxes, nil
}

func (r *batchRepo) RemoveBoxes(_ context.Context, id string, boxes int, at time.Time) (int, error) {
	b, ok := r.s.batches[id]
	if !ok {
		return 0, domain.ErrBatchNotFound
	}
	if b.Boxes < boxes {
		return b.Boxes, domain.ErrInsufficientStock
	}
	b.Boxes -= boxes
	b.UpdatedAt = at
	r.s.batches[id] = b
	return b.Boxes, nil
}

func (r *batchRepo) ListByUser(_ context.Context, userID string, onlyInStock bool) ([]*entity.Batch, error) {
	return r.filter(func(b entity.Batch) bool {
		return b.UserID == userID && (!onlyInStock || b.Boxes > 0)
	}), nil
}

func (r *batchRepo) ListBelow(_ context.Context, userID string, threshold int) ([]*entity.Batch, error) {
	return r.filter(func(b entity.Batch) bool {
		return b.UserID == userID && b.Boxes < threshold
	}), nil
}

func (r *batchRepo) Delete(_ context.Context, userID, id string) (bool, error) {
	b, ok := r.s.batches[id]
	if !ok || b.UserID != userID {
		return false, nil
	}
	delete(r.s.batches, id)
	for i := range r.s.movements {
		if r.s.movements[i].BatchID != nil && *r.s.movements[i].BatchID == id {
			r.s.movements[i].BatchID = nil
		}
	}
	return true, nil
}

func (r *batchRepo) filter(keep func(entity.Batch) bool) []*entity.Batch {
	out := make([]*entity.Batch, 0)
	for _, b := range r.s.batches {
		if keep(b) {
			c := b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductCode != out[j].ProductCode {
			return out[i].ProductCode < out[j].ProductCode
		}
		return out[i].UnitsPerBox < out[j].UnitsPerBox
	})
	return out
}

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if r.s.FailMovements != nil {
		return r.s.FailMovements
	}
	r.s.nextMovID++
	m.ID = r.s.nextMovID
	c := *m
	if m.BatchID != nil {
		id := *m.BatchID
		c.BatchID = &id
	}
	r.s.movements = append(r.s.movements, c)
	return nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	out := make([]*entity.StockMovement, 0)
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.UserID != f.UserID {
			continue
		}
		if f.ProductCode != "" && m.ProductCode != f.ProductCode {
			continue
		}
		if f.BatchID != "" && (m.BatchID == nil || *m.BatchID != f.BatchID) {
			continue
		}
		if f.Since != nil && m.Timestamp.Before(*f.Since) {
			continue
		}
		c := m
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []*entity.StockMovement{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

type warehouseRepo struct{ s *Store }

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	if _, ok := r.s.warehouses[w.ID]; ok {
		return domain.ErrConflict
	}
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *warehouseRepo) ListByUser(_ context.Context, userID string) ([]*entity.Warehouse, error) {
	out := make([]*entity.Warehouse, 0)
	for _, w := range r.s.warehouses {
		if w.UserID == userID {
			c := w
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := r.s.users[u.ID]; ok {
		return domain.ErrConflict
	}
	for _, other := range r.s.users {
		if other.Email == u.Email {
			return domain.ErrConflict
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			c := u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *userRepo) SetDefaultWarehouse(_ context.Context, userID, warehouseID string) error {
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	id := warehouseID
	u.DefaultWarehouseID = &id
	u.UpdatedAt = time.Now().UTC()
	r.s.users[userID] = u
	return nil
}

// PutOwner registra un dueño con su bodega por defecto.
func (s *Store) PutOwner(user entity.User, warehouse entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	warehouse.UserID = user.ID
	id := warehouse.ID
	user.DefaultWarehouseID = &id
	s.users[user.ID] = user
	s.warehouses[warehouse.ID] = warehouse
}

// MovementCount cantidad de entradas del libro.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}
