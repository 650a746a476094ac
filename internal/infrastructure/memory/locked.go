package memory

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// Adaptadores que toman el mutex del almacén en cada llamada, para uso fuera de Run.

type lockedBatches struct{ s *Store }

func (r *lockedBatches) inner() *batchRepo { return &batchRepo{s: r.s} }

func (r *lockedBatches) FindByKey(ctx context.Context, key entity.BatchKey) (*entity.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().FindByKey(ctx, key)
}

func (r *lockedBatches) FindByKeyForUpdate(ctx context.Context, key entity.BatchKey) (*entity.Batch, error) {
	return r.FindByKey(ctx, key)
}

func (r *lockedBatches) FindReferenceName(ctx context.Context, userID, productCode string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().FindReferenceName(ctx, userID, productCode)
}

func (r *lockedBatches) GetByID(ctx context.Context, userID, id string) (*entity.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().GetByID(ctx, userID, id)
}

func (r *lockedBatches) Create(ctx context.Context, batch *entity.Batch) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().Create(ctx, batch)
}

func (r *lockedBatches) AddBoxes(ctx context.Context, id string, boxes int, at time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().AddBoxes(ctx, id, boxes, at)
}

func (r *lockedBatches) RemoveBoxes(ctx context.Context, id string, boxes int, at time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().RemoveBoxes(ctx, id, boxes, at)
}

func (r *lockedBatches) ListByUser(ctx context.Context, userID string, onlyInStock bool) ([]*entity.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().ListByUser(ctx, userID, onlyInStock)
}

func (r *lockedBatches) ListBelow(ctx context.Context, userID string, threshold int) ([]*entity.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().ListBelow(ctx, userID, threshold)
}

func (r *lockedBatches) Delete(ctx context.Context, userID, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inner().Delete(ctx, userID, id)
}

type lockedMovements struct{ s *Store }

func (r *lockedMovements) Create(ctx context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&movementRepo{s: r.s}).Create(ctx, m)
}

func (r *lockedMovements) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&movementRepo{s: r.s}).List(ctx, f)
}

type lockedWarehouses struct{ s *Store }

func (r *lockedWarehouses) Create(ctx context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&warehouseRepo{s: r.s}).Create(ctx, w)
}

func (r *lockedWarehouses) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&warehouseRepo{s: r.s}).GetByID(ctx, id)
}

func (r *lockedWarehouses) ListByUser(ctx context.Context, userID string) ([]*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&warehouseRepo{s: r.s}).ListByUser(ctx, userID)
}

type lockedUsers struct{ s *Store }

func (r *lockedUsers) Create(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&userRepo{s: r.s}).Create(ctx, u)
}

func (r *lockedUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&userRepo{s: r.s}).GetByID(ctx, id)
}

func (r *lockedUsers) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&userRepo{s: r.s}).GetByEmail(ctx, email)
}

func (r *lockedUsers) SetDefaultWarehouse(ctx context.Context, userID, warehouseID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&userRepo{s: r.s}).SetDefaultWarehouse(ctx, userID, warehouseID)
}
