package inventory

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// UnitOfWork agrupa los repositorios atados a una misma transacción. Los componentes del motor
// reciben este valor y nunca hacen Commit por su cuenta: el commit ocurre una vez, en TxRunner.
type UnitOfWork struct {
	Batches    repository.BatchRepository
	Movements  repository.StockMovementRepository
	Warehouses repository.WarehouseRepository
	Users      repository.UserRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD. Si fn devuelve error se hace Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(uow UnitOfWork) error) error
}

// BatchLocker exclusión mutua por lote previa a la transacción (opcional, multi-instancia).
type BatchLocker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// MovementPublisher notifica entradas del libro ya confirmadas.
type MovementPublisher interface {
	Publish(ctx context.Context, movement *entity.StockMovement) error
}

// Recorder recibe las métricas del motor.
type Recorder interface {
	MovementRecorded(action entity.MovementAction)
	MovementRejected(reason string)
	LedgerDrift()
}

type noopLocker struct{}

func (noopLocker) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, *entity.StockMovement) error { return nil }

type noopRecorder struct{}

func (noopRecorder) MovementRecorded(entity.MovementAction) {}
func (noopRecorder) MovementRejected(string)                {}
func (noopRecorder) LedgerDrift()                           {}
