//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
	"github.com/jhoicas/bodega-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bodega-api/pkg/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupDB levanta PostgreSQL desechable, aplica migraciones y devuelve el pool.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("bodega"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, postgres.Migrate(ctx, dsn))
	require.NoError(t, postgres.Migrate(ctx, dsn), "migraciones idempotentes")

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func provision(t *testing.T, tx *postgres.TxRunner) string {
	t.Helper()
	id := uuid.New().String()
	_, err := usecase.NewOwnerUseCase(tx).Provision(context.Background(), dto.ProvisionOwnerRequest{
		UserID: id, Email: id + "@example.com",
	})
	require.NoError(t, err)
	return id
}

func TestIntegration_Postgres_RecorridoDeLote(t *testing.T) {
	pool := setupDB(t)
	tx := postgres.NewTxRunner(pool)
	owner := provision(t, tx)
	uc := inventory.NewStockUseCase(inventory.StockDeps{TxRunner: tx, Logger: zerolog.Nop()})
	ctx := context.Background()

	res, err := uc.StockIn(ctx, inventory.StockInInput{UserID: owner, ProductCode: "SKU1", UnitsPerBox: 12, Boxes: 5, Name: "Widget"})
	require.NoError(t, err)
	assert.Equal(t, inventory.MsgBatchCreated, res.Message)

	res, err = uc.StockIn(ctx, inventory.StockInInput{UserID: owner, ProductCode: "SKU1", UnitsPerBox: 12, Boxes: 3})
	require.NoError(t, err)
	assert.Equal(t, 8, res.Boxes)

	_, err = uc.StockIn(ctx, inventory.StockInInput{UserID: owner, ProductCode: "SKU1", UnitsPerBox: 24, Boxes: 2})
	require.NoError(t, err)

	_, err = uc.StockOut(ctx, inventory.StockOutInput{UserID: owner, ProductCode: "SKU1", UnitsPerBox: 12, Boxes: 10})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	res, err = uc.StockOut(ctx, inventory.StockOutInput{UserID: owner, ProductCode: "SKU1", UnitsPerBox: 12, Boxes: 8})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Boxes)

	batches := postgres.NewBatchRepository(pool)
	all, err := batches.ListByUser(ctx, owner, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Widget", all[1].Name)

	movs, err := postgres.NewStockMovementRepository(pool).List(ctx, repository.MovementFilter{UserID: owner})
	require.NoError(t, err)
	require.Len(t, movs, 4)
	assert.Equal(t, entity.ActionOutbound, movs[0].Action)
	assert.Equal(t, -8, movs[0].Delta)
	assert.Equal(t, 0, movs[0].BoxesAfterChange)
}

func TestIntegration_Postgres_EgresosConcurrentes(t *testing.T) {
	pool := setupDB(t)
	tx := postgres.NewTxRunner(pool)
	owner := provision(t, tx)
	uc := inventory.NewStockUseCase(inventory.StockDeps{TxRunner: tx, Logger: zerolog.Nop()})
	ctx := context.Background()

	_, err := uc.StockIn(ctx, inventory.StockInInput{UserID: owner, ProductCode: "SKU1", UnitsPerBox: 1, Boxes: 10, Name: "W"})
	require.NoError(t, err)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.StockOut(ctx, inventory.StockOutInput{UserID: owner, ProductCode: "SKU1", UnitsPerBox: 1, Boxes: 1})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, domain.ErrInsufficientStock), err.Error())
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, ok)
}

func TestIntegration_Postgres_IngresosConcurrentesCreanUnSoloLote(t *testing.T) {
	pool := setupDB(t)
	tx := postgres.NewTxRunner(pool)
	owner := provision(t, tx)
	uc := inventory.NewStockUseCase(inventory.StockDeps{TxRunner: tx, Logger: zerolog.Nop()})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.StockIn(ctx, inventory.StockInInput{UserID: owner, ProductCode: "NUEVO", UnitsPerBox: 6, Boxes: 1, Name: "Nuevo"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := postgres.NewBatchRepository(pool).ListByUser(ctx, owner, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 10, all[0].Boxes)
}

func TestIntegration_Postgres_DeleteConservaHistorial(t *testing.T) {
	pool := setupDB(t)
	tx := postgres.NewTxRunner(pool)
	owner := provision(t, tx)
	uc := inventory.NewStockUseCase(inventory.StockDeps{TxRunner: tx, Logger: zerolog.Nop()})
	ctx := context.Background()

	res, err := uc.StockIn(ctx, inventory.StockInInput{UserID: owner, ProductCode: "SKU9", UnitsPerBox: 1, Boxes: 1, Name: "W"})
	require.NoError(t, err)

	batches := usecase.NewBatchUseCase(postgres.NewBatchRepository(pool), nil, 3)
	require.NoError(t, batches.Delete(ctx, owner, res.BatchID))
	require.ErrorIs(t, batches.Delete(ctx, owner, res.BatchID), domain.ErrBatchNotFound)

	movs, err := postgres.NewStockMovementRepository(pool).List(ctx, repository.MovementFilter{UserID: owner})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Nil(t, movs[0].BatchID)
}

func TestIntegration_Postgres_EmailDuplicadoEsConflicto(t *testing.T) {
	pool := setupDB(t)
	users := postgres.NewUserRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, users.Create(ctx, &entity.User{ID: uuid.New().String(), Email: "x@example.com", Role: entity.RoleUser, CreatedAt: now, UpdatedAt: now}))
	err := users.Create(ctx, &entity.User{ID: uuid.New().String(), Email: "x@example.com", Role: entity.RoleUser, CreatedAt: now, UpdatedAt: now})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
}
