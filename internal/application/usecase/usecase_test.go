package usecase_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner = "0d6f3c2e-1b7a-4c1e-9a55-3f2b8e6d4a10"

	batchSKU1x12 = "5a1d7c3e-2f4b-4e6a-8c9d-0b1a2c3d4e01"
	batchSKU1x24 = "5a1d7c3e-2f4b-4e6a-8c9d-0b1a2c3d4e02"
	batchSKU2    = "5a1d7c3e-2f4b-4e6a-8c9d-0b1a2c3d4e03"
	batchAjeno   = "5a1d7c3e-2f4b-4e6a-8c9d-0b1a2c3d4e04"
)

func seedBatches(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	for _, b := range []entity.Batch{
		{ID: batchSKU1x12, ProductCode: "SKU1", Name: "Widget", Boxes: 8, UnitsPerBox: 12},
		{ID: batchSKU1x24, ProductCode: "SKU1", Name: "Widget", Boxes: 2, UnitsPerBox: 24},
		{ID: batchSKU2, ProductCode: "SKU2", Name: "Tornillo", Boxes: 0, UnitsPerBox: 100},
	} {
		b.UserID, b.WarehouseID, b.CreatedAt, b.UpdatedAt = owner, "w1", now, now
		ok, err := s.Batches().Create(ctx, &b)
		require.NoError(t, err)
		require.True(t, ok)
	}
	_, err := s.Batches().Create(ctx, &entity.Batch{ID: batchAjeno, UserID: "otro", WarehouseID: "w2", ProductCode: "SKU1", Boxes: 1, UnitsPerBox: 1})
	require.NoError(t, err)
}

// ---------------------------------------------------------------------------
// BatchUseCase
// ---------------------------------------------------------------------------

type fakeExporter struct{ got []dto.BatchResponse }

func (f *fakeExporter) WriteBatches(w io.Writer, batches []dto.BatchResponse) error {
	f.got = batches
	_, err := w.Write([]byte("ok"))
	return err
}

func TestBatchUseCase_Listados(t *testing.T) {
	s := memory.NewStore()
	seedBatches(t, s)
	uc := usecase.NewBatchUseCase(s.Batches(), nil, 0)
	ctx := context.Background()

	inStock, err := uc.ListInStock(ctx, owner)
	require.NoError(t, err)
	require.Len(t, inStock, 2)
	assert.Equal(t, 96, inStock[0].TotalUnits)
	assert.Equal(t, 48, inStock[1].TotalUnits)

	all, err := uc.ListAll(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	low, err := uc.LowStock(ctx, owner)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, batchSKU1x24, low[0].ID)
	assert.Equal(t, batchSKU2, low[1].ID)
}

func TestBatchUseCase_DeleteSoloDelDueno(t *testing.T) {
	s := memory.NewStore()
	seedBatches(t, s)
	uc := usecase.NewBatchUseCase(s.Batches(), nil, 3)
	ctx := context.Background()

	require.ErrorIs(t, uc.Delete(ctx, owner, batchAjeno), domain.ErrBatchNotFound)
	require.NoError(t, uc.Delete(ctx, owner, batchSKU2))
	require.ErrorIs(t, uc.Delete(ctx, owner, batchSKU2), domain.ErrBatchNotFound)
	// Un id mal formado no llega al almacén.
	require.ErrorIs(t, uc.Delete(ctx, owner, "abc"), domain.ErrBatchNotFound)

	all, err := uc.ListAll(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBatchUseCase_ExportUsaLotesConStock(t *testing.T) {
	s := memory.NewStore()
	seedBatches(t, s)
	exp := &fakeExporter{}
	uc := usecase.NewBatchUseCase(s.Batches(), exp, 3)

	var buf bytes.Buffer
	require.NoError(t, uc.Export(context.Background(), owner, &buf))
	assert.Equal(t, "ok", buf.String())
	assert.Len(t, exp.got, 2)
}

// ---------------------------------------------------------------------------
// MovementUseCase
// ---------------------------------------------------------------------------

func TestMovementUseCase_HistorialVentanaYFiltro(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	now := time.Now().UTC()
	for _, m := range []entity.StockMovement{
		{ProductCode: "SKU1", Action: entity.ActionInboundCreate, Delta: 5, BoxesAfterChange: 5, Timestamp: now.AddDate(0, 0, -90)},
		{ProductCode: "SKU1", Action: entity.ActionInboundMerge, Delta: 3, BoxesAfterChange: 8, Timestamp: now.AddDate(0, 0, -10)},
		{ProductCode: "SKU2", Action: entity.ActionInboundCreate, Delta: 1, BoxesAfterChange: 1, Timestamp: now.AddDate(0, 0, -5)},
		{ProductCode: "SKU1", Action: entity.ActionOutbound, Delta: -8, BoxesAfterChange: 0, Timestamp: now.AddDate(0, 0, -1)},
	} {
		m.UserID, m.UnitsPerBox = owner, 12
		require.NoError(t, s.Movements().Create(ctx, &m))
	}
	uc := usecase.NewMovementUseCase(s.Movements(), 60)

	res, err := uc.History(ctx, owner, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.Equal(t, "Salida", res.Items[0].Action)
	assert.Equal(t, "Entrada", res.Items[2].Action)
	assert.Equal(t, dto.PageResponse{Limit: 1000, Offset: 0, Count: 3}, res.Page)

	res, err = uc.History(ctx, owner, "", dto.PageRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "SKU2", res.Items[0].ProductCode)
	assert.Equal(t, dto.PageResponse{Limit: 1, Offset: 1, Count: 1}, res.Page)

	res, err = uc.History(ctx, owner, " SKU1 ", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, -8, res.Items[0].Delta)
	assert.Equal(t, 3, res.Items[1].Delta)

	res, err = uc.History(ctx, "otro", "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

// ---------------------------------------------------------------------------
// OwnerUseCase
// ---------------------------------------------------------------------------

func TestOwnerUseCase_ProvisionEsIdempotente(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewOwnerUseCase(s)
	ctx := context.Background()
	id := uuid.New().String()

	first, err := uc.Provision(ctx, dto.ProvisionOwnerRequest{UserID: id, Email: " Dueno@Example.com "})
	require.NoError(t, err)
	require.NotNil(t, first.DefaultWarehouseID)
	assert.Equal(t, "dueno@example.com", first.Email)
	assert.Equal(t, entity.RoleUser, first.Role)

	second, err := uc.Provision(ctx, dto.ProvisionOwnerRequest{UserID: id, Email: "dueno@example.com"})
	require.NoError(t, err)
	assert.Equal(t, *first.DefaultWarehouseID, *second.DefaultWarehouseID)

	whs, err := s.Warehouses().ListByUser(ctx, id)
	require.NoError(t, err)
	require.Len(t, whs, 1)
	assert.Equal(t, entity.DefaultWarehouseName, whs[0].Name)
}

func TestOwnerUseCase_EmailDeOtroDueno(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewOwnerUseCase(s)
	ctx := context.Background()

	_, err := uc.Provision(ctx, dto.ProvisionOwnerRequest{UserID: uuid.New().String(), Email: "a@example.com"})
	require.NoError(t, err)
	_, err = uc.Provision(ctx, dto.ProvisionOwnerRequest{UserID: uuid.New().String(), Email: "a@example.com"})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestOwnerUseCase_Validacion(t *testing.T) {
	uc := usecase.NewOwnerUseCase(memory.NewStore())
	_, err := uc.Provision(context.Background(), dto.ProvisionOwnerRequest{UserID: "no-uuid", Email: "a@example.com"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Provision(context.Background(), dto.ProvisionOwnerRequest{UserID: uuid.New().String(), Email: "sin-arroba"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
