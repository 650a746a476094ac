package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/infrastructure/memory"
	"github.com/jhoicas/bodega-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/bodega-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/bodega-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// API completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type api struct {
	app   *fiber.App
	store *memory.Store
	token string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := memory.NewStore()
	now := time.Now().UTC()
	store.PutOwner(
		entity.User{ID: testUserID, Email: "dueno@example.com", Role: entity.RoleUser, CreatedAt: now, UpdatedAt: now},
		entity.Warehouse{ID: testWarehouseID, Name: entity.DefaultWarehouseName, CreatedAt: now},
	)

	stock := inventory.NewStockUseCase(inventory.StockDeps{TxRunner: store, Logger: zerolog.Nop()})
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Stock:      stock,
		History:    usecase.NewMovementUseCase(store.Movements(), usecase.DefaultHistoryDays),
		Batches:    usecase.NewBatchUseCase(store.Batches(), xlsx.NewExporter(), usecase.DefaultLowStockThreshold),
		Warehouses: usecase.NewWarehouseUseCase(store.Warehouses()),
		Owners:     usecase.NewOwnerUseCase(store),
		JWTSecret:  testJWTSecret,
		JWTIssuer:  testIssuer,
	})
	return &api{app: app, store: store, token: tokenForRole(t, entity.RoleUser)}
}

func (a *api) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	return a.doAs(t, a.token, method, path, body)
}

func (a *api) doAs(t *testing.T, token, method, path string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Ingreso / egreso
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryHandler_IngresoYEgreso(t *testing.T) {
	a := newAPI(t)

	resp := a.do(t, http.MethodPost, "/api/ingreso", fiber.Map{"productCode": "SKU1", "unitsPerBox": 12, "boxes": 5, "name": "Tornillos"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.MessageResponse](t, resp)
	assert.Equal(t, inventory.MsgBatchCreated, created.Message)
	assert.Equal(t, 5, created.Boxes)
	assert.NotEmpty(t, created.BatchID)

	resp = a.do(t, http.MethodPost, "/api/ingreso", fiber.Map{"productCode": "SKU1", "unitsPerBox": 12, "boxes": 3})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	merged := decode[dto.MessageResponse](t, resp)
	assert.Equal(t, inventory.MsgBatchMerged, merged.Message)
	assert.Equal(t, 8, merged.Boxes)
	assert.Equal(t, created.BatchID, merged.BatchID)

	resp = a.do(t, http.MethodPost, "/api/egreso", fiber.Map{"productCode": "SKU1", "unitsPerBox": 12, "boxes": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.MessageResponse](t, resp)
	assert.Equal(t, inventory.MsgStockOut, out.Message)
	assert.Equal(t, 6, out.Boxes)

	resp = a.do(t, http.MethodGet, "/api/stockmovements?productCode=SKU1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "no-store")
	history := decode[dto.MovementListResponse](t, resp)
	require.Len(t, history.Items, 3)
	assert.Equal(t, string(entity.ActionOutbound), history.Items[0].Action)
	assert.Equal(t, -2, history.Items[0].Delta)
	assert.Equal(t, 6, history.Items[0].BoxesAfterChange)
}

func TestInventoryHandler_Errores(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"producto nuevo sin nombre", "/api/ingreso", fiber.Map{"productCode": "NEW", "unitsPerBox": 6, "boxes": 1}, http.StatusBadRequest, "MISSING_NAME"},
		{"cajas cero", "/api/ingreso", fiber.Map{"productCode": "SKU1", "unitsPerBox": 6, "boxes": 0, "name": "x"}, http.StatusBadRequest, "VALIDATION"},
		{"unidades por caja negativas", "/api/ingreso", fiber.Map{"productCode": "SKU1", "unitsPerBox": -6, "boxes": 1, "name": "x"}, http.StatusBadRequest, "VALIDATION"},
		{"egreso sin lote", "/api/egreso", fiber.Map{"productCode": "NOPE", "unitsPerBox": 6, "boxes": 1}, http.StatusNotFound, "BATCH_NOT_FOUND"},
		{"movimiento sin lote", "/api/stockmovements", fiber.Map{"productCode": "SKU1", "action": "inbound", "delta": 1, "boxesAfterChange": 1}, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAPI(t)
			resp := a.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestInventoryHandler_EgresoInsuficiente(t *testing.T) {
	a := newAPI(t)
	resp := a.do(t, http.MethodPost, "/api/ingreso", fiber.Map{"productCode": "SKU1", "unitsPerBox": 12, "boxes": 2, "name": "Tornillos"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodPost, "/api/egreso", fiber.Map{"productCode": "SKU1", "unitsPerBox": 12, "boxes": 3})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)
}

func TestInventoryHandler_RegistrarMovimiento(t *testing.T) {
	a := newAPI(t)
	resp := a.do(t, http.MethodPost, "/api/ingreso", fiber.Map{"productCode": "SKU1", "unitsPerBox": 12, "boxes": 4, "name": "Tornillos"})
	created := decode[dto.MessageResponse](t, resp)

	resp = a.do(t, http.MethodPost, "/api/stockmovements", fiber.Map{
		"batchId": created.BatchID, "productCode": "SKU1", "action": "outbound", "delta": -1, "boxesAfterChange": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, inventory.MsgMovementRecorded, decode[dto.MessageResponse](t, resp).Message)
	assert.Equal(t, 2, a.store.MovementCount())

	// El registro directo no cambia el stock del lote.
	resp = a.do(t, http.MethodGet, "/api/items", nil)
	items := decode[[]dto.BatchResponse](t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Boxes)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchHandler_ListadosAlertasYEliminar(t *testing.T) {
	a := newAPI(t)
	for _, body := range []fiber.Map{
		{"productCode": "A", "unitsPerBox": 1, "boxes": 10, "name": "Alfa"},
		{"productCode": "B", "unitsPerBox": 1, "boxes": 2, "name": "Beta"},
	} {
		resp := a.do(t, http.MethodPost, "/api/ingreso", body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	resp := a.do(t, http.MethodPost, "/api/egreso", fiber.Map{"productCode": "B", "unitsPerBox": 1, "boxes": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/itembatches", nil)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "no-store")
	inStock := decode[[]dto.BatchResponse](t, resp)
	require.Len(t, inStock, 1)
	assert.Equal(t, "A", inStock[0].ProductCode)

	all := decode[[]dto.BatchResponse](t, a.do(t, http.MethodGet, "/api/items", nil))
	assert.Len(t, all, 2)

	low := decode[[]dto.BatchResponse](t, a.do(t, http.MethodGet, "/api/itembatches/alertas", nil))
	require.Len(t, low, 1)
	assert.Equal(t, "B", low[0].ProductCode)

	resp = a.do(t, http.MethodDelete, "/api/items/"+low[0].ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodDelete, "/api/items/"+low[0].ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// El historial del lote eliminado se conserva.
	history := decode[dto.MovementListResponse](t, a.do(t, http.MethodGet, "/api/stockmovements?productCode=B", nil))
	assert.Len(t, history.Items, 2)
}

func TestBatchHandler_ExportXLSX(t *testing.T) {
	a := newAPI(t)
	resp := a.do(t, http.MethodPost, "/api/ingreso", fiber.Map{"productCode": "SKU1", "unitsPerBox": 12, "boxes": 5, "name": "Tornillos"})
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/itembatches/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventario.xlsx")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	code, err := f.GetCellValue("Inventario", "A2")
	require.NoError(t, err)
	assert.Equal(t, "SKU1", code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bodegas e identidad
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouseHandler_List(t *testing.T) {
	a := newAPI(t)
	items := decode[[]dto.WarehouseResponse](t, a.do(t, http.MethodGet, "/api/warehouses", nil))
	require.Len(t, items, 1)
	assert.Equal(t, testWarehouseID, items[0].ID)
	assert.Equal(t, entity.DefaultWarehouseName, items[0].Name)
}

func TestAuthHandler_Me(t *testing.T) {
	a := newAPI(t)
	me := decode[dto.MeResponse](t, a.do(t, http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, testUserID, me.UserID)
	assert.Equal(t, entity.RoleUser, me.Role)
}

func TestAuthHandler_ProvisionOwner(t *testing.T) {
	a := newAPI(t)
	body := fiber.Map{"userId": "3d3c9a4e-1b2f-4c5d-8e9f-0a1b2c3d4e5f", "email": "Nuevo@Example.com"}

	resp := a.do(t, http.MethodPost, "/api/admin/owners", body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "un User no puede aprovisionar dueños")
	resp.Body.Close()

	admin := signToken(t, pkgjwt.Identity{UserID: testUserID, Role: entity.RoleAdminCliente}, testIssuer, time.Hour)
	resp = a.doAs(t, admin, http.MethodPost, "/api/admin/owners", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	owner := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "nuevo@example.com", owner.Email)
	require.NotNil(t, owner.DefaultWarehouseID)

	resp = a.doAs(t, admin, http.MethodPost, "/api/admin/owners", fiber.Map{"userId": "no-uuid", "email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores de persistencia e ids mal formados
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryHandler_FalloDePersistenciaConDetalle(t *testing.T) {
	a := newAPI(t)
	a.store.FailMovements = domain.StorageError("insertar movimiento", errors.New("disco lleno"))

	resp := a.do(t, http.MethodPost, "/api/ingreso", fiber.Map{"productCode": "SKU1", "unitsPerBox": 12, "boxes": 5, "name": "Tornillos"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "STORAGE_FAILURE", body.Code)
	assert.Contains(t, body.Message, "insertar movimiento")
	assert.Contains(t, body.Message, "disco lleno")

	// La transacción se revirtió: el lote no quedó creado.
	items := decode[[]dto.BatchResponse](t, a.do(t, http.MethodGet, "/api/items", nil))
	assert.Empty(t, items)
}

func TestInventoryHandler_CantidadesGrandes(t *testing.T) {
	a := newAPI(t)
	resp := a.do(t, http.MethodPost, "/api/ingreso", fiber.Map{"productCode": "SKU1", "unitsPerBox": 20000, "boxes": 10001, "name": "Tornillos"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 10001, decode[dto.MessageResponse](t, resp).Boxes)

	resp = a.do(t, http.MethodPost, "/api/egreso", fiber.Map{"productCode": "SKU1", "unitsPerBox": 20000, "boxes": 10001})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decode[dto.MessageResponse](t, resp).Boxes)
}

func TestBatchHandler_DeleteIdMalFormado(t *testing.T) {
	a := newAPI(t)
	resp := a.do(t, http.MethodDelete, "/api/items/abc", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "BATCH_NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestInventoryHandler_BodegaDelTokenMalFormada(t *testing.T) {
	a := newAPI(t)
	token := signToken(t, pkgjwt.Identity{UserID: testUserID, Role: entity.RoleUser, WarehouseID: "bodega-1"}, testIssuer, time.Hour)

	resp := a.doAs(t, token, http.MethodPost, "/api/ingreso", fiber.Map{"productCode": "SKU1", "unitsPerBox": 12, "boxes": 1, "name": "Tornillos"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NO_DEFAULT_WAREHOUSE", decode[dto.ErrorResponse](t, resp).Code)
}
