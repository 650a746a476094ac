package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Stock      StockService
	History    HistoryService
	Batches    BatchService
	Warehouses WarehouseService
	Owners     OwnerService
	JWTSecret  string
	JWTIssuer  string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	authHandler := NewAuthHandler(deps.Owners)
	api.Get("/auth/me", authHandler.Me)
	api.Post("/admin/owners", RequireRole(entity.RoleAdminCliente, entity.RoleSuperadmin), authHandler.ProvisionOwner)

	inventoryHandler := NewInventoryHandler(deps.Stock, deps.History)
	api.Post("/ingreso", inventoryHandler.StockIn)
	api.Post("/egreso", inventoryHandler.StockOut)
	api.Post("/stockmovements", inventoryHandler.RegisterMovement)
	api.Get("/stockmovements", inventoryHandler.ListMovements)

	batchHandler := NewBatchHandler(deps.Batches)
	api.Get("/itembatches", batchHandler.ListInStock)
	api.Get("/itembatches/alertas", batchHandler.LowStock)
	api.Get("/itembatches/export", batchHandler.Export)
	api.Get("/items", batchHandler.ListAll)
	api.Delete("/items/:id", batchHandler.Delete)

	warehouseHandler := NewWarehouseHandler(deps.Warehouses)
	api.Get("/warehouses", warehouseHandler.List)
}
