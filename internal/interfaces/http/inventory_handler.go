package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/application/dto"
)

// StockService operaciones del motor de conciliación.
type StockService interface {
	StockInFromRequest(ctx context.Context, userID, warehouseID string, in dto.StockInRequest) (*dto.MessageResponse, error)
	StockOutFromRequest(ctx context.Context, userID, warehouseID string, in dto.StockOutRequest) (*dto.MessageResponse, error)
	RegisterMovementFromRequest(ctx context.Context, userID string, in dto.CreateStockMovementRequest) (*dto.MessageResponse, error)
}

// HistoryService consulta del libro.
type HistoryService interface {
	History(ctx context.Context, userID, productCode string, page dto.PageRequest) (*dto.MovementListResponse, error)
}

// InventoryHandler maneja ingresos, egresos y el libro de movimientos (protegido).
type InventoryHandler struct {
	stock   StockService
	history HistoryService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock StockService, history HistoryService) *InventoryHandler {
	return &InventoryHandler{stock: stock, history: history}
}

// StockIn godoc
// @Summary      Ingreso de cajas
// @Description  Suma cajas al lote (código + unidades por caja) o crea uno nuevo. El nombre solo se usa para productos nuevos.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StockInRequest  true  "productCode, unitsPerBox, boxes, name (opcional)"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/ingreso [post]
func (h *InventoryHandler) StockIn(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.StockInRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.stock.StockInFromRequest(c.UserContext(), userID, GetWarehouseID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// StockOut godoc
// @Summary      Egreso de cajas
// @Description  Resta cajas del lote exacto. Sin retiros parciales: si no alcanza se rechaza completo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StockOutRequest  true  "productCode, unitsPerBox, boxes"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/egreso [post]
func (h *InventoryHandler) StockOut(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.StockOutRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.stock.StockOutFromRequest(c.UserContext(), userID, GetWarehouseID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Agrega al libro un movimiento sobre un lote propio. No modifica el stock del lote.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateStockMovementRequest  true  "batchId, productCode, action (inbound|outbound), delta, boxesAfterChange"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stockmovements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateStockMovementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.stock.RegisterMovementFromRequest(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Description  Entradas del libro de los últimos días configurados, las más recientes primero.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productCode  query     string  false  "Filtrar por código de producto"
// @Param        limit        query     int     false  "Máximo de entradas"
// @Param        offset       query     int     false  "Desplazamiento"
// @Success      200          {object}  dto.MovementListResponse
// @Failure      401          {object}  dto.ErrorResponse
// @Router       /api/stockmovements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
	out, err := h.history.History(c.UserContext(), userID, c.Query("productCode"), page)
	if err != nil {
		return writeError(c, err)
	}
	noCache(c)
	return c.JSON(out)
}
