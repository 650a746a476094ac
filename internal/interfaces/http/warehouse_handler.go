package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/application/dto"
)

// WarehouseService consulta de bodegas del dueño.
type WarehouseService interface {
	List(ctx context.Context, userID string) ([]dto.WarehouseResponse, error)
}

// WarehouseHandler maneja las peticiones HTTP de bodegas (protegido).
type WarehouseHandler struct {
	uc WarehouseService
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// List godoc
// @Summary      Bodegas del dueño
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.WarehouseResponse
// @Router       /api/warehouses [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	items, err := h.uc.List(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}
