package http

import (
	"bytes"
	"context"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BatchService consultas y eliminación de lotes.
type BatchService interface {
	ListInStock(ctx context.Context, userID string) ([]dto.BatchResponse, error)
	ListAll(ctx context.Context, userID string) ([]dto.BatchResponse, error)
	LowStock(ctx context.Context, userID string) ([]dto.BatchResponse, error)
	Delete(ctx context.Context, userID, id string) error
	Export(ctx context.Context, userID string, w io.Writer) error
}

// BatchHandler maneja los listados de lotes (protegido).
type BatchHandler struct {
	uc BatchService
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc BatchService) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// ListInStock godoc
// @Summary      Lotes con stock
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.BatchResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/itembatches [get]
func (h *BatchHandler) ListInStock(c *fiber.Ctx) error {
	return h.list(c, h.uc.ListInStock)
}

// LowStock godoc
// @Summary      Alertas de stock bajo
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.BatchResponse
// @Router       /api/itembatches/alertas [get]
func (h *BatchHandler) LowStock(c *fiber.Ctx) error {
	return h.list(c, h.uc.LowStock)
}

// ListAll godoc
// @Summary      Todos los lotes (incluye los que están en 0)
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.BatchResponse
// @Router       /api/items [get]
func (h *BatchHandler) ListAll(c *fiber.Ctx) error {
	return h.list(c, h.uc.ListAll)
}

func (h *BatchHandler) list(c *fiber.Ctx, fn func(context.Context, string) ([]dto.BatchResponse, error)) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	items, err := fn(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	noCache(c)
	return c.JSON(items)
}

// Delete godoc
// @Summary      Eliminar lote
// @Description  El historial del libro se conserva sin referencia al lote.
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del lote"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return writeError(c, domain.NewValidationError("id", "es obligatorio"))
	}
	if err := h.uc.Delete(c.UserContext(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Lote eliminado con éxito.", BatchID: id})
}

// Export godoc
// @Summary      Exportar inventario a Excel
// @Tags         batches
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/itembatches/export [get]
func (h *BatchHandler) Export(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var buf bytes.Buffer
	if err := h.uc.Export(c.UserContext(), userID, &buf); err != nil {
		return writeError(c, err)
	}
	noCache(c)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario.xlsx"`)
	return c.Send(buf.Bytes())
}
