package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/application/dto"
)

// OwnerService alta de dueños.
type OwnerService interface {
	Provision(ctx context.Context, in dto.ProvisionOwnerRequest) (*dto.UserResponse, error)
}

// AuthHandler identidad del usuario y alta de dueños.
type AuthHandler struct {
	owners OwnerService
}

// NewAuthHandler construye el handler.
func NewAuthHandler(owners OwnerService) *AuthHandler {
	return &AuthHandler{owners: owners}
}

// Me godoc
// @Summary      Identidad del token
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	return c.JSON(dto.MeResponse{
		UserID:      userID,
		Email:       GetEmail(c),
		Role:        GetRole(c),
		WarehouseID: GetWarehouseID(c),
	})
}

// ProvisionOwner godoc
// @Summary      Alta de dueño con bodega por defecto
// @Description  Idempotente. Requiere rol AdminCliente o Superadmin.
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ProvisionOwnerRequest  true  "userId, email, role"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/owners [post]
func (h *AuthHandler) ProvisionOwner(c *fiber.Ctx) error {
	var in dto.ProvisionOwnerRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.owners.Provision(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
