package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// OwnerUseCase alta de dueños de inventario con su bodega por defecto.
type OwnerUseCase struct {
	txRunner inventory.TxRunner
	now      func() time.Time
}

// NewOwnerUseCase construye el caso de uso.
func NewOwnerUseCase(txRunner inventory.TxRunner) *OwnerUseCase {
	return &OwnerUseCase{txRunner: txRunner, now: func() time.Time { return time.Now().UTC() }}
}

// Provision crea el dueño si no existe y le asigna "Bodega Principal" cuando no tiene bodega
// por defecto, en una sola transacción. Es idempotente. Un email registrado con otro id es ErrConflict.
func (uc *OwnerUseCase) Provision(ctx context.Context, in dto.ProvisionOwnerRequest) (*dto.UserResponse, error) {
	if _, err := uuid.Parse(in.UserID); err != nil {
		return nil, domain.NewValidationError("userId", "no es un identificador válido")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email", "no es un email válido")
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}

	var out *entity.User
	err := uc.txRunner.Run(ctx, func(uow inventory.UnitOfWork) error {
		now := uc.now()
		user, err := uow.Users.GetByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			other, err := uow.Users.GetByEmail(ctx, email)
			if err != nil {
				return err
			}
			if other != nil {
				return fmt.Errorf("email %s: %w", email, domain.ErrConflict)
			}
			user = &entity.User{ID: in.UserID, Email: email, Role: role, CreatedAt: now, UpdatedAt: now}
			if err := uow.Users.Create(ctx, user); err != nil {
				return err
			}
		}
		if user.DefaultWarehouseID == nil {
			wh := &entity.Warehouse{
				ID:        uuid.New().String(),
				UserID:    user.ID,
				Name:      entity.DefaultWarehouseName,
				CreatedAt: now,
			}
			if err := uow.Warehouses.Create(ctx, wh); err != nil {
				return err
			}
			if err := uow.Users.SetDefaultWarehouse(ctx, user.ID, wh.ID); err != nil {
				return err
			}
			user.DefaultWarehouseID = &wh.ID
		}
		out = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(out), nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Role:               u.Role,
		DefaultWarehouseID: u.DefaultWarehouseID,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
