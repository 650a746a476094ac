package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para dueños.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo dueño. Email o ID repetidos son ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, email, role, default_warehouse_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, u.ID, u.Email, u.Role, u.DefaultWarehouseID, u.CreatedAt, u.UpdatedAt); err != nil {
		return wrap("insert user", err)
	}
	return nil
}

// GetByID obtiene un dueño por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "get user", `WHERE id = $1`, id)
}

// GetByEmail obtiene un dueño por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "get user by email", `WHERE email = $1`, email)
}

// SetDefaultWarehouse fija la bodega por defecto del dueño.
func (r *UserRepo) SetDefaultWarehouse(ctx context.Context, userID, warehouseID string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET default_warehouse_id = $2, updated_at = now() WHERE id = $1`, userID, warehouseID)
	if err != nil {
		return wrap("set default warehouse", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, op, where string, arg any) (*entity.User, error) {
	query := `SELECT id, email, role, default_warehouse_id, created_at, updated_at FROM users ` + where
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Role, &u.DefaultWarehouseID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return &u, nil
}
