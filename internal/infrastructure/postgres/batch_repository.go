package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, user_id, warehouse_id, product_code, name, boxes, units_per_box, created_at, updated_at`

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// FindByKey busca el lote por identidad de negocio exacta.
func (r *BatchRepo) FindByKey(ctx context.Context, key entity.BatchKey) (*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM item_batches
		WHERE user_id = $1 AND warehouse_id = $2 AND product_code = $3 AND units_per_box = $4`
	return r.scanOne(ctx, "find batch", query, key.UserID, key.WarehouseID, key.ProductCode, key.UnitsPerBox)
}

// FindByKeyForUpdate igual que FindByKey con SELECT FOR UPDATE.
func (r *BatchRepo) FindByKeyForUpdate(ctx context.Context, key entity.BatchKey) (*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM item_batches
		WHERE user_id = $1 AND warehouse_id = $2 AND product_code = $3 AND units_per_box = $4
		FOR UPDATE`
	return r.scanOne(ctx, "find batch for update", query, key.UserID, key.WarehouseID, key.ProductCode, key.UnitsPerBox)
}

// FindReferenceName nombre del lote más antiguo del dueño con ese código.
func (r *BatchRepo) FindReferenceName(ctx context.Context, userID, productCode string) (string, error) {
	query := `
		SELECT name FROM item_batches
		WHERE user_id = $1 AND product_code = $2
		ORDER BY created_at ASC
		LIMIT 1`
	var name string
	err := r.q.QueryRow(ctx, query, userID, productCode).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", wrap("find reference name", err)
	}
	return name, nil
}

// GetByID obtiene un lote del dueño.
func (r *BatchRepo) GetByID(ctx context.Context, userID, id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM item_batches WHERE id = $1 AND user_id = $2`
	return r.scanOne(ctx, "get batch", query, id, userID)
}

// Create inserta el lote; si la identidad de negocio ya existe no hace nada y devuelve false.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) (bool, error) {
	query := `
		INSERT INTO item_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, warehouse_id, product_code, units_per_box) DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		b.ID, b.UserID, b.WarehouseID, b.ProductCode, b.Name, b.Boxes, b.UnitsPerBox, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return false, wrap("insert batch", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AddBoxes suma cajas y devuelve el stock resultante.
func (r *BatchRepo) AddBoxes(ctx context.Context, id string, boxes int, at time.Time) (int, error) {
	query := `UPDATE item_batches SET boxes = boxes + $2, updated_at = $3 WHERE id = $1 RETURNING boxes`
	var out int
	if err := r.q.QueryRow(ctx, query, id, boxes, at).Scan(&out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrBatchNotFound
		}
		return 0, wrap("add boxes", err)
	}
	return out, nil
}

// RemoveBoxes decremento condicional: solo actualiza si hay cajas suficientes.
func (r *BatchRepo) RemoveBoxes(ctx context.Context, id string, boxes int, at time.Time) (int, error) {
	query := `
		UPDATE item_batches SET boxes = boxes - $2, updated_at = $3
		WHERE id = $1 AND boxes >= $2
		RETURNING boxes`
	var out int
	if err := r.q.QueryRow(ctx, query, id, boxes, at).Scan(&out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, wrap("remove boxes", err)
	}
	return out, nil
}

// ListByUser lotes del dueño ordenados por código y empaque.
func (r *BatchRepo) ListByUser(ctx context.Context, userID string, onlyInStock bool) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM item_batches
		WHERE user_id = $1 AND (NOT $2 OR boxes > 0)
		ORDER BY product_code, units_per_box`
	return r.scanMany(ctx, "list batches", query, userID, onlyInStock)
}

// ListBelow lotes con menos cajas que threshold.
func (r *BatchRepo) ListBelow(ctx context.Context, userID string, threshold int) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM item_batches
		WHERE user_id = $1 AND boxes < $2
		ORDER BY product_code, units_per_box`
	return r.scanMany(ctx, "list low stock", query, userID, threshold)
}

// Delete elimina el lote; la FK del libro queda en NULL (ON DELETE SET NULL).
func (r *BatchRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM item_batches WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, wrap("delete batch", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BatchRepo) scanOne(ctx context.Context, op, query string, args ...any) (*entity.Batch, error) {
	var b entity.Batch
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.UserID, &b.WarehouseID, &b.ProductCode, &b.Name, &b.Boxes, &b.UnitsPerBox, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return &b, nil
}

func (r *BatchRepo) scanMany(ctx context.Context, op, query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	list := make([]*entity.Batch, 0)
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.WarehouseID, &b.ProductCode, &b.Name, &b.Boxes, &b.UnitsPerBox, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, wrap(op, err)
		}
		list = append(list, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}
