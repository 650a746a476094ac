package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx). Solo inserta.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega una entrada y completa su ID.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements
			(user_id, product_code, product_name, action, delta, boxes_after_change, units_per_box, batch_id, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.UserID, m.ProductCode, m.ProductName, string(m.Action), m.Delta,
		m.BoxesAfterChange, m.UnitsPerBox, m.BatchID, m.Timestamp,
	).Scan(&m.ID)
	if err != nil {
		return wrap("insert stock movement", err)
	}
	return nil
}

// List entradas del dueño, las más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	conds := []string{"user_id = $1"}
	args := []any{f.UserID}
	if f.ProductCode != "" {
		args = append(args, f.ProductCode)
		conds = append(conds, fmt.Sprintf("product_code = $%d", len(args)))
	}
	if f.BatchID != "" {
		args = append(args, f.BatchID)
		conds = append(conds, fmt.Sprintf("batch_id = $%d", len(args)))
	}
	if f.Since != nil {
		args = append(args, *f.Since)
		conds = append(conds, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	query := `
		SELECT id, user_id, product_code, product_name, action, delta, boxes_after_change, units_per_box, batch_id, timestamp
		FROM stock_movements
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY timestamp DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list stock movements", err)
	}
	defer rows.Close()

	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		var (
			m      entity.StockMovement
			action string
		)
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.ProductCode, &m.ProductName, &action, &m.Delta,
			&m.BoxesAfterChange, &m.UnitsPerBox, &m.BatchID, &m.Timestamp,
		); err != nil {
			return nil, wrap("scan stock movement", err)
		}
		m.Action = entity.MovementAction(action)
		m.Timestamp = m.Timestamp.UTC()
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list stock movements", err)
	}
	return list, nil
}
