package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/bodega-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// wrap clasifica errores del driver: único violado es ErrConflict, el resto ErrStorageFailure.
func wrap(op string, err error) error {
	if isUniqueViolation(err) {
		return errors.Join(domain.ErrConflict, domain.StorageError(op, err))
	}
	return domain.StorageError(op, err)
}
