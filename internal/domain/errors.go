package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrBatchNotFound      = errors.New("no existe lote con ese código y unidades por caja")
	ErrNoDefaultWarehouse = errors.New("no se encontró bodega por defecto")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrMissingName        = errors.New("el producto es nuevo y requiere un nombre")
	ErrInsufficientStock  = errors.New("no hay suficientes cajas en el lote")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrStorageFailure     = errors.New("fallo de persistencia")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)

// ValidationError describe un campo inválido. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un error de validación para el campo indicado.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap permite clasificar el error como ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// StorageError envuelve un error de la capa de persistencia con la operación que falló.
func StorageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageFailure, err)
}
