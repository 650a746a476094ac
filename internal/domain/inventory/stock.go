package inventory

import (
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/bodega-api/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// Límites de los campos de un lote (columnas product_code y name).
const (
	MaxProductCodeLen = 50
	MaxNameLen        = 100
	// MaxQuantity tope de delta, cajas resultantes y unidades por caja en un movimiento registrado
	// directamente. Ingresos y egresos no tienen tope superior.
	MaxQuantity = 10000
)

// NormalizeCode limpia espacios y lleva el código a forma NFC para que dos códigos
// visualmente idénticos resuelvan al mismo lote.
func NormalizeCode(code string) string {
	return norm.NFC.String(strings.TrimSpace(code))
}

// NormalizeName aplica la misma normalización al nombre visible.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ValidateProductCode exige un código no vacío dentro del largo de la columna.
func ValidateProductCode(code string) error {
	if code == "" {
		return domain.NewValidationError("productCode", "es obligatorio")
	}
	if utf8.RuneCountInString(code) > MaxProductCodeLen {
		return domain.NewValidationError("productCode", "máximo 50 caracteres")
	}
	return nil
}

// ValidateName valida un nombre opcional (vacío se permite; la obligatoriedad la decide el mutador).
func ValidateName(name string) error {
	if utf8.RuneCountInString(name) > MaxNameLen {
		return domain.NewValidationError("name", "máximo 100 caracteres")
	}
	return nil
}

// ValidateBoxes exige al menos una caja.
func ValidateBoxes(boxes int) error {
	if boxes <= 0 {
		return domain.NewValidationError("boxes", "debe ser al menos 1 caja")
	}
	return nil
}

// ValidateUnitsPerBox exige al menos una unidad por caja.
func ValidateUnitsPerBox(unitsPerBox int) error {
	if unitsPerBox <= 0 {
		return domain.NewValidationError("unitsPerBox", "debe ser al menos 1 unidad por caja")
	}
	return nil
}

// ApplyDelta calcula el stock resultante de aplicar delta. Nunca devuelve un valor negativo:
// un egreso mayor al stock es ErrInsufficientStock.
func ApplyDelta(current, delta int) (int, error) {
	next := current + delta
	if next < 0 {
		return current, domain.ErrInsufficientStock
	}
	return next, nil
}
