package inventory

import (
	"strings"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// Direction sentido de un movimiento registrado directamente por el cliente.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// ParseDirection acepta "inbound"/"outbound" y los alias históricos "Ingreso"/"Egreso".
// Cualquier otro valor es un error de validación.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inbound", "ingreso":
		return DirectionInbound, nil
	case "outbound", "egreso":
		return DirectionOutbound, nil
	}
	return "", domain.NewValidationError("action", "la acción debe ser 'inbound' u 'outbound'")
}

// Action etiqueta del libro para un movimiento directo. Un ingreso directo siempre recae
// sobre un lote existente, por eso se registra como ActionInboundMerge.
func (d Direction) Action() entity.MovementAction {
	if d == DirectionOutbound {
		return entity.ActionOutbound
	}
	return entity.ActionInboundMerge
}

// ValidateDelta comprueba que el signo del delta coincida con el sentido y que esté en rango.
func (d Direction) ValidateDelta(delta int) error {
	if delta == 0 || delta < -MaxQuantity || delta > MaxQuantity {
		return domain.NewValidationError("delta", "debe estar entre -10.000 y 10.000 y ser distinto de 0")
	}
	if d == DirectionInbound && delta < 0 {
		return domain.NewValidationError("delta", "un ingreso requiere delta positivo")
	}
	if d == DirectionOutbound && delta > 0 {
		return domain.NewValidationError("delta", "un egreso requiere delta negativo")
	}
	return nil
}
