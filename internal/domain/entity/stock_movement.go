package entity

import "time"

// MovementAction etiqueta cerrada de un movimiento del libro de inventario.
type MovementAction string

// Acciones de movimiento (serialización canónica).
const (
	ActionInboundCreate MovementAction = "Entrada" // ingreso que crea el lote
	ActionInboundMerge  MovementAction = "Ingreso" // ingreso sobre un lote existente
	ActionOutbound      MovementAction = "Salida"  // egreso
)

// IsInbound indica si la acción incrementa el stock.
func (a MovementAction) IsInbound() bool {
	return a == ActionInboundCreate || a == ActionInboundMerge
}

// Valid indica si la acción pertenece a la enumeración.
func (a MovementAction) Valid() bool {
	switch a {
	case ActionInboundCreate, ActionInboundMerge, ActionOutbound:
		return true
	}
	return false
}

// StockMovement entrada inmutable del libro: un cambio de stock y el nivel resultante.
// BatchID es una referencia débil: queda en nil si el lote se elimina.
type StockMovement struct {
	ID               int64
	UserID           string
	ProductCode      string
	ProductName      string // copia del nombre al momento de escribir
	Action           MovementAction
	Delta            int // positivo entrada, negativo salida
	BoxesAfterChange int
	UnitsPerBox      int
	BatchID          *string
	Timestamp        time.Time
}
