package inventory

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/application/dto"
)

// StockInFromRequest adapta el body de POST /api/ingreso al caso de uso StockIn.
// warehouseID proviene del token y puede ser vacío.
func (uc *StockUseCase) StockInFromRequest(ctx context.Context, userID, warehouseID string, in dto.StockInRequest) (*dto.MessageResponse, error) {
	return uc.StockIn(ctx, StockInInput{
		UserID:      userID,
		WarehouseID: warehouseID,
		ProductCode: in.ProductCode,
		UnitsPerBox: in.UnitsPerBox,
		Boxes:       in.Boxes,
		Name:        in.Name,
	})
}

// StockOutFromRequest adapta el body de POST /api/egreso al caso de uso StockOut.
func (uc *StockUseCase) StockOutFromRequest(ctx context.Context, userID, warehouseID string, in dto.StockOutRequest) (*dto.MessageResponse, error) {
	return uc.StockOut(ctx, StockOutInput{
		UserID:      userID,
		WarehouseID: warehouseID,
		ProductCode: in.ProductCode,
		UnitsPerBox: in.UnitsPerBox,
		Boxes:       in.Boxes,
	})
}

// RegisterMovementFromRequest adapta el body de POST /api/stockmovements al caso de uso RegisterMovement.
func (uc *StockUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.CreateStockMovementRequest) (*dto.MessageResponse, error) {
	input := RegisterMovementInput{
		UserID:           userID,
		ProductCode:      in.ProductCode,
		Action:           in.Action,
		Delta:            in.Delta,
		BoxesAfterChange: in.BoxesAfterChange,
		UnitsPerBox:      in.UnitsPerBox,
	}
	if in.BatchID != nil {
		input.BatchID = *in.BatchID
	}
	return uc.RegisterMovement(ctx, input)
}
