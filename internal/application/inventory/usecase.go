package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	domaininv "github.com/jhoicas/bodega-api/internal/domain/inventory"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Mensajes devueltos al cliente.
const (
	MsgBatchCreated     = "Nuevo lote ingresado con éxito. Por favor, refresque el inventario."
	MsgBatchMerged      = "Ingreso de lote existente realizado con éxito. Por favor, refresque el inventario."
	MsgStockOut         = "Egreso de lote realizado con éxito. Por favor, refresque el inventario."
	MsgMovementRecorded = "Movimiento de stock registrado con éxito."
)

const tracerName = "github.com/jhoicas/bodega-api/internal/application/inventory"

// StockDeps dependencias del motor. Solo TxRunner es obligatorio; el resto tiene
// implementaciones nulas por defecto.
type StockDeps struct {
	TxRunner  TxRunner
	Locker    BatchLocker
	Publisher MovementPublisher
	Recorder  Recorder
	Tracer    trace.Tracer
	Logger    zerolog.Logger
	Now       func() time.Time
}

// StockUseCase motor de conciliación: resuelve el lote, aplica el cambio y escribe el libro
// en una única transacción por operación.
type StockUseCase struct {
	txRunner  TxRunner
	locker    BatchLocker
	publisher MovementPublisher
	recorder  Recorder
	tracer    trace.Tracer
	log       zerolog.Logger
	now       func() time.Time
}

// NewStockUseCase construye el motor.
func NewStockUseCase(deps StockDeps) *StockUseCase {
	uc := &StockUseCase{
		txRunner:  deps.TxRunner,
		locker:    deps.Locker,
		publisher: deps.Publisher,
		recorder:  deps.Recorder,
		tracer:    deps.Tracer,
		log:       deps.Logger,
		now:       deps.Now,
	}
	if uc.locker == nil {
		uc.locker = noopLocker{}
	}
	if uc.publisher == nil {
		uc.publisher = noopPublisher{}
	}
	if uc.recorder == nil {
		uc.recorder = noopRecorder{}
	}
	if uc.tracer == nil {
		uc.tracer = otel.Tracer(tracerName)
	}
	if uc.now == nil {
		uc.now = func() time.Time { return time.Now().UTC() }
	}
	return uc
}

// StockInInput ingreso de cajas. WarehouseID vacío usa la bodega por defecto del dueño.
type StockInInput struct {
	UserID      string
	WarehouseID string
	ProductCode string
	UnitsPerBox int
	Boxes       int
	Name        string
}

// StockOutInput egreso de cajas.
type StockOutInput struct {
	UserID      string
	WarehouseID string
	ProductCode string
	UnitsPerBox int
	Boxes       int
}

// RegisterMovementInput movimiento afirmado por el cliente sobre un lote existente.
type RegisterMovementInput struct {
	UserID           string
	BatchID          string
	ProductCode      string
	Action           string
	Delta            int
	BoxesAfterChange int
	UnitsPerBox      *int
}

// StockIn suma cajas a un lote existente o crea uno nuevo y registra la entrada del libro
// (Entrada si se creó, Ingreso si se fusionó).
func (uc *StockUseCase) StockIn(ctx context.Context, in StockInInput) (*dto.MessageResponse, error) {
	in.ProductCode = domaininv.NormalizeCode(in.ProductCode)
	in.Name = domaininv.NormalizeName(in.Name)

	ctx, span := uc.tracer.Start(ctx, "inventory.StockIn", trace.WithAttributes(
		attribute.String("product_code", in.ProductCode),
		attribute.Int("units_per_box", in.UnitsPerBox),
		attribute.Int("boxes", in.Boxes),
	))
	defer span.End()

	if err := validateBatchInput(in.ProductCode, in.UnitsPerBox, in.Boxes); err != nil {
		return nil, uc.fail(span, err)
	}
	if err := domaininv.ValidateName(in.Name); err != nil {
		return nil, uc.fail(span, err)
	}

	var (
		state BatchState
		mov   *entity.StockMovement
	)
	err := uc.locker.WithLock(ctx, lockKey(in.UserID, in.ProductCode, in.UnitsPerBox), func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(uow UnitOfWork) error {
			warehouseID, err := resolveWarehouse(ctx, uow, in.UserID, in.WarehouseID)
			if err != nil {
				return err
			}
			resolver := NewResolver(uow.Batches)
			mutator := NewMutator(uow.Batches, resolver, uc.now)
			state, err = mutator.ApplyInbound(ctx, InboundChange{
				Key: entity.BatchKey{
					UserID:      in.UserID,
					WarehouseID: warehouseID,
					ProductCode: in.ProductCode,
					UnitsPerBox: in.UnitsPerBox,
				},
				Boxes: in.Boxes,
				Name:  in.Name,
			})
			if err != nil {
				return err
			}
			action := entity.ActionInboundMerge
			if state.Created {
				action = entity.ActionInboundCreate
			}
			mov, err = NewLedgerWriter(uow.Movements, uc.now).Append(ctx, LedgerEntry{
				UserID:           in.UserID,
				ProductCode:      state.ProductCode,
				ProductName:      state.Name,
				Action:           action,
				Delta:            in.Boxes,
				BoxesAfterChange: state.Boxes,
				UnitsPerBox:      state.UnitsPerBox,
				BatchID:          state.BatchID,
			})
			return err
		})
	})
	if err != nil {
		return nil, uc.fail(span, err)
	}

	uc.committed(ctx, mov)
	span.SetAttributes(attribute.String("batch_id", state.BatchID), attribute.Bool("created", state.Created))
	msg := MsgBatchMerged
	if state.Created {
		msg = MsgBatchCreated
	}
	return &dto.MessageResponse{Message: msg, BatchID: state.BatchID, Boxes: state.Boxes}, nil
}

// StockOut resta cajas del lote que coincide y registra una Salida. No hay retiros parciales.
func (uc *StockUseCase) StockOut(ctx context.Context, in StockOutInput) (*dto.MessageResponse, error) {
	in.ProductCode = domaininv.NormalizeCode(in.ProductCode)

	ctx, span := uc.tracer.Start(ctx, "inventory.StockOut", trace.WithAttributes(
		attribute.String("product_code", in.ProductCode),
		attribute.Int("units_per_box", in.UnitsPerBox),
		attribute.Int("boxes", in.Boxes),
	))
	defer span.End()

	if err := validateBatchInput(in.ProductCode, in.UnitsPerBox, in.Boxes); err != nil {
		return nil, uc.fail(span, err)
	}

	var (
		state BatchState
		mov   *entity.StockMovement
	)
	err := uc.locker.WithLock(ctx, lockKey(in.UserID, in.ProductCode, in.UnitsPerBox), func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(uow UnitOfWork) error {
			warehouseID, err := resolveWarehouse(ctx, uow, in.UserID, in.WarehouseID)
			if err != nil {
				return err
			}
			mutator := NewMutator(uow.Batches, NewResolver(uow.Batches), uc.now)
			state, err = mutator.ApplyOutbound(ctx, entity.BatchKey{
				UserID:      in.UserID,
				WarehouseID: warehouseID,
				ProductCode: in.ProductCode,
				UnitsPerBox: in.UnitsPerBox,
			}, in.Boxes)
			if err != nil {
				return err
			}
			mov, err = NewLedgerWriter(uow.Movements, uc.now).Append(ctx, LedgerEntry{
				UserID:           in.UserID,
				ProductCode:      state.ProductCode,
				ProductName:      state.Name,
				Action:           entity.ActionOutbound,
				Delta:            -in.Boxes,
				BoxesAfterChange: state.Boxes,
				UnitsPerBox:      state.UnitsPerBox,
				BatchID:          state.BatchID,
			})
			return err
		})
	})
	if err != nil {
		return nil, uc.fail(span, err)
	}

	uc.committed(ctx, mov)
	span.SetAttributes(attribute.String("batch_id", state.BatchID))
	return &dto.MessageResponse{Message: MsgStockOut, BatchID: state.BatchID, Boxes: state.Boxes}, nil
}

// RegisterMovement agrega al libro un movimiento afirmado por el cliente sobre un lote propio.
// No modifica el stock: boxesAfterChange es el valor que el cliente ya aplicó. Si no coincide
// con el stock vigente del lote se registra igual y se reporta como desvío.
func (uc *StockUseCase) RegisterMovement(ctx context.Context, in RegisterMovementInput) (*dto.MessageResponse, error) {
	in.ProductCode = domaininv.NormalizeCode(in.ProductCode)

	ctx, span := uc.tracer.Start(ctx, "inventory.RegisterMovement", trace.WithAttributes(
		attribute.String("batch_id", in.BatchID),
		attribute.String("action", in.Action),
		attribute.Int("delta", in.Delta),
	))
	defer span.End()

	direction, err := validateMovementInput(in)
	if err != nil {
		return nil, uc.fail(span, err)
	}

	var (
		mov   *entity.StockMovement
		drift bool
		live  int
	)
	err = uc.txRunner.Run(ctx, func(uow UnitOfWork) error {
		batch, err := uow.Batches.GetByID(ctx, in.UserID, in.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrBatchNotFound
		}
		if batch.ProductCode != in.ProductCode {
			return domain.NewValidationError("productCode", "no corresponde al lote indicado")
		}
		live = batch.Boxes
		drift = live != in.BoxesAfterChange
		mov, err = NewLedgerWriter(uow.Movements, uc.now).Append(ctx, LedgerEntry{
			UserID:           in.UserID,
			ProductCode:      batch.ProductCode,
			ProductName:      batch.Name,
			Action:           direction.Action(),
			Delta:            in.Delta,
			BoxesAfterChange: in.BoxesAfterChange,
			UnitsPerBox:      batch.UnitsPerBox,
			BatchID:          batch.ID,
		})
		return err
	})
	if err != nil {
		return nil, uc.fail(span, err)
	}

	if drift {
		uc.recorder.LedgerDrift()
		span.AddEvent("ledger_drift", trace.WithAttributes(
			attribute.Int("asserted", in.BoxesAfterChange),
			attribute.Int("live", live),
		))
		uc.log.Warn().
			Str("batch_id", in.BatchID).
			Int("asserted", in.BoxesAfterChange).
			Int("live", live).
			Msg("movimiento registrado con stock distinto al del lote")
	}
	uc.committed(ctx, mov)
	return &dto.MessageResponse{Message: MsgMovementRecorded, BatchID: in.BatchID, Boxes: in.BoxesAfterChange}, nil
}

// committed acciones posteriores al commit: métricas y evento. Un fallo al publicar no
// revierte el libro.
func (uc *StockUseCase) committed(ctx context.Context, mov *entity.StockMovement) {
	if mov == nil {
		return
	}
	uc.recorder.MovementRecorded(mov.Action)
	if err := uc.publisher.Publish(ctx, mov); err != nil {
		uc.log.Error().Err(err).Int64("movement_id", mov.ID).Msg("no se pudo publicar el movimiento")
	}
}

func (uc *StockUseCase) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	uc.recorder.MovementRejected(RejectionReason(err))
	return err
}

// RejectionReason clasifica un error del motor para métricas.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingName):
		return "missing_name"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrNoDefaultWarehouse):
		return "no_warehouse"
	case errors.Is(err, domain.ErrBatchNotFound), errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrStorageFailure):
		return "storage"
	}
	return "other"
}

// resolveWarehouse usa la bodega indicada si pertenece al dueño, o la bodega por defecto.
// Ids que no son uuid no pueden existir en el almacén: se tratan como bodega ausente.
func resolveWarehouse(ctx context.Context, uow UnitOfWork, userID, warehouseID string) (string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return "", domain.ErrNoDefaultWarehouse
	}
	if warehouseID != "" {
		if _, err := uuid.Parse(warehouseID); err != nil {
			return "", domain.ErrNoDefaultWarehouse
		}
		wh, err := uow.Warehouses.GetByID(ctx, warehouseID)
		if err != nil {
			return "", err
		}
		if wh == nil || wh.UserID != userID {
			return "", domain.ErrNoDefaultWarehouse
		}
		return wh.ID, nil
	}
	user, err := uow.Users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil || user.DefaultWarehouseID == nil || *user.DefaultWarehouseID == "" {
		return "", domain.ErrNoDefaultWarehouse
	}
	return *user.DefaultWarehouseID, nil
}

func validateBatchInput(productCode string, unitsPerBox, boxes int) error {
	if err := domaininv.ValidateProductCode(productCode); err != nil {
		return err
	}
	if err := domaininv.ValidateUnitsPerBox(unitsPerBox); err != nil {
		return err
	}
	if err := domaininv.ValidateBoxes(boxes); err != nil {
		return err
	}
	return nil
}

func validateMovementInput(in RegisterMovementInput) (domaininv.Direction, error) {
	if in.BatchID == "" {
		return "", domain.NewValidationError("batchId", "es obligatorio para registrar un movimiento")
	}
	if _, err := uuid.Parse(in.BatchID); err != nil {
		return "", domain.NewValidationError("batchId", "no es un identificador válido")
	}
	if err := domaininv.ValidateProductCode(in.ProductCode); err != nil {
		return "", err
	}
	direction, err := domaininv.ParseDirection(in.Action)
	if err != nil {
		return "", err
	}
	if err := direction.ValidateDelta(in.Delta); err != nil {
		return "", err
	}
	if in.BoxesAfterChange < 0 || in.BoxesAfterChange > domaininv.MaxQuantity {
		return "", domain.NewValidationError("boxesAfterChange", "debe estar entre 0 y 10.000")
	}
	if in.UnitsPerBox != nil {
		if *in.UnitsPerBox < 1 || *in.UnitsPerBox > domaininv.MaxQuantity {
			return "", domain.NewValidationError("unitsPerBox", "debe estar entre 1 y 10.000")
		}
	}
	return direction, nil
}

func lockKey(userID, productCode string, unitsPerBox int) string {
	return fmt.Sprintf("lock:batch:%s:%s:%d", userID, productCode, unitsPerBox)
}
