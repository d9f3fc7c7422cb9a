package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/internal/domain/repository"
	"github.com/jhoicas/stock-master/pkg/logger"
)

// TransferOrchestrator coordina traslados internos: PENDING al crear, COMPLETED al ejecutar.
// Débito en origen, crédito en destino y cambio de estado van en una sola transacción.
type TransferOrchestrator struct {
	txRunner  TxRunner
	transfers repository.TransferRepository
	refs      *References
	engine    *MovementEngine
	metrics   Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewTransferOrchestrator construye el orquestador. transfers se usa para lecturas fuera de tx.
func NewTransferOrchestrator(
	txRunner TxRunner,
	transfers repository.TransferRepository,
	refs *References,
	engine *MovementEngine,
	metrics Metrics,
	log *logger.Logger,
) *TransferOrchestrator {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TransferOrchestrator{
		txRunner:  txRunner,
		transfers: transfers,
		refs:      refs,
		engine:    engine,
		metrics:   metrics,
		log:       log.Component("transfer_orchestrator"),
		now:       time.Now,
	}
}

// CreateTransferInput entrada para crear un traslado. Las ubicaciones son opcionales.
type CreateTransferInput struct {
	ProductID              string
	SourceWarehouseID      string
	SourceLocationID       string
	DestinationWarehouseID string
	DestinationLocationID  string
	Quantity               int64
	Reference              string
	Notes                  string
	UserID                 string
}

// Create valida referencias y registra el traslado en PENDING. No mueve stock.
func (o *TransferOrchestrator) Create(ctx context.Context, in CreateTransferInput) (*entity.InternalTransfer, error) {
	if in.ProductID == "" || in.SourceWarehouseID == "" || in.DestinationWarehouseID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	t := &entity.InternalTransfer{
		ID:                     uuid.New().String(),
		ProductID:              in.ProductID,
		SourceWarehouseID:      in.SourceWarehouseID,
		SourceLocationID:       in.SourceLocationID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		DestinationLocationID:  in.DestinationLocationID,
		Quantity:               in.Quantity,
		Status:                 entity.TransferStatusPending,
		TransferDate:           o.now(),
		Reference:              in.Reference,
		Notes:                  in.Notes,
		CreatedBy:              in.UserID,
	}
	if t.SourceKey() == t.DestinationKey() {
		return nil, fmt.Errorf("origen y destino iguales: %w", domain.ErrInvalidInput)
	}
	if err := o.refs.CheckKey(ctx, t.SourceKey()); err != nil {
		return nil, err
	}
	if err := o.refs.CheckKey(ctx, t.DestinationKey()); err != nil {
		return nil, err
	}
	if t.Reference == "" {
		t.Reference = "TRF-" + t.ID[:8]
	}
	if err := o.transfers.Create(ctx, t); err != nil {
		return nil, err
	}
	o.log.Info().Str("transfer_id", t.ID).Str("reference", t.Reference).Int64("quantity", t.Quantity).Msg("traslado creado")
	return t, nil
}

// Complete ejecuta el traslado. Si ya estaba COMPLETED lo devuelve sin efectos (idempotente).
// ErrInsufficientStock en origen deja el traslado en PENDING sin cambios.
func (o *TransferOrchestrator) Complete(ctx context.Context, id, userID string) (*entity.InternalTransfer, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("traslado %s: %w", id, domain.ErrNotFound)
	}
	var (
		result  *entity.InternalTransfer
		entries []entity.LedgerEntry
	)
	err := o.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
		transferRepo repository.TransferRepository,
	) error {
		// Run puede reintentar fn; no arrastrar estado del intento anterior.
		result, entries = nil, nil

		t, err := transferRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("traslado %s: %w", id, domain.ErrNotFound)
		}
		if t.IsCompleted() {
			result = t
			return nil
		}

		src, dst := t.SourceKey(), t.DestinationKey()
		first, second := src, dst
		if dst.Less(src) {
			first, second = dst, src
		}
		if _, err := stockRepo.GetForUpdate(ctx, first); err != nil {
			return err
		}
		if _, err := stockRepo.GetForUpdate(ctx, second); err != nil {
			return err
		}

		_, out, err := o.engine.ApplyInTx(ctx, stockRepo, ledgerRepo, Movement{
			Key: src, Quantity: t.Quantity, TransactionType: entity.TransactionTransferOUT,
			Reference: t.Reference, Notes: t.Notes, UserID: userID,
		})
		if err != nil {
			return err
		}
		_, in, err := o.engine.ApplyInTx(ctx, stockRepo, ledgerRepo, Movement{
			Key: dst, Quantity: t.Quantity, TransactionType: entity.TransactionTransferIN,
			Reference: t.Reference, Notes: t.Notes, UserID: userID,
		})
		if err != nil {
			return fmt.Errorf("acreditar destino: %w", err)
		}
		if err := t.MarkCompleted(o.now()); err != nil {
			return err
		}
		if err := transferRepo.UpdateStatus(ctx, t); err != nil {
			return err
		}
		result, entries = t, []entity.LedgerEntry{out, in}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCommitUncertain) {
			return o.reconcile(ctx, id, err)
		}
		o.metrics.MovementRejected("transfer_complete", reasonOf(err))
		o.log.Warn().Err(err).Str("transfer_id", id).Msg("traslado no completado")
		return nil, err
	}
	if len(entries) == 0 {
		o.log.Debug().Str("transfer_id", id).Msg("traslado ya completado, sin efectos")
		return result, nil
	}

	o.engine.AfterCommit(ctx, entries...)
	o.metrics.TransferCompleted()
	o.log.Info().Str("transfer_id", id).Str("reference", result.Reference).Msg("traslado completado")
	return result, nil
}

// reconcile decide el estado real tras un commit de resultado desconocido.
// La transacción es atómica: o se aplicó todo (COMPLETED) o nada (PENDING).
func (o *TransferOrchestrator) reconcile(ctx context.Context, id string, cause error) (*entity.InternalTransfer, error) {
	t, err := o.transfers.GetByID(ctx, id)
	if err != nil || t == nil {
		o.metrics.PartialTransfer()
		o.log.Error().Err(cause).AnErr("reconcile_error", err).
			Bool("alert", true).
			Str("transfer_id", id).
			Msg("no se pudo determinar el estado del traslado tras el commit")
		return nil, fmt.Errorf("traslado %s: %w", id, domain.ErrPartialTransfer)
	}
	if t.IsCompleted() {
		o.metrics.TransferCompleted()
		o.log.Warn().Err(cause).Str("transfer_id", id).Msg("commit incierto reconciliado: traslado completado")
		return t, nil
	}
	return nil, fmt.Errorf("traslado %s sigue pendiente: %w", id, domain.ErrConflict)
}

// Get obtiene un traslado por ID.
func (o *TransferOrchestrator) Get(ctx context.Context, id string) (*entity.InternalTransfer, error) {
	// Los IDs se generan como UUID; cualquier otro valor no existe.
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("traslado %s: %w", id, domain.ErrNotFound)
	}
	t, err := o.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("traslado %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

// List lista traslados con paginación.
func (o *TransferOrchestrator) List(ctx context.Context, f entity.TransferFilter) ([]*entity.InternalTransfer, error) {
	if f.Status != "" && f.Status != entity.TransferStatusPending && f.Status != entity.TransferStatusCompleted {
		return nil, domain.ErrInvalidInput
	}
	f.Limit, f.Offset = page(f.Limit, f.Offset)
	return o.transfers.List(ctx, f)
}

// page aplica límites por defecto a la paginación.
func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
