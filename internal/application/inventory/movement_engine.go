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

// MovementEngine es el único camino por el que cambian las cantidades de stock.
// Cada mutación y su entrada en el libro mayor se confirman en una sola transacción.
type MovementEngine struct {
	txRunner  TxRunner
	refs      *References
	publisher EventPublisher
	metrics   Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewMovementEngine construye el motor. publisher y metrics pueden ser nil.
func NewMovementEngine(
	txRunner TxRunner,
	refs *References,
	publisher EventPublisher,
	metrics Metrics,
	log *logger.Logger,
) *MovementEngine {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &MovementEngine{
		txRunner:  txRunner,
		refs:      refs,
		publisher: publisher,
		metrics:   metrics,
		log:       log.Component("movement_engine"),
		now:       time.Now,
	}
}

// MovementInput entrada para Increase, Decrease, Reserve y Release.
type MovementInput struct {
	ProductID   string
	WarehouseID string
	LocationID  string
	Quantity    int64
	Reference   string
	Notes       string
	UserID      string
}

// Key coordenadas de stock de la entrada.
func (in MovementInput) Key() entity.StockKey {
	return entity.StockKey{ProductID: in.ProductID, WarehouseID: in.WarehouseID, LocationID: in.LocationID}
}

// AdjustInput ajuste manual: Delta positivo suma, negativo resta.
type AdjustInput struct {
	MovementInput
	Delta int64
}

// Movement describe un movimiento dentro de una transacción ya abierta por el caller.
type Movement struct {
	Key             entity.StockKey
	Quantity        int64
	TransactionType string
	Reference       string
	Notes           string
	UserID          string
}

// Increase suma qty a existencia y libre. Escribe una entrada IN.
func (e *MovementEngine) Increase(ctx context.Context, in MovementInput) (entity.StockRecord, error) {
	return e.move(ctx, in, entity.TransactionIN)
}

// Decrease resta qty de existencia y libre. ErrInsufficientStock si libre < qty, sin efectos.
func (e *MovementEngine) Decrease(ctx context.Context, in MovementInput) (entity.StockRecord, error) {
	return e.move(ctx, in, entity.TransactionOUT)
}

// Reserve compromete qty: pasa de libre a reservado. La existencia no cambia.
func (e *MovementEngine) Reserve(ctx context.Context, in MovementInput) (entity.StockRecord, error) {
	return e.move(ctx, in, entity.TransactionReserve)
}

// Release libera qty reservada de vuelta a libre.
func (e *MovementEngine) Release(ctx context.Context, in MovementInput) (entity.StockRecord, error) {
	return e.move(ctx, in, entity.TransactionRelease)
}

// Adjust ajuste manual: positivo como Increase, negativo como Decrease.
func (e *MovementEngine) Adjust(ctx context.Context, in AdjustInput) (entity.StockRecord, error) {
	switch {
	case in.Delta > 0:
		mov := in.MovementInput
		mov.Quantity = in.Delta
		return e.Increase(ctx, mov)
	case in.Delta < 0:
		mov := in.MovementInput
		mov.Quantity = -in.Delta
		return e.Decrease(ctx, mov)
	}
	e.metrics.MovementRejected("adjust", reasonOf(domain.ErrInvalidInput))
	return entity.StockRecord{}, fmt.Errorf("delta 0: %w", domain.ErrInvalidInput)
}

func (e *MovementEngine) move(ctx context.Context, in MovementInput, txType string) (entity.StockRecord, error) {
	if in.ProductID == "" || in.WarehouseID == "" || in.Quantity <= 0 {
		e.metrics.MovementRejected(txType, reasonOf(domain.ErrInvalidInput))
		return entity.StockRecord{}, domain.ErrInvalidInput
	}
	key := in.Key()
	if err := e.refs.CheckKey(ctx, key); err != nil {
		e.metrics.MovementRejected(txType, reasonOf(err))
		return entity.StockRecord{}, err
	}

	var (
		rec   entity.StockRecord
		entry entity.LedgerEntry
	)
	err := e.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.TransferRepository,
	) error {
		var err error
		rec, entry, err = e.ApplyInTx(ctx, stockRepo, ledgerRepo, Movement{
			Key:             key,
			Quantity:        in.Quantity,
			TransactionType: txType,
			Reference:       in.Reference,
			Notes:           in.Notes,
			UserID:          in.UserID,
		})
		return err
	})
	if err != nil {
		e.metrics.MovementRejected(txType, reasonOf(err))
		e.log.Warn().Err(err).
			Str("type", txType).
			Str("key", key.String()).
			Int64("quantity", in.Quantity).
			Msg("movimiento rechazado")
		return entity.StockRecord{}, err
	}

	e.AfterCommit(ctx, entry)
	return rec, nil
}

// ApplyInTx aplica un movimiento con los repositorios del caller (misma transacción).
// Si retorna error el caller debe hacer rollback; no se escribió nada visible.
func (e *MovementEngine) ApplyInTx(
	ctx context.Context,
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
	m Movement,
) (entity.StockRecord, entity.LedgerEntry, error) {
	if m.Quantity <= 0 {
		return entity.StockRecord{}, entity.LedgerEntry{}, domain.ErrInvalidInput
	}
	delta, change, err := deltaFor(m.TransactionType, m.Quantity)
	if err != nil {
		return entity.StockRecord{}, entity.LedgerEntry{}, err
	}
	rec, err := stockRepo.ApplyDelta(ctx, m.Key, delta)
	if err != nil {
		return entity.StockRecord{}, entity.LedgerEntry{}, err
	}
	entry := entity.LedgerEntry{
		ID:              uuid.New().String(),
		ProductID:       m.Key.ProductID,
		WarehouseID:     m.Key.WarehouseID,
		LocationID:      m.Key.LocationID,
		QuantityChanged: change,
		TransactionType: m.TransactionType,
		Timestamp:       e.now(),
		Reference:       m.Reference,
		Notes:           m.Notes,
		CreatedBy:       m.UserID,
	}
	if err := ledgerRepo.Append(ctx, &entry); err != nil {
		return entity.StockRecord{}, entity.LedgerEntry{}, err
	}
	return rec, entry, nil
}

// AfterCommit publica y contabiliza entradas ya confirmadas. Nunca falla: el commit ya ocurrió.
func (e *MovementEngine) AfterCommit(ctx context.Context, entries ...entity.LedgerEntry) {
	for _, en := range entries {
		e.metrics.MovementApplied(en.TransactionType, abs(en.QuantityChanged))
	}
	if err := e.publisher.PublishLedgerEntries(ctx, entries); err != nil {
		e.log.Warn().Err(err).Int("entries", len(entries)).Msg("no se pudieron publicar entradas del libro mayor")
	}
}

// deltaFor traduce tipo + cantidad en la variación de stock y la cantidad firmada del libro.
func deltaFor(txType string, qty int64) (entity.StockDelta, int64, error) {
	switch txType {
	case entity.TransactionIN, entity.TransactionTransferIN:
		return entity.StockDelta{OnHand: qty, FreeToUse: qty}, qty, nil
	case entity.TransactionOUT, entity.TransactionTransferOUT:
		return entity.StockDelta{OnHand: -qty, FreeToUse: -qty}, -qty, nil
	case entity.TransactionReserve:
		return entity.StockDelta{Reserved: qty, FreeToUse: -qty}, qty, nil
	case entity.TransactionRelease:
		return entity.StockDelta{Reserved: -qty, FreeToUse: qty}, -qty, nil
	}
	return entity.StockDelta{}, 0, fmt.Errorf("tipo %q: %w", txType, domain.ErrInvalidInput)
}

// reasonOf etiqueta de métrica para un error.
func reasonOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrAlreadyCompleted):
		return "already_completed"
	}
	return "internal"
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
