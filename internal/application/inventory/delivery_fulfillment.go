package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/internal/domain/repository"
	"github.com/jhoicas/stock-master/pkg/logger"
)

// DeliveryFulfillment descuenta stock cuando una entrega pasa a DELIVERED.
// Todas las líneas se aplican en una sola transacción: o salen todas o ninguna.
type DeliveryFulfillment struct {
	txRunner TxRunner
	refs     *References
	engine   *MovementEngine
	log      *logger.Logger
}

// NewDeliveryFulfillment construye el caso de uso.
func NewDeliveryFulfillment(txRunner TxRunner, refs *References, engine *MovementEngine, log *logger.Logger) *DeliveryFulfillment {
	if log == nil {
		log = logger.Nop()
	}
	return &DeliveryFulfillment{txRunner: txRunner, refs: refs, engine: engine, log: log.Component("delivery_fulfillment")}
}

// FulfillDelivery aplica una salida (OUT) por ítem con la referencia de la entrega.
// Si la entrega ya se aplicó retorna ErrAlreadyCompleted sin efectos.
func (uc *DeliveryFulfillment) FulfillDelivery(ctx context.Context, d entity.Delivery, userID string) ([]entity.StockRecord, error) {
	if d.Reference == "" || d.WarehouseID == "" || len(d.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	keys := make([]entity.StockKey, 0, len(d.Items))
	seen := make(map[entity.StockKey]bool, len(d.Items))
	for _, it := range d.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		k := entity.StockKey{ProductID: it.ProductID, WarehouseID: d.WarehouseID, LocationID: d.LocationID}
		if seen[k] {
			continue
		}
		seen[k] = true
		if err := uc.refs.CheckKey(ctx, k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	var (
		records []entity.StockRecord
		entries []entity.LedgerEntry
	)
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.TransferRepository,
	) error {
		records, entries = nil, nil
		// Una entrega concurrente con la misma referencia espera aquí hasta que esta termine.
		if err := ledgerRepo.ClaimReference(ctx, entity.ReferenceScopeDelivery, d.Reference); err != nil {
			return err
		}
		for _, k := range keys {
			if _, err := stockRepo.GetForUpdate(ctx, k); err != nil {
				return err
			}
		}
		for _, it := range d.Items {
			rec, entry, err := uc.engine.ApplyInTx(ctx, stockRepo, ledgerRepo, Movement{
				Key:             entity.StockKey{ProductID: it.ProductID, WarehouseID: d.WarehouseID, LocationID: d.LocationID},
				Quantity:        it.Quantity,
				TransactionType: entity.TransactionOUT,
				Reference:       d.Reference,
				Notes:           d.Notes,
				UserID:          userID,
			})
			if err != nil {
				return fmt.Errorf("producto %s: %w", it.ProductID, err)
			}
			records = append(records, rec)
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("reference", d.Reference).Msg("entrega no aplicada")
		return nil, err
	}

	uc.engine.AfterCommit(ctx, entries...)
	uc.log.Info().Str("reference", d.Reference).Int("items", len(d.Items)).Msg("entrega descontada de stock")
	return records, nil
}
