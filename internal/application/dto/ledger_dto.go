package dto

import (
	"time"

	"github.com/jhoicas/stock-master/internal/domain/entity"
)

// LedgerEntryDTO entrada del libro mayor.
type LedgerEntryDTO struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	WarehouseID     string    `json:"warehouse_id"`
	LocationID      string    `json:"location_id"`
	QuantityChanged int64     `json:"quantity_changed"`
	TransactionType string    `json:"transaction_type"`
	Timestamp       time.Time `json:"timestamp"`
	Reference       string    `json:"reference,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedBy       string    `json:"created_by,omitempty"`
}

// FromLedgerEntries mapea una lista de entradas.
func FromLedgerEntries(list []entity.LedgerEntry) []LedgerEntryDTO {
	out := make([]LedgerEntryDTO, 0, len(list))
	for _, e := range list {
		out = append(out, LedgerEntryDTO{
			ID:              e.ID,
			ProductID:       e.ProductID,
			WarehouseID:     e.WarehouseID,
			LocationID:      e.LocationID,
			QuantityChanged: e.QuantityChanged,
			TransactionType: e.TransactionType,
			Timestamp:       e.Timestamp,
			Reference:       e.Reference,
			Notes:           e.Notes,
			CreatedBy:       e.CreatedBy,
		})
	}
	return out
}

// ReconciliationDTO comparación entre stock materializado y libro mayor.
type ReconciliationDTO struct {
	Stock          StockRecordDTO `json:"stock"`
	LedgerOnHand   int64          `json:"ledger_on_hand"`
	LedgerReserved int64          `json:"ledger_reserved"`
	Consistent     bool           `json:"consistent"`
}
