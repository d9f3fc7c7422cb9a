package entity

import (
	"time"

	"github.com/jhoicas/stock-master/internal/domain"
)

// Estados del traslado interno. La transición es monótona: PENDING -> COMPLETED.
const (
	TransferStatusPending   = "PENDING"
	TransferStatusCompleted = "COMPLETED"
)

// InternalTransfer intención de mover cantidad de una bodega/ubicación a otra.
// El stock solo se mueve al completarse.
type InternalTransfer struct {
	ID                     string
	ProductID              string
	SourceWarehouseID      string
	SourceLocationID       string // vacío = ubicación por defecto
	DestinationWarehouseID string
	DestinationLocationID  string
	Quantity               int64
	Status                 string
	TransferDate           time.Time
	CompletedAt            *time.Time
	Reference              string
	Notes                  string
	CreatedBy              string
}

// SourceKey clave de stock de origen.
func (t *InternalTransfer) SourceKey() StockKey {
	return StockKey{ProductID: t.ProductID, WarehouseID: t.SourceWarehouseID, LocationID: t.SourceLocationID}
}

// DestinationKey clave de stock de destino.
func (t *InternalTransfer) DestinationKey() StockKey {
	return StockKey{ProductID: t.ProductID, WarehouseID: t.DestinationWarehouseID, LocationID: t.DestinationLocationID}
}

// IsCompleted indica si el traslado ya movió stock.
func (t *InternalTransfer) IsCompleted() bool {
	return t.Status == TransferStatusCompleted
}

// MarkCompleted aplica la única transición permitida.
func (t *InternalTransfer) MarkCompleted(now time.Time) error {
	if t.IsCompleted() {
		return domain.ErrAlreadyCompleted
	}
	t.Status = TransferStatusCompleted
	t.CompletedAt = &now
	return nil
}

// TransferFilter criterios para listar traslados.
type TransferFilter struct {
	Status        string
	ProductID     string
	Limit, Offset int
}
