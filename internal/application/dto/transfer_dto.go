package dto

import (
	"time"

	"github.com/jhoicas/stock-master/internal/domain/entity"
)

// CreateTransferRequest body para POST /api/internal-transfers.
type CreateTransferRequest struct {
	ProductID              string `json:"product_id" validate:"required,max=64"`
	SourceWarehouseID      string `json:"source_warehouse_id" validate:"required,max=64"`
	SourceLocationID       string `json:"source_location_id,omitempty" validate:"max=64"`
	DestinationWarehouseID string `json:"destination_warehouse_id" validate:"required,max=64"`
	DestinationLocationID  string `json:"destination_location_id,omitempty" validate:"max=64"`
	Quantity               int64  `json:"quantity" validate:"gt=0"`
	Reference              string `json:"reference,omitempty" validate:"max=100"`
	Notes                  string `json:"notes,omitempty" validate:"max=500"`
}

// TransferDTO respuesta de traslado interno.
type TransferDTO struct {
	ID                     string     `json:"id"`
	ProductID              string     `json:"product_id"`
	SourceWarehouseID      string     `json:"source_warehouse_id"`
	SourceLocationID       string     `json:"source_location_id"`
	DestinationWarehouseID string     `json:"destination_warehouse_id"`
	DestinationLocationID  string     `json:"destination_location_id"`
	Quantity               int64      `json:"quantity"`
	Status                 string     `json:"status"`
	TransferDate           time.Time  `json:"transfer_date"`
	CompletedAt            *time.Time `json:"completed_at,omitempty"`
	Reference              string     `json:"reference"`
	Notes                  string     `json:"notes,omitempty"`
	CreatedBy              string     `json:"created_by,omitempty"`
}

// FromTransfer mapea la entidad a DTO.
func FromTransfer(t *entity.InternalTransfer) TransferDTO {
	return TransferDTO{
		ID:                     t.ID,
		ProductID:              t.ProductID,
		SourceWarehouseID:      t.SourceWarehouseID,
		SourceLocationID:       t.SourceLocationID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		DestinationLocationID:  t.DestinationLocationID,
		Quantity:               t.Quantity,
		Status:                 t.Status,
		TransferDate:           t.TransferDate,
		CompletedAt:            t.CompletedAt,
		Reference:              t.Reference,
		Notes:                  t.Notes,
		CreatedBy:              t.CreatedBy,
	}
}
