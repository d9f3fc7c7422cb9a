package dto

import (
	"time"

	"github.com/jhoicas/stock-master/internal/domain/entity"
)

// MovementRequest body para POST /api/stock/{increase,decrease,reserve,release}.
// location_id vacío = ubicación por defecto de la bodega.
type MovementRequest struct {
	ProductID   string `json:"product_id" validate:"required,max=64"`
	WarehouseID string `json:"warehouse_id" validate:"required,max=64"`
	LocationID  string `json:"location_id,omitempty" validate:"max=64"`
	Quantity    int64  `json:"quantity" validate:"gt=0"`
	Reference   string `json:"reference,omitempty" validate:"max=100"`
	Notes       string `json:"notes,omitempty" validate:"max=500"`
}

// AdjustRequest body para POST /api/stock/adjust. delta positivo suma, negativo resta.
type AdjustRequest struct {
	ProductID   string `json:"product_id" validate:"required,max=64"`
	WarehouseID string `json:"warehouse_id" validate:"required,max=64"`
	LocationID  string `json:"location_id,omitempty" validate:"max=64"`
	Delta       int64  `json:"delta" validate:"ne=0"`
	Reference   string `json:"reference,omitempty" validate:"max=100"`
	Notes       string `json:"notes,omitempty" validate:"max=500"`
}

// StockRecordDTO respuesta con las cantidades de una clave.
type StockRecordDTO struct {
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	LocationID  string    `json:"location_id"`
	OnHand      int64     `json:"on_hand"`
	Reserved    int64     `json:"reserved"`
	FreeToUse   int64     `json:"free_to_use"`
	Version     int64     `json:"version"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// FromStockRecord mapea la entidad a DTO.
func FromStockRecord(s entity.StockRecord) StockRecordDTO {
	return StockRecordDTO{
		ProductID:   s.ProductID,
		WarehouseID: s.WarehouseID,
		LocationID:  s.LocationID,
		OnHand:      s.OnHand,
		Reserved:    s.Reserved,
		FreeToUse:   s.FreeToUse,
		Version:     s.Version,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromStockRecords mapea una lista.
func FromStockRecords(list []entity.StockRecord) []StockRecordDTO {
	out := make([]StockRecordDTO, 0, len(list))
	for _, s := range list {
		out = append(out, FromStockRecord(s))
	}
	return out
}
