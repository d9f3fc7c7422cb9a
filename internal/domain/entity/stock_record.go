package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/stock-master/internal/domain"
)

// StockKey identifica una fila de stock: producto + bodega + ubicación.
// LocationID vacío representa la ubicación por defecto de la bodega.
type StockKey struct {
	ProductID   string
	WarehouseID string
	LocationID  string
}

// String devuelve la clave en formato producto/bodega/ubicación (útil en logs y en Kafka).
func (k StockKey) String() string {
	return k.ProductID + "/" + k.WarehouseID + "/" + k.LocationID
}

// Less define un orden total entre claves. Las filas se bloquean siempre en este orden
// para evitar deadlocks cuando una transacción toca dos claves (traslados).
func (k StockKey) Less(o StockKey) bool {
	if k.ProductID != o.ProductID {
		return k.ProductID < o.ProductID
	}
	if k.WarehouseID != o.WarehouseID {
		return k.WarehouseID < o.WarehouseID
	}
	return k.LocationID < o.LocationID
}

// StockRecord representa las cantidades de un producto en una bodega/ubicación.
// Invariante: OnHand == Reserved + FreeToUse y ningún campo negativo.
type StockRecord struct {
	StockKey
	OnHand    int64
	Reserved  int64
	FreeToUse int64
	Version   int64
	UpdatedAt time.Time
}

// StockDelta variación a aplicar sobre un StockRecord.
type StockDelta struct {
	OnHand    int64
	Reserved  int64
	FreeToUse int64
}

// ZeroStock devuelve el registro vacío para una clave que aún no tiene movimientos.
func ZeroStock(key StockKey) StockRecord {
	return StockRecord{StockKey: key}
}

// Validate verifica la invariante del registro.
func (s StockRecord) Validate() error {
	if s.OnHand < 0 || s.Reserved < 0 || s.FreeToUse < 0 {
		return domain.ErrInsufficientStock
	}
	if s.OnHand != s.Reserved+s.FreeToUse {
		return fmt.Errorf("stock %s: on_hand=%d reserved=%d free_to_use=%d: %w",
			s.StockKey, s.OnHand, s.Reserved, s.FreeToUse, domain.ErrInvalidInput)
	}
	return nil
}

// Apply calcula el registro resultante de aplicar d. No modifica s.
// Retorna ErrInsufficientStock si algún campo quedaría negativo y ErrInvalidInput
// si alguno excedería el rango de int64.
func (s StockRecord) Apply(d StockDelta, now time.Time) (StockRecord, error) {
	if overflows(s.OnHand, d.OnHand) || overflows(s.Reserved, d.Reserved) || overflows(s.FreeToUse, d.FreeToUse) {
		return s, fmt.Errorf("stock %s: cantidad fuera de rango: %w", s.StockKey, domain.ErrInvalidInput)
	}
	next := s
	next.OnHand += d.OnHand
	next.Reserved += d.Reserved
	next.FreeToUse += d.FreeToUse
	if err := next.Validate(); err != nil {
		return s, err
	}
	next.Version++
	next.UpdatedAt = now
	return next, nil
}

// overflows indica si cur+delta sale del rango de int64. cur nunca es negativo.
func overflows(cur, delta int64) bool {
	return delta > 0 && cur > math.MaxInt64-delta
}
