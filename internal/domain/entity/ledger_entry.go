package entity

import "time"

// Tipos de transacción del libro mayor de stock.
const (
	TransactionIN          = "IN"           // entrada
	TransactionOUT         = "OUT"          // salida (ajuste negativo o entrega)
	TransactionTransferIN  = "TRANSFER_IN"  // entrada por traslado interno
	TransactionTransferOUT = "TRANSFER_OUT" // salida por traslado interno
	TransactionReserve     = "RESERVE"      // libre -> reservado
	TransactionRelease     = "RELEASE"      // reservado -> libre
)

// IsValidTransactionType indica si t es un tipo conocido.
func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionIN, TransactionOUT, TransactionTransferIN, TransactionTransferOUT,
		TransactionReserve, TransactionRelease:
		return true
	}
	return false
}

// AffectsOnHand indica si el tipo modifica la existencia física.
// RESERVE/RELEASE solo mueven cantidad entre libre y reservado.
func AffectsOnHand(t string) bool {
	return t != TransactionReserve && t != TransactionRelease
}

// LedgerEntry registro inmutable de un cambio de cantidad. Se crea una vez y nunca se actualiza.
// No guarda referencia viva al StockRecord, solo sus coordenadas.
type LedgerEntry struct {
	ID              string
	ProductID       string
	WarehouseID     string
	LocationID      string
	QuantityChanged int64 // positivo entrada, negativo salida
	TransactionType string
	Timestamp       time.Time
	Reference       string
	Notes           string
	CreatedBy       string
}

// Key devuelve las coordenadas de stock a las que se refiere la entrada.
func (e LedgerEntry) Key() StockKey {
	return StockKey{ProductID: e.ProductID, WarehouseID: e.WarehouseID, LocationID: e.LocationID}
}

// LedgerFilter criterios de consulta del libro mayor. Campos vacíos no filtran.
type LedgerFilter struct {
	ProductID       string
	WarehouseID     string
	LocationID      *string
	Reference       string
	TransactionType string
	From, To        *time.Time
	Limit, Offset   int
}
