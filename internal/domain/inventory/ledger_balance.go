package inventory

import "github.com/jhoicas/stock-master/internal/domain/entity"

// Balance cantidades reconstruidas a partir del libro mayor.
type Balance struct {
	OnHand   int64
	Reserved int64
}

// FreeToUse existencia no comprometida.
func (b Balance) FreeToUse() int64 { return b.OnHand - b.Reserved }

// Replay reconstruye las cantidades de una clave sumando sus entradas en orden cualquiera.
// IN/OUT/TRANSFER_* mueven la existencia; RESERVE/RELEASE solo lo reservado.
func Replay(entries []entity.LedgerEntry) Balance {
	var b Balance
	for _, e := range entries {
		if entity.AffectsOnHand(e.TransactionType) {
			b.OnHand += e.QuantityChanged
			continue
		}
		b.Reserved += e.QuantityChanged
	}
	return b
}

// Matches indica si el registro materializado coincide con lo reconstruido.
func (b Balance) Matches(s entity.StockRecord) bool {
	return s.OnHand == b.OnHand && s.Reserved == b.Reserved && s.FreeToUse == b.FreeToUse()
}
