package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/internal/domain/inventory"
)

func TestReplay_SumaExistenciaYReservado(t *testing.T) {
	entries := []entity.LedgerEntry{
		{TransactionType: entity.TransactionIN, QuantityChanged: 100},
		{TransactionType: entity.TransactionOUT, QuantityChanged: -30},
		{TransactionType: entity.TransactionTransferOUT, QuantityChanged: -5},
		{TransactionType: entity.TransactionReserve, QuantityChanged: 20},
		{TransactionType: entity.TransactionRelease, QuantityChanged: -8},
	}

	b := inventory.Replay(entries)

	assert.Equal(t, int64(65), b.OnHand)
	assert.Equal(t, int64(12), b.Reserved)
	assert.Equal(t, int64(53), b.FreeToUse())
	assert.True(t, b.Matches(entity.StockRecord{OnHand: 65, Reserved: 12, FreeToUse: 53}))
	assert.False(t, b.Matches(entity.StockRecord{OnHand: 65, Reserved: 0, FreeToUse: 65}))
}

func TestReplay_SinEntradas(t *testing.T) {
	b := inventory.Replay(nil)
	assert.Zero(t, b.OnHand)
	assert.True(t, b.Matches(entity.ZeroStock(entity.StockKey{ProductID: "p"})))
}
