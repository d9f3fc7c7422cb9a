package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/internal/domain/entity"
)

func TestFormatQty(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		25000:    "25.000",
		1000000:  "1.000.000",
		-30:      "-30",
		-1234567: "-1.234.567",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatQty(in))
	}
}

func TestGenerateLedgerReport_ProducePDF(t *testing.T) {
	g := NewLedgerReportGenerator()
	ts := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

	out, err := g.GenerateLedgerReport(context.Background(), inventory.LedgerReportData{
		Product: &entity.Product{ID: "P", SKU: "SKU-P", Name: "Tornillo 1/4"},
		Stock:   []entity.StockRecord{{StockKey: entity.StockKey{ProductID: "P", WarehouseID: "W1"}, OnHand: 70, FreeToUse: 70}},
		Entries: []entity.LedgerEntry{
			{ProductID: "P", WarehouseID: "W1", QuantityChanged: -30, TransactionType: entity.TransactionOUT, Timestamp: ts, Reference: "ENT-1"},
			{ProductID: "P", WarehouseID: "W1", QuantityChanged: 100, TransactionType: entity.TransactionIN, Timestamp: ts},
		},
		Truncated: true,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestFooterStatus(t *testing.T) {
	entries := []entity.LedgerEntry{
		{QuantityChanged: 100, TransactionType: entity.TransactionIN},
		{QuantityChanged: -30, TransactionType: entity.TransactionOUT},
	}

	status, color := footerStatus(70, entries, false)
	assert.Equal(t, "Libro y existencias coinciden", status)
	assert.Equal(t, colorPrimary, color)

	status, color = footerStatus(50, entries, false)
	assert.Equal(t, "Diferencia entre libro y existencias", status)
	assert.Equal(t, colorAlert, color)

	status, color = footerStatus(70, entries, true)
	assert.Contains(t, status, "Libro truncado")
	assert.Contains(t, status, "primeros 2 movimientos")
	assert.Equal(t, colorAlert, color)
}
