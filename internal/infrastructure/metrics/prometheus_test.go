package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Contadores(t *testing.T) {
	m := New("stock")

	m.MovementApplied("OUT", 30)
	m.MovementApplied("OUT", 5)
	m.MovementRejected("OUT", "insufficient_stock")
	m.TransferCompleted()
	m.TxRetry("deadlock_detected")
	m.ObserveHTTP("POST", "/api/stock/decrease", 409, 3*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.movementsApplied.WithLabelValues("OUT")))
	assert.Equal(t, 35.0, testutil.ToFloat64(m.quantityMoved.WithLabelValues("OUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movementsRejected.WithLabelValues("OUT", "insufficient_stock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transfersDone))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.partialTransfers))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.txRetries.WithLabelValues("deadlock_detected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/stock/decrease", "409")))
}
