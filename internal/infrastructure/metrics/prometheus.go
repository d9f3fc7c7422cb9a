package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stock-master/internal/application/inventory"
)

var _ inventory.Metrics = (*Metrics)(nil)

// Metrics contadores del motor de stock y de la capa HTTP sobre un registry propio.
type Metrics struct {
	registry *prometheus.Registry

	movementsApplied  *prometheus.CounterVec
	quantityMoved     *prometheus.CounterVec
	movementsRejected *prometheus.CounterVec
	transfersDone     prometheus.Counter
	partialTransfers  prometheus.Counter
	txRetries         *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New crea las métricas bajo el namespace dado (p. ej. "stock").
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		movementsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "movements_applied_total",
			Help: "Movimientos confirmados por tipo de transacción",
		}, []string{"type"}),
		quantityMoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "quantity_moved_total",
			Help: "Unidades movidas por tipo de transacción",
		}, []string{"type"}),
		movementsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "movements_rejected_total",
			Help: "Operaciones rechazadas por motivo",
		}, []string{"operation", "reason"}),
		transfersDone: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "transfers_completed_total",
			Help: "Traslados internos completados",
		}),
		partialTransfers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "transfers_unknown_state_total",
			Help: "Traslados cuyo estado no se pudo determinar tras el commit (requiere revisión)",
		}),
		txRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "tx_retries_total",
			Help: "Reintentos de transacción por conflicto de concurrencia",
		}, []string{"reason"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "Total de peticiones HTTP",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	registry.MustRegister(
		m.movementsApplied, m.quantityMoved, m.movementsRejected,
		m.transfersDone, m.partialTransfers, m.txRetries,
		m.httpRequests, m.httpDuration,
	)
	return m
}

func (m *Metrics) MovementApplied(txType string, qty int64) {
	m.movementsApplied.WithLabelValues(txType).Inc()
	m.quantityMoved.WithLabelValues(txType).Add(float64(qty))
}

func (m *Metrics) MovementRejected(operation, reason string) {
	m.movementsRejected.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) TransferCompleted() { m.transfersDone.Inc() }

func (m *Metrics) PartialTransfer() { m.partialTransfers.Inc() }

// TxRetry se conecta a postgres.TxRunner.OnRetry.
func (m *Metrics) TxRetry(reason string) { m.txRetries.WithLabelValues(reason).Inc() }

// ObserveHTTP registra una petición atendida.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
