package kafka

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/pkg/logger"
)

var _ inventory.EventPublisher = (*BreakerPublisher)(nil)

// BreakerConfig umbrales del circuit breaker del publicador.
type BreakerConfig struct {
	FailureThreshold uint32        // fallos consecutivos para abrir
	Timeout          time.Duration // tiempo abierto antes de pasar a semiabierto
}

// BreakerPublisher protege un EventPublisher con un circuit breaker. Con el circuito abierto
// la publicación falla al instante y el commit no espera al broker caído.
type BreakerPublisher struct {
	next inventory.EventPublisher
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerPublisher envuelve next. Valores cero en cfg toman 5 fallos y 30s.
func NewBreakerPublisher(next inventory.EventPublisher, cfg BreakerConfig, log *logger.Logger) *BreakerPublisher {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("kafka_breaker")
	return &BreakerPublisher{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "ledger-publisher",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= cfg.FailureThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
					Msg("cambio de estado del circuit breaker")
			},
		}),
	}
}

// PublishLedgerEntries publica a través del circuito.
func (p *BreakerPublisher) PublishLedgerEntries(ctx context.Context, entries []entity.LedgerEntry) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.next.PublishLedgerEntries(ctx, entries)
	})
	return err
}
