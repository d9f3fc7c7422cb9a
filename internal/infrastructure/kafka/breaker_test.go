package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-master/internal/domain/entity"
)

type failingPublisher struct{ calls int }

func (f *failingPublisher) PublishLedgerEntries(context.Context, []entity.LedgerEntry) error {
	f.calls++
	return errors.New("broker caído")
}

func TestBreakerPublisher_AbreTrasFallosConsecutivos(t *testing.T) {
	inner := &failingPublisher{}
	p := NewBreakerPublisher(inner, BreakerConfig{FailureThreshold: 3, Timeout: time.Minute}, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.Error(t, p.PublishLedgerEntries(ctx, nil))
	}
	err := p.PublishLedgerEntries(ctx, nil)

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.calls, "con el circuito abierto no se llama al broker")
}
