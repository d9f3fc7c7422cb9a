package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/internal/domain/entity"
)

func delivery(ref string, items ...entity.DeliveryItem) entity.Delivery {
	return entity.Delivery{Reference: ref, WarehouseID: whW1, LocationID: locL1, Items: items}
}

func TestFulfillDelivery_DescuentaCadaItem(t *testing.T) {
	f := newFixture(t)
	kp, kq := key(prodP, whW1, locL1), key(prodQ, whW1, locL1)
	f.seed(t, kp, 10)
	f.seed(t, kq, 10)

	recs, err := f.delivery.FulfillDelivery(context.Background(), delivery("ENT-1",
		entity.DeliveryItem{ProductID: prodP, Quantity: 3},
		entity.DeliveryItem{ProductID: prodQ, Quantity: 8},
	), user)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, int64(7), f.stock(t, kp).FreeToUse)
	assert.Equal(t, int64(2), f.stock(t, kq).FreeToUse)
	out := f.entries(t, kp)
	require.Len(t, out, 1)
	assert.Equal(t, entity.TransactionOUT, out[0].TransactionType)
	assert.Equal(t, "ENT-1", out[0].Reference)
}

func TestFulfillDelivery_TodoONada(t *testing.T) {
	f := newFixture(t)
	kp, kq := key(prodP, whW1, locL1), key(prodQ, whW1, locL1)
	f.seed(t, kp, 10)
	f.seed(t, kq, 1)

	_, err := f.delivery.FulfillDelivery(context.Background(), delivery("ENT-2",
		entity.DeliveryItem{ProductID: prodP, Quantity: 3},
		entity.DeliveryItem{ProductID: prodQ, Quantity: 5},
	), user)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.stock(t, kp).FreeToUse, "la primera línea no debe quedar aplicada")
	assert.Empty(t, f.entries(t, kp))
	assert.Empty(t, f.entries(t, kq))
}

func TestFulfillDelivery_ReferenciaRepetidaNoDescuentaDosVeces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	kp := key(prodP, whW1, locL1)
	f.seed(t, kp, 10)
	d := delivery("ENT-3", entity.DeliveryItem{ProductID: prodP, Quantity: 4})

	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, repeated int
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.delivery.FulfillDelivery(ctx, d, user)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, domain.ErrAlreadyCompleted) {
				repeated++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 4, repeated)
	assert.Equal(t, int64(6), f.stock(t, kp).FreeToUse)
	assert.Len(t, f.entries(t, kp), 1)
}

func TestFulfillDelivery_SalidaManualConMismaReferenciaNoBloqueaEntrega(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	kp := key(prodP, whW1, locL1)
	f.seed(t, kp, 100)
	manual := input(kp, 1)
	manual.Reference = "DEL-42"
	_, err := f.engine.Decrease(ctx, manual)
	require.NoError(t, err)

	recs, err := f.delivery.FulfillDelivery(ctx, delivery("DEL-42", entity.DeliveryItem{ProductID: prodP, Quantity: 20}), user)

	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(79), f.stock(t, kp).FreeToUse)
	assert.Len(t, f.entries(t, kp), 2)
}

func TestFulfillDelivery_ReferenciaRepetidaConProductosDistintos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	kp, kq := key(prodP, whW1, locL1), key(prodQ, whW1, locL1)
	f.seed(t, kp, 10)
	f.seed(t, kq, 10)
	// Misma referencia, ítems sin claves en común: no comparten bloqueos de stock.
	deliveries := []entity.Delivery{
		delivery("ENT-5", entity.DeliveryItem{ProductID: prodP, Quantity: 2}),
		delivery("ENT-5", entity.DeliveryItem{ProductID: prodQ, Quantity: 3}),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, repeated int
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(d entity.Delivery) {
			defer wg.Done()
			_, err := f.delivery.FulfillDelivery(ctx, d, user)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, domain.ErrAlreadyCompleted) {
				repeated++
			}
		}(deliveries[i%2])
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 9, repeated)
	applied := len(f.entries(t, kp)) + len(f.entries(t, kq))
	assert.Equal(t, 1, applied, "solo una de las dos variantes queda registrada")
	free := f.stock(t, kp).FreeToUse + f.stock(t, kq).FreeToUse
	assert.Contains(t, []int64{18, 17}, free)
}

func TestFulfillDelivery_ValidaEntrada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   entity.Delivery
		want error
	}{
		{"sin referencia", delivery("", entity.DeliveryItem{ProductID: prodP, Quantity: 1}), domain.ErrInvalidInput},
		{"sin ítems", delivery("ENT-4"), domain.ErrInvalidInput},
		{"cantidad cero", delivery("ENT-4", entity.DeliveryItem{ProductID: prodP}), domain.ErrInvalidInput},
		{"producto inexistente", delivery("ENT-4", entity.DeliveryItem{ProductID: "X", Quantity: 1}), domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.delivery.FulfillDelivery(ctx, tt.in, user)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
