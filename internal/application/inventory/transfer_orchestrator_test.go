package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/internal/domain/repository"
	"github.com/jhoicas/stock-master/internal/infrastructure/memory"
)

func transferInput(qty int64) inventory.CreateTransferInput {
	return inventory.CreateTransferInput{
		ProductID:              prodP,
		SourceWarehouseID:      whW1,
		SourceLocationID:       locL1,
		DestinationWarehouseID: whW2,
		DestinationLocationID:  locL2,
		Quantity:               qty,
		UserID:                 user,
	}
}

func TestTransfer_CompletarMueveStockYEscribeDosEntradas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src, dst := key(prodP, whW1, locL1), key(prodP, whW2, locL2)
	f.seed(t, src, 5)

	tr, err := f.transfers.Create(ctx, transferInput(5))
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, tr.Status)
	assert.Equal(t, int64(5), f.stock(t, src).FreeToUse, "crear no mueve stock")

	done, err := f.transfers.Complete(ctx, tr.ID, user)
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.Equal(t, int64(0), f.stock(t, src).FreeToUse)
	assert.Equal(t, int64(5), f.stock(t, dst).FreeToUse)

	out := f.entries(t, src)
	require.Len(t, out, 1)
	assert.Equal(t, entity.TransactionTransferOUT, out[0].TransactionType)
	assert.Equal(t, int64(-5), out[0].QuantityChanged)
	in := f.entries(t, dst)
	require.Len(t, in, 1)
	assert.Equal(t, entity.TransactionTransferIN, in[0].TransactionType)
	assert.Equal(t, int64(5), in[0].QuantityChanged)
	assert.Equal(t, tr.Reference, in[0].Reference)
}

func TestTransfer_ConservaLaExistenciaTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src, dst := key(prodP, whW1, locL1), key(prodP, whW2, locL2)
	f.seed(t, src, 40)
	f.seed(t, dst, 3)
	before := f.stock(t, src).OnHand + f.stock(t, dst).OnHand

	tr, err := f.transfers.Create(ctx, transferInput(25))
	require.NoError(t, err)
	_, err = f.transfers.Complete(ctx, tr.ID, user)
	require.NoError(t, err)

	assert.Equal(t, before, f.stock(t, src).OnHand+f.stock(t, dst).OnHand)
}

func TestTransfer_CompletarDosVecesEsIdempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src, dst := key(prodP, whW1, locL1), key(prodP, whW2, locL2)
	f.seed(t, src, 10)

	tr, err := f.transfers.Create(ctx, transferInput(4))
	require.NoError(t, err)
	_, err = f.transfers.Complete(ctx, tr.ID, user)
	require.NoError(t, err)
	srcAfter, dstAfter := f.stock(t, src), f.stock(t, dst)

	again, err := f.transfers.Complete(ctx, tr.ID, user)
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusCompleted, again.Status)
	assert.Equal(t, srcAfter, f.stock(t, src))
	assert.Equal(t, dstAfter, f.stock(t, dst))
	assert.Len(t, f.entries(t, src), 1)
	assert.Len(t, f.entries(t, dst), 1)
}

func TestTransfer_CompletarConcurrenteMueveUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src, dst := key(prodP, whW1, locL1), key(prodP, whW2, locL2)
	f.seed(t, src, 10)
	tr, err := f.transfers.Create(ctx, transferInput(4))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.transfers.Complete(ctx, tr.ID, user)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(6), f.stock(t, src).OnHand)
	assert.Equal(t, int64(4), f.stock(t, dst).OnHand)
	assert.Len(t, f.entries(t, src), 1)
}

func TestTransfer_TrasladosCruzadosNoSeBloquean(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := key(prodP, whW1, locL1), key(prodP, whW2, locL2)
	f.seed(t, a, 100)
	f.seed(t, b, 100)

	ab := transferInput(1)
	ba := inventory.CreateTransferInput{
		ProductID: prodP, SourceWarehouseID: whW2, SourceLocationID: locL2,
		DestinationWarehouseID: whW1, DestinationLocationID: locL1, Quantity: 1, UserID: user,
	}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		in := ab
		if i%2 == 1 {
			in = ba
		}
		tr, err := f.transfers.Create(ctx, in)
		require.NoError(t, err)
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.transfers.Complete(ctx, id, user)
			assert.NoError(t, err)
		}(tr.ID)
	}
	wg.Wait()

	assert.Equal(t, int64(200), f.stock(t, a).OnHand+f.stock(t, b).OnHand)
	assert.Equal(t, int64(100), f.stock(t, a).OnHand)
}

func TestTransfer_StockInsuficienteLoDejaPendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src, dst := key(prodP, whW1, locL1), key(prodP, whW2, locL2)
	f.seed(t, src, 2)

	tr, err := f.transfers.Create(ctx, transferInput(5))
	require.NoError(t, err)
	_, err = f.transfers.Complete(ctx, tr.ID, user)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.transfers.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, got.Status)
	assert.Equal(t, int64(2), f.stock(t, src).FreeToUse)
	assert.Equal(t, int64(0), f.stock(t, dst).OnHand)
	assert.Empty(t, f.entries(t, src))
	assert.Empty(t, f.entries(t, dst))
}

func TestTransfer_CrearValidaEntrada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	same := transferInput(1)
	same.DestinationWarehouseID, same.DestinationLocationID = whW1, locL1
	badLoc := transferInput(1)
	badLoc.DestinationLocationID = locL1

	tests := []struct {
		name string
		in   inventory.CreateTransferInput
		want error
	}{
		{"cantidad cero", transferInput(0), domain.ErrInvalidInput},
		{"origen igual a destino", same, domain.ErrInvalidInput},
		{"ubicación destino ajena", badLoc, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.transfers.Create(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	list, err := f.transfers.List(ctx, entity.TransferFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransfer_InexistenteDevuelveNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.transfers.Complete(context.Background(), "no-existe", user)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.transfers.Get(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.transfers.Complete(context.Background(), uuid.NewString(), user)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransfer_ListFiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(prodP, whW1, locL1), 10)

	t1, err := f.transfers.Create(ctx, transferInput(1))
	require.NoError(t, err)
	_, err = f.transfers.Create(ctx, transferInput(2))
	require.NoError(t, err)
	_, err = f.transfers.Complete(ctx, t1.ID, user)
	require.NoError(t, err)

	pending, err := f.transfers.List(ctx, entity.TransferFilter{Status: entity.TransferStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].Quantity)

	_, err = f.transfers.List(ctx, entity.TransferFilter{Status: "CANCELLED"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Commit incierto
// ──────────────────────────────────────────────────────────────────────────────

// uncertainRunner delega en el almacén y luego informa que el commit quedó en duda.
// applied decide si la transacción se confirma de verdad antes de devolver el error.
type uncertainRunner struct {
	store   *memory.Store
	applied bool
}

func (r uncertainRunner) Run(ctx context.Context, fn func(
	repository.StockRepository, repository.LedgerRepository, repository.TransferRepository,
) error) error {
	if !r.applied {
		return inventory.ErrCommitUncertain
	}
	if err := r.store.Run(ctx, fn); err != nil {
		return err
	}
	return inventory.ErrCommitUncertain
}

// brokenTransfers simula que la lectura de reconciliación también falla.
type brokenTransfers struct{ repository.TransferRepository }

func (brokenTransfers) GetByID(context.Context, string) (*entity.InternalTransfer, error) {
	return nil, errors.New("conexión perdida")
}

func TestTransfer_CommitInciertoSeReconcilia(t *testing.T) {
	ctx := context.Background()

	t.Run("aplicado se reporta completado", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, key(prodP, whW1, locL1), 5)
		tr, err := f.transfers.Create(ctx, transferInput(5))
		require.NoError(t, err)
		met := newCountingMetrics()
		orch := inventory.NewTransferOrchestrator(uncertainRunner{store: f.store, applied: true},
			f.store.Transfers(), f.refs, f.engine, met, nil)

		got, err := orch.Complete(ctx, tr.ID, user)

		require.NoError(t, err)
		assert.Equal(t, entity.TransferStatusCompleted, got.Status)
		assert.Equal(t, 1, met.done)
	})

	t.Run("no aplicado queda pendiente y es reintentable", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, key(prodP, whW1, locL1), 5)
		tr, err := f.transfers.Create(ctx, transferInput(5))
		require.NoError(t, err)
		orch := inventory.NewTransferOrchestrator(uncertainRunner{store: f.store},
			f.store.Transfers(), f.refs, f.engine, nil, nil)

		_, err = orch.Complete(ctx, tr.ID, user)

		assert.ErrorIs(t, err, domain.ErrConflict)
		_, err = f.transfers.Complete(ctx, tr.ID, user)
		assert.NoError(t, err)
	})

	t.Run("estado ilegible se marca como parcial", func(t *testing.T) {
		f := newFixture(t)
		met := newCountingMetrics()
		orch := inventory.NewTransferOrchestrator(uncertainRunner{store: f.store},
			brokenTransfers{f.store.Transfers()}, f.refs, f.engine, met, nil)

		_, err := orch.Complete(ctx, uuid.NewString(), user)

		assert.ErrorIs(t, err, domain.ErrPartialTransfer)
		assert.Equal(t, 1, met.partial)
	})
}
