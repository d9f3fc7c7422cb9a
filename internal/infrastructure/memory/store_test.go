package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/internal/domain/repository"
)

var (
	k1 = entity.StockKey{ProductID: "P", WarehouseID: "W1"}
	k2 = entity.StockKey{ProductID: "P", WarehouseID: "W2"}
)

func TestRun_ErrorDescartaEscrituras(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.Run(ctx, func(st repository.StockRepository, l repository.LedgerRepository, _ repository.TransferRepository) error {
		_, err := st.ApplyDelta(ctx, k1, entity.StockDelta{OnHand: 5, FreeToUse: 5})
		require.NoError(t, err)
		require.NoError(t, l.Append(ctx, &entity.LedgerEntry{ID: "e1", TransactionType: entity.TransactionIN, Reference: "R"}))
		return errors.New("abortar")
	})
	require.Error(t, err)

	rec, _ := s.Stock().Get(ctx, k1)
	assert.Equal(t, entity.ZeroStock(k1), rec)
	entries, _ := s.Ledger().List(ctx, entity.LedgerFilter{Reference: "R"})
	assert.Empty(t, entries)
}

func TestRun_LeeSusPropiasEscrituras(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.Run(ctx, func(st repository.StockRepository, l repository.LedgerRepository, _ repository.TransferRepository) error {
		if _, err := st.ApplyDelta(ctx, k1, entity.StockDelta{OnHand: 5, FreeToUse: 5}); err != nil {
			return err
		}
		rec, err := st.GetForUpdate(ctx, k1)
		require.NoError(t, err)
		assert.Equal(t, int64(5), rec.OnHand, "volver a bloquear en la misma tx no espera")
		if err := l.Append(ctx, &entity.LedgerEntry{ID: "e1", TransactionType: entity.TransactionOUT, Reference: "R"}); err != nil {
			return err
		}
		require.NoError(t, l.ClaimReference(ctx, entity.ReferenceScopeDelivery, "R"))
		assert.ErrorIs(t, l.ClaimReference(ctx, entity.ReferenceScopeDelivery, "R"), domain.ErrAlreadyCompleted)
		return nil
	})
	require.NoError(t, err)
}

// ─── ClaimReference ──────────────────────────────────────────────────────────

func TestClaimReference_RollbackLiberaLaReferencia(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.Run(ctx, func(_ repository.StockRepository, l repository.LedgerRepository, _ repository.TransferRepository) error {
		require.NoError(t, l.ClaimReference(ctx, entity.ReferenceScopeDelivery, "R"))
		return errors.New("abortar")
	})
	require.Error(t, err)

	require.NoError(t, s.Ledger().ClaimReference(ctx, entity.ReferenceScopeDelivery, "R"))
	assert.ErrorIs(t, s.Ledger().ClaimReference(ctx, entity.ReferenceScopeDelivery, "R"), domain.ErrAlreadyCompleted)
	assert.NoError(t, s.Ledger().ClaimReference(ctx, "OTRO", "R"), "cada scope es independiente")
}

func TestApplyDelta_RechazaNegativos(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.Stock().ApplyDelta(ctx, k1, entity.StockDelta{OnHand: -1, FreeToUse: -1})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	rec, _ := s.Stock().Get(ctx, k1)
	assert.Equal(t, int64(0), rec.Version)
}

func TestLock_ClavesDistintasNoSeBloquean(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	holding := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = s.Run(ctx, func(st repository.StockRepository, _ repository.LedgerRepository, _ repository.TransferRepository) error {
			_, err := st.GetForUpdate(ctx, k1)
			close(holding)
			<-done
			return err
		})
	}()
	<-holding

	_, err := s.Stock().ApplyDelta(ctx, k2, entity.StockDelta{OnHand: 1, FreeToUse: 1})
	close(done)
	require.NoError(t, err)
}

func TestLock_MismaClaveEsperaYRespetaContexto(t *testing.T) {
	s := NewStore()
	holding := make(chan struct{})
	done := make(chan struct{})
	defer close(done)

	go func() {
		_ = s.Run(context.Background(), func(st repository.StockRepository, _ repository.LedgerRepository, _ repository.TransferRepository) error {
			_, err := st.GetForUpdate(context.Background(), k1)
			close(holding)
			<-done
			return err
		})
	}()
	<-holding

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.Stock().ApplyDelta(ctx, k1, entity.StockDelta{OnHand: 1, FreeToUse: 1})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTransfers_CrearDuplicadoEsConflicto(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	tr := &entity.InternalTransfer{ID: "t1", Status: entity.TransferStatusPending, TransferDate: time.Now()}

	require.NoError(t, s.Transfers().Create(ctx, tr))
	assert.ErrorIs(t, s.Transfers().Create(ctx, tr), domain.ErrConflict)

	got, err := s.Transfers().GetByID(ctx, "t1")
	require.NoError(t, err)
	got.Status = entity.TransferStatusCompleted
	again, _ := s.Transfers().GetByID(ctx, "t1")
	assert.Equal(t, entity.TransferStatusPending, again.Status, "las lecturas devuelven copias")

	missing, err := s.Transfers().GetByID(ctx, "t2")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLedger_ListPaginaDeMasRecienteAMasAntigua(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Ledger().Append(ctx, &entity.LedgerEntry{
			ID: id, ProductID: "P", TransactionType: entity.TransactionIN,
			QuantityChanged: 1, Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := s.Ledger().List(ctx, entity.LedgerFilter{ProductID: "P", Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}
