package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/internal/domain/repository"
	"github.com/jhoicas/stock-master/pkg/logger"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED + bloqueos de fila).
// Reintenta fn completa ante serialization_failure o deadlock_detected hasta maxRetries veces.
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	onRetry    func(reason string)
	log        *logger.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, maxRetries int, log *logger.Logger) *TxRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &TxRunner{pool: pool, maxRetries: maxRetries, onRetry: func(string) {}, log: log.Component("tx_runner")}
}

// OnRetry registra un callback por cada reintento (métricas).
func (r *TxRunner) OnRetry(fn func(reason string)) {
	if fn != nil {
		r.onRetry = fn
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Si COMMIT falla sin poder saber si se aplicó retorna un error que envuelve inventory.ErrCommitUncertain.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
	transferRepo repository.TransferRepository,
) error) error {
	attempt := 0
	op := func() error {
		attempt++
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return backoff.Permanent(err)
		}
		reason := retryReason(err)
		r.onRetry(reason)
		r.log.Debug().Err(err).Int("attempt", attempt).Str("reason", reason).Msg("reintentando transacción")
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxInterval = 200 * time.Millisecond
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxRetries)), ctx))
	if err != nil && isRetryable(err) {
		return fmt.Errorf("conflicto tras %d intentos: %v: %w", attempt, err, domain.ErrConflict)
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	repository.StockRepository, repository.LedgerRepository, repository.TransferRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockRepository(tx), NewLedgerRepository(tx), NewTransferRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		// Un conflicto reportado por el servidor implica rollback: es seguro repetir.
		if isRetryable(err) || errors.Is(err, pgx.ErrTxCommitRollback) {
			return err
		}
		return fmt.Errorf("commit transaction: %w: %w", inventory.ErrCommitUncertain, err)
	}
	return nil
}
