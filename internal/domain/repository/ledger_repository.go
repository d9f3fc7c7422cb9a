package repository

import (
	"context"

	"github.com/jhoicas/stock-master/internal/domain/entity"
)

// LedgerRepository puerto del libro mayor de stock (solo inserción).
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	List(ctx context.Context, f entity.LedgerFilter) ([]entity.LedgerEntry, error)
	// ClaimReference registra que la referencia ya se aplicó dentro de scope, en la misma
	// transacción que los movimientos. Retorna domain.ErrAlreadyCompleted si ya estaba registrada.
	// Una transacción concurrente con la misma referencia espera a que la primera termine.
	ClaimReference(ctx context.Context, scope, reference string) error
}
