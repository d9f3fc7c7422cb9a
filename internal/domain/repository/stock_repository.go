package repository

import (
	"context"

	"github.com/jhoicas/stock-master/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por producto+bodega+ubicación.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve el registro o uno en cero si no existe (nunca ErrNotFound).
	Get(ctx context.Context, key entity.StockKey) (entity.StockRecord, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción, creándola en cero si no existe.
	GetForUpdate(ctx context.Context, key entity.StockKey) (entity.StockRecord, error)
	// ApplyDelta lee con bloqueo, aplica d y persiste. ErrInsufficientStock si algún campo quedaría negativo.
	ApplyDelta(ctx context.Context, key entity.StockKey, d entity.StockDelta) (entity.StockRecord, error)
	ListByProduct(ctx context.Context, productID string) ([]entity.StockRecord, error)
}
