package repository

import (
	"context"

	"github.com/jhoicas/stock-master/internal/domain/entity"
)

// TransferRepository puerto de persistencia para traslados internos.
// GetByID y GetForUpdate retornan (nil, nil) si no existe.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.InternalTransfer) error
	GetByID(ctx context.Context, id string) (*entity.InternalTransfer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.InternalTransfer, error)
	UpdateStatus(ctx context.Context, t *entity.InternalTransfer) error
	List(ctx context.Context, f entity.TransferFilter) ([]*entity.InternalTransfer, error)
}
