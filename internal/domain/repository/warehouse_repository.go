package repository

import (
	"context"

	"github.com/jhoicas/stock-master/internal/domain/entity"
)

// WarehouseRepository consulta de bodegas. Retorna (nil, nil) si no existe.
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
}

// LocationRepository consulta de ubicaciones. Retorna (nil, nil) si no existe.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
}
