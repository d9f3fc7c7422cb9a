package repository

import (
	"context"

	"github.com/jhoicas/stock-master/internal/domain/entity"
)

// ProductRepository consulta de productos (el CRUD vive fuera de este servicio).
// Retorna (nil, nil) si no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
