package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/internal/domain/repository"
)

// References valida contra los directorios externos que producto, bodega y ubicación existan.
type References struct {
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	locations  repository.LocationRepository
}

// NewReferences construye el validador de referencias.
func NewReferences(
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	locations repository.LocationRepository,
) *References {
	return &References{products: products, warehouses: warehouses, locations: locations}
}

// Product obtiene el producto o ErrNotFound.
func (r *References) Product(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("consultar producto %s: %w", id, err)
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// CheckKey verifica producto, bodega y, si viene, que la ubicación pertenezca a la bodega.
func (r *References) CheckKey(ctx context.Context, key entity.StockKey) error {
	if _, err := r.Product(ctx, key.ProductID); err != nil {
		return err
	}
	wh, err := r.warehouses.GetByID(ctx, key.WarehouseID)
	if err != nil {
		return fmt.Errorf("consultar bodega %s: %w", key.WarehouseID, err)
	}
	if wh == nil {
		return fmt.Errorf("bodega %s: %w", key.WarehouseID, domain.ErrNotFound)
	}
	if key.LocationID == "" {
		return nil
	}
	loc, err := r.locations.GetByID(ctx, key.LocationID)
	if err != nil {
		return fmt.Errorf("consultar ubicación %s: %w", key.LocationID, err)
	}
	if loc == nil || loc.WarehouseID != key.WarehouseID {
		return fmt.Errorf("ubicación %s en bodega %s: %w", key.LocationID, key.WarehouseID, domain.ErrNotFound)
	}
	return nil
}
