package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `product_id, warehouse_id, location_id, on_hand, reserved, free_to_use, version, updated_at`

func scanStock(row pgx.Row) (entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(&s.ProductID, &s.WarehouseID, &s.LocationID,
		&s.OnHand, &s.Reserved, &s.FreeToUse, &s.Version, &s.UpdatedAt)
	return s, err
}

// Get obtiene el stock actual de la clave; si no hay fila devuelve el registro en cero.
func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND warehouse_id = $2 AND location_id = $3`
	s, err := scanStock(r.q.QueryRow(ctx, query, key.ProductID, key.WarehouseID, key.LocationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.ZeroStock(key), nil
		}
		return entity.StockRecord{}, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Si no existe la crea en cero primero:
// FOR UPDATE sobre una fila inexistente no bloquea nada.
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (entity.StockRecord, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (product_id, warehouse_id, location_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, warehouse_id, location_id) DO NOTHING`,
		key.ProductID, key.WarehouseID, key.LocationID)
	if err != nil {
		return entity.StockRecord{}, fmt.Errorf("ensure stock row: %w", err)
	}
	query := `SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND warehouse_id = $2 AND location_id = $3
		FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, key.ProductID, key.WarehouseID, key.LocationID))
	if err != nil {
		return entity.StockRecord{}, fmt.Errorf("get stock for update: %w", err)
	}
	return s, nil
}

// ApplyDelta lee con bloqueo, valida y escribe. Debe ejecutarse dentro de una tx.
func (r *StockRepo) ApplyDelta(ctx context.Context, key entity.StockKey, d entity.StockDelta) (entity.StockRecord, error) {
	cur, err := r.GetForUpdate(ctx, key)
	if err != nil {
		return entity.StockRecord{}, err
	}
	next, err := cur.Apply(d, time.Now().UTC())
	if err != nil {
		return entity.StockRecord{}, err
	}
	_, err = r.q.Exec(ctx, `
		UPDATE stock
		SET on_hand = $4, reserved = $5, free_to_use = $6, version = $7, updated_at = $8
		WHERE product_id = $1 AND warehouse_id = $2 AND location_id = $3`,
		key.ProductID, key.WarehouseID, key.LocationID,
		next.OnHand, next.Reserved, next.FreeToUse, next.Version, next.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return entity.StockRecord{}, fmt.Errorf("update stock %s: %w", key, domain.ErrInsufficientStock)
		}
		return entity.StockRecord{}, fmt.Errorf("update stock: %w", err)
	}
	return next, nil
}

// ListByProduct lista el stock de un producto en todas sus bodegas y ubicaciones.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1
		ORDER BY warehouse_id, location_id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	out := make([]entity.StockRecord, 0)
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
