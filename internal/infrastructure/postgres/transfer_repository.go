package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados internos sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, product_id, source_warehouse_id, source_location_id,
	destination_warehouse_id, destination_location_id, quantity, status,
	transfer_date, completed_at, reference, notes, created_by`

func scanTransfer(row pgx.Row) (*entity.InternalTransfer, error) {
	var t entity.InternalTransfer
	err := row.Scan(&t.ID, &t.ProductID, &t.SourceWarehouseID, &t.SourceLocationID,
		&t.DestinationWarehouseID, &t.DestinationLocationID, &t.Quantity, &t.Status,
		&t.TransferDate, &t.CompletedAt, &t.Reference, &t.Notes, &t.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserta el traslado.
func (r *TransferRepo) Create(ctx context.Context, t *entity.InternalTransfer) error {
	query := `INSERT INTO internal_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ProductID, t.SourceWarehouseID, t.SourceLocationID,
		t.DestinationWarehouseID, t.DestinationLocationID, t.Quantity, t.Status,
		t.TransferDate, t.CompletedAt, t.Reference, t.Notes, t.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("traslado %s ya existe: %w", t.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traslado. Retorna (nil, nil) si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.InternalTransfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM internal_transfers WHERE id = $1`, id)
}

// GetForUpdate obtiene y bloquea el traslado hasta el fin de la tx.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.InternalTransfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM internal_transfers WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransferRepo) get(ctx context.Context, query, id string) (*entity.InternalTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		// Un id que no es UUID no puede existir en la tabla.
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// UpdateStatus persiste estado y fecha de completado.
func (r *TransferRepo) UpdateStatus(ctx context.Context, t *entity.InternalTransfer) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE internal_transfers SET status = $2, completed_at = $3 WHERE id = $1`,
		t.ID, t.Status, t.CompletedAt)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("traslado %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

// List lista traslados por fecha descendente.
func (r *TransferRepo) List(ctx context.Context, f entity.TransferFilter) ([]*entity.InternalTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM internal_transfers
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR product_id = $2)
		ORDER BY transfer_date DESC, id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.Status, f.ProductID, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.InternalTransfer, 0)
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
