package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo libro mayor de stock sobre PostgreSQL. Solo INSERT: las entradas nunca se actualizan.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta una entrada.
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO stock_ledger (id, product_id, warehouse_id, location_id, quantity_changed,
			transaction_type, "timestamp", reference, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ProductID, e.WarehouseID, e.LocationID, e.QuantityChanged,
		e.TransactionType, e.Timestamp, e.Reference, e.Notes, e.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// List consulta entradas con filtros opcionales, más recientes primero.
func (r *LedgerRepo) List(ctx context.Context, f entity.LedgerFilter) ([]entity.LedgerEntry, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.LocationID != nil {
		add("location_id = $%d", *f.LocationID)
	}
	if f.Reference != "" {
		add("reference = $%d", f.Reference)
	}
	if f.TransactionType != "" {
		add("transaction_type = $%d", f.TransactionType)
	}
	if f.From != nil {
		add(`"timestamp" >= $%d`, *f.From)
	}
	if f.To != nil {
		add(`"timestamp" <= $%d`, *f.To)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, product_id, warehouse_id, location_id, quantity_changed,
		transaction_type, "timestamp", reference, notes, created_by
		FROM stock_ledger`)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(` ORDER BY "timestamp" DESC, id`)
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.LedgerEntry, error) {
		var e entity.LedgerEntry
		err := row.Scan(&e.ID, &e.ProductID, &e.WarehouseID, &e.LocationID, &e.QuantityChanged,
			&e.TransactionType, &e.Timestamp, &e.Reference, &e.Notes, &e.CreatedBy)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}
	return entries, nil
}

// ClaimReference inserta (scope, reference) en applied_references. Si otra tx ya la insertó
// sin confirmar, el INSERT espera su commit o rollback.
func (r *LedgerRepo) ClaimReference(ctx context.Context, scope, reference string) error {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO applied_references (scope, reference) VALUES ($1, $2)
		ON CONFLICT (scope, reference) DO NOTHING`, scope, reference)
	if err != nil {
		return fmt.Errorf("claim reference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("referencia %s: %w", reference, domain.ErrAlreadyCompleted)
	}
	return nil
}
