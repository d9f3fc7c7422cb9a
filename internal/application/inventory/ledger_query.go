package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-master/internal/domain/inventory"
	"github.com/jhoicas/stock-master/internal/domain/repository"
)

// MaxReportEntries movimientos que entran como máximo en el reporte PDF.
const MaxReportEntries = 1000

// LedgerQuery consultas de stock y del libro mayor (sin bloqueos, lectura confirmada).
type LedgerQuery struct {
	stock       repository.StockRepository
	ledger      repository.LedgerRepository
	refs        *References
	reporter    ReportGenerator
	reportLimit int
}

// NewLedgerQuery construye el caso de uso. reporter puede ser nil si no se exponen reportes.
func NewLedgerQuery(stock repository.StockRepository, ledger repository.LedgerRepository, refs *References, reporter ReportGenerator) *LedgerQuery {
	return &LedgerQuery{stock: stock, ledger: ledger, refs: refs, reporter: reporter, reportLimit: MaxReportEntries}
}

// GetStock devuelve el registro de la clave (en cero si nunca tuvo movimientos).
func (q *LedgerQuery) GetStock(ctx context.Context, key entity.StockKey) (entity.StockRecord, error) {
	if key.ProductID == "" || key.WarehouseID == "" {
		return entity.StockRecord{}, domain.ErrInvalidInput
	}
	return q.stock.Get(ctx, key)
}

// ListStockByProduct lista el stock de un producto en todas sus bodegas/ubicaciones.
func (q *LedgerQuery) ListStockByProduct(ctx context.Context, productID string) ([]entity.StockRecord, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return q.stock.ListByProduct(ctx, productID)
}

// ListLedger lista entradas del libro mayor, más recientes primero.
func (q *LedgerQuery) ListLedger(ctx context.Context, f entity.LedgerFilter) ([]entity.LedgerEntry, error) {
	if f.TransactionType != "" && !entity.IsValidTransactionType(f.TransactionType) {
		return nil, domain.ErrInvalidInput
	}
	f.Limit, f.Offset = page(f.Limit, f.Offset)
	return q.ledger.List(ctx, f)
}

// Reconciliation compara el registro materializado con lo reconstruido desde el libro.
type Reconciliation struct {
	Record     entity.StockRecord
	Ledger     domaininv.Balance
	Consistent bool
}

// Reconcile reconstruye una clave a partir de todas sus entradas.
func (q *LedgerQuery) Reconcile(ctx context.Context, key entity.StockKey) (*Reconciliation, error) {
	rec, err := q.GetStock(ctx, key)
	if err != nil {
		return nil, err
	}
	loc := key.LocationID
	entries, err := q.ledger.List(ctx, entity.LedgerFilter{
		ProductID: key.ProductID, WarehouseID: key.WarehouseID, LocationID: &loc,
	})
	if err != nil {
		return nil, fmt.Errorf("listar libro mayor: %w", err)
	}
	b := domaininv.Replay(entries)
	return &Reconciliation{Record: rec, Ledger: b, Consistent: b.Matches(rec)}, nil
}

// LedgerReport genera el PDF de auditoría de un producto. Si hay más movimientos que
// el límite del reporte se incluyen los primeros y el reporte lo indica.
func (q *LedgerQuery) LedgerReport(ctx context.Context, productID string) ([]byte, error) {
	if q.reporter == nil {
		return nil, fmt.Errorf("reportes deshabilitados: %w", domain.ErrInvalidInput)
	}
	product, err := q.refs.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	stock, err := q.stock.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	// Uno de más para saber si hay truncamiento.
	entries, err := q.ledger.List(ctx, entity.LedgerFilter{ProductID: productID, Limit: q.reportLimit + 1})
	if err != nil {
		return nil, err
	}
	truncated := len(entries) > q.reportLimit
	if truncated {
		entries = entries[:q.reportLimit]
	}
	return q.reporter.GenerateLedgerReport(ctx, LedgerReportData{
		Product: product, Stock: stock, Entries: entries, Truncated: truncated,
	})
}
