// Package memory implementa los puertos del motor de stock en memoria.
// Sirve para desarrollo local (STORE_DRIVER=memory) y para las pruebas de concurrencia.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store estado confirmado más una tabla de bloqueos por clave.
// Una transacción toma el bloqueo de cada fila que toca y lo suelta al terminar;
// claves distintas nunca se bloquean entre sí.
type Store struct {
	mu        sync.Mutex
	stock     map[entity.StockKey]entity.StockRecord
	ledger    []entity.LedgerEntry
	transfers map[string]entity.InternalTransfer
	claims    map[string]bool
	locks     map[string]chan struct{}

	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	locations  map[string]entity.Location

	now func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		stock:      make(map[entity.StockKey]entity.StockRecord),
		transfers:  make(map[string]entity.InternalTransfer),
		claims:     make(map[string]bool),
		locks:      make(map[string]chan struct{}),
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		locations:  make(map[string]entity.Location),
		now:        time.Now,
	}
}

// Run ejecuta fn con repositorios atados a una transacción en memoria.
// Las escrituras quedan en staging y solo se publican si fn retorna nil.
func (s *Store) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
	transferRepo repository.TransferRepository,
) error) error {
	tx := &memTx{
		s:         s,
		held:      make(map[string]chan struct{}),
		stock:     make(map[entity.StockKey]entity.StockRecord),
		transfers: make(map[string]entity.InternalTransfer),
		claims:    make(map[string]bool),
	}
	defer tx.release()

	if err := fn(stockTx{tx}, ledgerTx{tx}, transferTx{tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *Store) lockFor(name string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[name] = l
	}
	return l
}

// memTx estado de una transacción: bloqueos tomados y escrituras pendientes.
type memTx struct {
	s         *Store
	held      map[string]chan struct{}
	stock     map[entity.StockKey]entity.StockRecord
	ledger    []entity.LedgerEntry
	transfers map[string]entity.InternalTransfer
	claims    map[string]bool
}

// lock toma el bloqueo de una fila. Volver a pedirlo en la misma transacción no espera.
func (tx *memTx) lock(ctx context.Context, name string) error {
	if _, ok := tx.held[name]; ok {
		return nil
	}
	l := tx.s.lockFor(name)
	select {
	case l <- struct{}{}:
		tx.held[name] = l
		return nil
	case <-ctx.Done():
		return fmt.Errorf("esperando bloqueo %s: %w", name, ctx.Err())
	}
}

func (tx *memTx) release() {
	for _, l := range tx.held {
		<-l
	}
	tx.held = nil
}

func (tx *memTx) commit() {
	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()
	for k, rec := range tx.stock {
		tx.s.stock[k] = rec
	}
	for id, t := range tx.transfers {
		tx.s.transfers[id] = t
	}
	tx.s.ledger = append(tx.s.ledger, tx.ledger...)
	for k := range tx.claims {
		tx.s.claims[k] = true
	}
}

func (tx *memTx) readStock(key entity.StockKey) entity.StockRecord {
	if rec, ok := tx.stock[key]; ok {
		return rec
	}
	return tx.s.committedStock(key)
}

func (tx *memTx) readTransfer(id string) (entity.InternalTransfer, bool) {
	if t, ok := tx.transfers[id]; ok {
		return t, true
	}
	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()
	t, ok := tx.s.transfers[id]
	return t, ok
}

func (s *Store) committedStock(key entity.StockKey) entity.StockRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.stock[key]; ok {
		return rec
	}
	return entity.ZeroStock(key)
}

func stockLock(key entity.StockKey) string { return "stock:" + key.String() }
func transferLock(id string) string        { return "transfer:" + id }
func claimKey(scope, ref string) string    { return scope + "/" + ref }

// ---- stock dentro de tx ----

type stockTx struct{ tx *memTx }

func (r stockTx) Get(_ context.Context, key entity.StockKey) (entity.StockRecord, error) {
	return r.tx.readStock(key), nil
}

func (r stockTx) GetForUpdate(ctx context.Context, key entity.StockKey) (entity.StockRecord, error) {
	if err := r.tx.lock(ctx, stockLock(key)); err != nil {
		return entity.StockRecord{}, err
	}
	return r.tx.readStock(key), nil
}

func (r stockTx) ApplyDelta(ctx context.Context, key entity.StockKey, d entity.StockDelta) (entity.StockRecord, error) {
	cur, err := r.GetForUpdate(ctx, key)
	if err != nil {
		return entity.StockRecord{}, err
	}
	next, err := cur.Apply(d, r.tx.s.now())
	if err != nil {
		return entity.StockRecord{}, err
	}
	r.tx.stock[key] = next
	return next, nil
}

func (r stockTx) ListByProduct(_ context.Context, productID string) ([]entity.StockRecord, error) {
	return r.tx.s.listStock(productID), nil
}

// ---- libro mayor dentro de tx ----

type ledgerTx struct{ tx *memTx }

func (r ledgerTx) Append(_ context.Context, e *entity.LedgerEntry) error {
	if e.ID == "" || !entity.IsValidTransactionType(e.TransactionType) {
		return domain.ErrInvalidInput
	}
	r.tx.ledger = append(r.tx.ledger, *e)
	return nil
}

func (r ledgerTx) List(_ context.Context, f entity.LedgerFilter) ([]entity.LedgerEntry, error) {
	r.tx.s.mu.Lock()
	all := append(append([]entity.LedgerEntry(nil), r.tx.s.ledger...), r.tx.ledger...)
	r.tx.s.mu.Unlock()
	return filterLedger(all, f), nil
}

func (r ledgerTx) ClaimReference(ctx context.Context, scope, reference string) error {
	k := claimKey(scope, reference)
	if err := r.tx.lock(ctx, "claim:"+k); err != nil {
		return err
	}
	if r.tx.claims[k] || r.tx.s.claimed(k) {
		return fmt.Errorf("referencia %s: %w", reference, domain.ErrAlreadyCompleted)
	}
	r.tx.claims[k] = true
	return nil
}

// ---- traslados dentro de tx ----

type transferTx struct{ tx *memTx }

func (r transferTx) Create(_ context.Context, t *entity.InternalTransfer) error {
	if _, ok := r.tx.readTransfer(t.ID); ok {
		return fmt.Errorf("traslado %s ya existe: %w", t.ID, domain.ErrConflict)
	}
	r.tx.transfers[t.ID] = *t
	return nil
}

func (r transferTx) GetByID(_ context.Context, id string) (*entity.InternalTransfer, error) {
	t, ok := r.tx.readTransfer(id)
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r transferTx) GetForUpdate(ctx context.Context, id string) (*entity.InternalTransfer, error) {
	if err := r.tx.lock(ctx, transferLock(id)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r transferTx) UpdateStatus(_ context.Context, t *entity.InternalTransfer) error {
	if _, ok := r.tx.readTransfer(t.ID); !ok {
		return fmt.Errorf("traslado %s: %w", t.ID, domain.ErrNotFound)
	}
	r.tx.transfers[t.ID] = *t
	return nil
}

func (r transferTx) List(_ context.Context, f entity.TransferFilter) ([]*entity.InternalTransfer, error) {
	return r.tx.s.listTransfers(f), nil
}

// ---- consultas sobre el estado confirmado ----

func (s *Store) listStock(productID string) []entity.StockRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StockRecord, 0)
	for k, rec := range s.stock {
		if k.ProductID == productID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockKey.Less(out[j].StockKey) })
	return out
}

func (s *Store) claimed(k string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims[k]
}

func (s *Store) listTransfers(f entity.TransferFilter) []*entity.InternalTransfer {
	s.mu.Lock()
	out := make([]*entity.InternalTransfer, 0)
	for _, t := range s.transfers {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.ProductID != "" && t.ProductID != f.ProductID {
			continue
		}
		t := t
		out = append(out, &t)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransferDate.Equal(out[j].TransferDate) {
			return out[i].TransferDate.After(out[j].TransferDate)
		}
		return out[i].ID < out[j].ID
	})
	return window(out, f.Limit, f.Offset)
}

// filterLedger aplica el filtro y ordena de más reciente a más antigua.
func filterLedger(all []entity.LedgerEntry, f entity.LedgerFilter) []entity.LedgerEntry {
	out := make([]entity.LedgerEntry, 0)
	for i := len(all) - 1; i >= 0; i-- {
		e := all[i]
		switch {
		case f.ProductID != "" && e.ProductID != f.ProductID,
			f.WarehouseID != "" && e.WarehouseID != f.WarehouseID,
			f.LocationID != nil && e.LocationID != *f.LocationID,
			f.Reference != "" && e.Reference != f.Reference,
			f.TransactionType != "" && e.TransactionType != f.TransactionType,
			f.From != nil && e.Timestamp.Before(*f.From),
			f.To != nil && e.Timestamp.After(*f.To):
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return window(out, f.Limit, f.Offset)
}

func window[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
