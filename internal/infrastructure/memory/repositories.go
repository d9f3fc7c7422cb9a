package memory

import (
	"context"

	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/internal/domain/repository"
)

var (
	_ repository.StockRepository     = (*StockRepo)(nil)
	_ repository.LedgerRepository    = (*LedgerRepo)(nil)
	_ repository.TransferRepository  = (*TransferRepo)(nil)
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.LocationRepository  = (*LocationRepo)(nil)
)

// Stock repositorio fuera de transacción. Cada escritura corre en su propia tx.
func (s *Store) Stock() *StockRepo { return &StockRepo{s: s} }

// Ledger repositorio del libro mayor fuera de transacción.
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{s: s} }

// Transfers repositorio de traslados fuera de transacción.
func (s *Store) Transfers() *TransferRepo { return &TransferRepo{s: s} }

// Products directorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Warehouses directorio de bodegas.
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{s: s} }

// Locations directorio de ubicaciones.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{s: s} }

// AddProduct registra un producto en el directorio.
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// AddWarehouse registra una bodega en el directorio.
func (s *Store) AddWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[w.ID] = w
}

// AddLocation registra una ubicación en el directorio.
func (s *Store) AddLocation(l entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
}

// StockRepo implementación de StockRepository sobre el estado confirmado.
type StockRepo struct{ s *Store }

func (r *StockRepo) Get(_ context.Context, key entity.StockKey) (entity.StockRecord, error) {
	return r.s.committedStock(key), nil
}

// GetForUpdate sin transacción externa no puede retener el bloqueo; equivale a Get.
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (entity.StockRecord, error) {
	return r.Get(ctx, key)
}

func (r *StockRepo) ApplyDelta(ctx context.Context, key entity.StockKey, d entity.StockDelta) (entity.StockRecord, error) {
	var rec entity.StockRecord
	err := r.s.Run(ctx, func(st repository.StockRepository, _ repository.LedgerRepository, _ repository.TransferRepository) error {
		var err error
		rec, err = st.ApplyDelta(ctx, key, d)
		return err
	})
	return rec, err
}

func (r *StockRepo) ListByProduct(_ context.Context, productID string) ([]entity.StockRecord, error) {
	return r.s.listStock(productID), nil
}

// LedgerRepo implementación de LedgerRepository sobre el estado confirmado.
type LedgerRepo struct{ s *Store }

func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	return r.s.Run(ctx, func(_ repository.StockRepository, l repository.LedgerRepository, _ repository.TransferRepository) error {
		return l.Append(ctx, e)
	})
}

func (r *LedgerRepo) List(_ context.Context, f entity.LedgerFilter) ([]entity.LedgerEntry, error) {
	r.s.mu.Lock()
	all := append([]entity.LedgerEntry(nil), r.s.ledger...)
	r.s.mu.Unlock()
	return filterLedger(all, f), nil
}

func (r *LedgerRepo) ClaimReference(ctx context.Context, scope, reference string) error {
	return r.s.Run(ctx, func(_ repository.StockRepository, l repository.LedgerRepository, _ repository.TransferRepository) error {
		return l.ClaimReference(ctx, scope, reference)
	})
}

// TransferRepo implementación de TransferRepository sobre el estado confirmado.
type TransferRepo struct{ s *Store }

func (r *TransferRepo) Create(ctx context.Context, t *entity.InternalTransfer) error {
	return r.s.Run(ctx, func(_ repository.StockRepository, _ repository.LedgerRepository, tr repository.TransferRepository) error {
		return tr.Create(ctx, t)
	})
}

func (r *TransferRepo) GetByID(_ context.Context, id string) (*entity.InternalTransfer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.InternalTransfer, error) {
	return r.GetByID(ctx, id)
}

func (r *TransferRepo) UpdateStatus(ctx context.Context, t *entity.InternalTransfer) error {
	return r.s.Run(ctx, func(_ repository.StockRepository, _ repository.LedgerRepository, tr repository.TransferRepository) error {
		if _, err := tr.GetForUpdate(ctx, t.ID); err != nil {
			return err
		}
		return tr.UpdateStatus(ctx, t)
	})
}

func (r *TransferRepo) List(_ context.Context, f entity.TransferFilter) ([]*entity.InternalTransfer, error) {
	return r.s.listTransfers(f), nil
}

// ProductRepo directorio de productos en memoria.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// WarehouseRepo directorio de bodegas en memoria.
type WarehouseRepo struct{ s *Store }

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

// LocationRepo directorio de ubicaciones en memoria.
type LocationRepo struct{ s *Store }

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}
