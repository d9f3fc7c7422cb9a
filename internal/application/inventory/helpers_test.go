package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	prodP = "P"
	prodQ = "Q"
	whW1  = "W1"
	whW2  = "W2"
	locL1 = "L1" // pertenece a W1
	locL2 = "L2" // pertenece a W2
	user  = "u-1"
)

type fixture struct {
	store     *memory.Store
	refs      *inventory.References
	engine    *inventory.MovementEngine
	transfers *inventory.TransferOrchestrator
	delivery  *inventory.DeliveryFulfillment
	query     *inventory.LedgerQuery
}

// newFixture arma los casos de uso sobre el almacén en memoria con el directorio cargado.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	st.AddProduct(entity.Product{ID: prodP, SKU: "SKU-P", Name: "Producto P"})
	st.AddProduct(entity.Product{ID: prodQ, SKU: "SKU-Q", Name: "Producto Q"})
	st.AddWarehouse(entity.Warehouse{ID: whW1, Name: "Bodega 1"})
	st.AddWarehouse(entity.Warehouse{ID: whW2, Name: "Bodega 2"})
	st.AddLocation(entity.Location{ID: locL1, WarehouseID: whW1, Name: "Estante 1"})
	st.AddLocation(entity.Location{ID: locL2, WarehouseID: whW2, Name: "Estante 2"})

	refs := inventory.NewReferences(st.Products(), st.Warehouses(), st.Locations())
	engine := inventory.NewMovementEngine(st, refs, nil, nil, nil)
	return &fixture{
		store:     st,
		refs:      refs,
		engine:    engine,
		transfers: inventory.NewTransferOrchestrator(st, st.Transfers(), refs, engine, nil, nil),
		delivery:  inventory.NewDeliveryFulfillment(st, refs, engine, nil),
		query:     inventory.NewLedgerQuery(st.Stock(), st.Ledger(), refs, nil),
	}
}

func key(product, warehouse, location string) entity.StockKey {
	return entity.StockKey{ProductID: product, WarehouseID: warehouse, LocationID: location}
}

// seed deja qty libre en la clave mediante una entrada IN.
func (f *fixture) seed(t *testing.T, k entity.StockKey, qty int64) {
	t.Helper()
	_, err := f.engine.Increase(context.Background(), inventory.MovementInput{
		ProductID: k.ProductID, WarehouseID: k.WarehouseID, LocationID: k.LocationID,
		Quantity: qty, Reference: "SEED", UserID: user,
	})
	require.NoError(t, err)
}

func (f *fixture) stock(t *testing.T, k entity.StockKey) entity.StockRecord {
	t.Helper()
	rec, err := f.store.Stock().Get(context.Background(), k)
	require.NoError(t, err)
	return rec
}

// entries devuelve las entradas de la clave excluyendo las de carga inicial.
func (f *fixture) entries(t *testing.T, k entity.StockKey) []entity.LedgerEntry {
	t.Helper()
	loc := k.LocationID
	all, err := f.store.Ledger().List(context.Background(), entity.LedgerFilter{
		ProductID: k.ProductID, WarehouseID: k.WarehouseID, LocationID: &loc,
	})
	require.NoError(t, err)
	out := make([]entity.LedgerEntry, 0, len(all))
	for _, e := range all {
		if e.Reference != "SEED" {
			out = append(out, e)
		}
	}
	return out
}

func input(k entity.StockKey, qty int64) inventory.MovementInput {
	return inventory.MovementInput{
		ProductID: k.ProductID, WarehouseID: k.WarehouseID, LocationID: k.LocationID,
		Quantity: qty, UserID: user,
	}
}
