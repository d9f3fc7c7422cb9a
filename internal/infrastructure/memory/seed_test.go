package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed_RegistraDirectorio(t *testing.T) {
	s := NewStore()
	err := s.LoadSeed(strings.NewReader(`{
		"products":   [{"id": "P", "sku": "SKU-P", "name": "Producto P"}],
		"warehouses": [{"id": "W1", "name": "Bodega 1"}],
		"locations":  [{"id": "L1", "warehouse_id": "W1", "name": "Estante 1"}]
	}`))
	require.NoError(t, err)

	ctx := context.Background()
	p, err := s.Products().GetByID(ctx, "P")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "SKU-P", p.SKU)
	l, err := s.Locations().GetByID(ctx, "L1")
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, "W1", l.WarehouseID)
}

func TestLoadSeed_UbicacionSinBodegaFalla(t *testing.T) {
	s := NewStore()
	err := s.LoadSeed(strings.NewReader(`{"locations": [{"id": "L1", "warehouse_id": "W9"}]}`))
	assert.Error(t, err)
}
