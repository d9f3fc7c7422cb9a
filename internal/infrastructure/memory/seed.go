package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jhoicas/stock-master/internal/domain/entity"
)

// Seed directorio inicial del almacén en memoria (productos, bodegas y ubicaciones).
type Seed struct {
	Products []struct {
		ID   string `json:"id"`
		SKU  string `json:"sku"`
		Name string `json:"name"`
	} `json:"products"`
	Warehouses []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"warehouses"`
	Locations []struct {
		ID          string `json:"id"`
		WarehouseID string `json:"warehouse_id"`
		Name        string `json:"name"`
	} `json:"locations"`
}

// LoadSeed lee un Seed JSON y lo registra en el directorio.
func (s *Store) LoadSeed(r io.Reader) error {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("decodificar seed: %w", err)
	}
	for _, w := range seed.Warehouses {
		s.AddWarehouse(entity.Warehouse{ID: w.ID, Name: w.Name})
	}
	for _, l := range seed.Locations {
		s.mu.Lock()
		_, ok := s.warehouses[l.WarehouseID]
		s.mu.Unlock()
		if !ok {
			return fmt.Errorf("ubicación %s: bodega %s no existe", l.ID, l.WarehouseID)
		}
		s.AddLocation(entity.Location{ID: l.ID, WarehouseID: l.WarehouseID, Name: l.Name})
	}
	for _, p := range seed.Products {
		s.AddProduct(entity.Product{ID: p.ID, SKU: p.SKU, Name: p.Name})
	}
	return nil
}

// LoadSeedFile abre path y llama a LoadSeed.
func (s *Store) LoadSeedFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir seed: %w", err)
	}
	defer f.Close()
	return s.LoadSeed(f)
}
