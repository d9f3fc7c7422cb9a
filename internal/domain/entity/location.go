package entity

// Location ubicación física dentro de una bodega (estante, zona, muelle).
type Location struct {
	ID          string
	WarehouseID string
	Name        string
}
