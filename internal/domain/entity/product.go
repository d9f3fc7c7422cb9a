package entity

// Product representa un producto (SKU) del catálogo. El motor de stock solo lo consulta.
type Product struct {
	ID   string
	SKU  string
	Name string
}
