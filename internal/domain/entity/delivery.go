package entity

// ReferenceScopeDelivery espacio de idempotencia de las entregas. Las salidas manuales
// con la misma referencia no cuentan como entrega aplicada.
const ReferenceScopeDelivery = "DELIVERY"

// DeliveryStatusDelivered estado terminal que dispara la salida de stock.
const DeliveryStatusDelivered = "DELIVERED"

// Delivery entrega saliente vista solo en su frontera con el motor de stock.
// Cada ítem produce una salida (OUT) en la bodega/ubicación de la entrega.
type Delivery struct {
	Reference   string
	WarehouseID string
	LocationID  string
	Items       []DeliveryItem
	Notes       string
}

// DeliveryItem línea de una entrega.
type DeliveryItem struct {
	ProductID string
	Quantity  int64
}
