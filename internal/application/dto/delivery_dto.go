package dto

import "github.com/jhoicas/stock-master/internal/domain/entity"

// DeliveredRequest body para POST /api/deliveries/delivered: la entrega pasó a DELIVERED.
type DeliveredRequest struct {
	Reference   string                `json:"reference" validate:"required,max=100"`
	WarehouseID string                `json:"warehouse_id" validate:"required,max=64"`
	LocationID  string                `json:"location_id,omitempty" validate:"max=64"`
	Notes       string                `json:"notes,omitempty" validate:"max=500"`
	Items       []DeliveryItemRequest `json:"items" validate:"required,min=1,max=200,dive"`
}

// DeliveryItemRequest línea de la entrega.
type DeliveryItemRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
}

// ToDelivery mapea la petición a la entidad de frontera.
func (r DeliveredRequest) ToDelivery() entity.Delivery {
	items := make([]entity.DeliveryItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entity.DeliveryItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return entity.Delivery{
		Reference:   r.Reference,
		WarehouseID: r.WarehouseID,
		LocationID:  r.LocationID,
		Items:       items,
		Notes:       r.Notes,
	}
}

// DeliveryResultDTO resultado de aplicar una entrega.
type DeliveryResultDTO struct {
	Reference string           `json:"reference"`
	Applied   bool             `json:"applied"`
	Stock     []StockRecordDTO `json:"stock,omitempty"`
}
