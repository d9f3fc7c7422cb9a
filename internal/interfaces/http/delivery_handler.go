package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-master/internal/application/dto"
	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/pkg/logger"
)

// DeliveryHandler recibe las entregas confirmadas y descuenta su stock.
type DeliveryHandler struct {
	uc       *inventory.DeliveryFulfillment
	validate *validator.Validate
	log      *logger.Logger
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(uc *inventory.DeliveryFulfillment, validate *validator.Validate, log *logger.Logger) *DeliveryHandler {
	return &DeliveryHandler{uc: uc, validate: validate, log: log}
}

// Delivered godoc
// @Summary      Entrega en estado DELIVERED: una salida OUT por ítem
// @Description  Todo o nada. Repetir la misma referencia no vuelve a descontar (applied=false).
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeliveredRequest  true  "referencia, bodega e ítems"
// @Success      200   {object}  dto.DeliveryResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries/delivered [post]
func (h *DeliveryHandler) Delivered(c *fiber.Ctx) error {
	var in dto.DeliveredRequest
	if ok, err := parseBody(c, h.validate, &in); !ok {
		return err
	}
	stock, err := h.uc.FulfillDelivery(c.UserContext(), in.ToDelivery(), GetUserID(c))
	if errors.Is(err, domain.ErrAlreadyCompleted) {
		return c.JSON(dto.DeliveryResultDTO{Reference: in.Reference, Applied: false})
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.DeliveryResultDTO{Reference: in.Reference, Applied: true, Stock: dto.FromStockRecords(stock)})
}
