package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-master/internal/application/dto"
	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/pkg/logger"
)

// StockHandler maneja movimientos y consultas de stock (protegido).
type StockHandler struct {
	engine   *inventory.MovementEngine
	query    *inventory.LedgerQuery
	validate *validator.Validate
	log      *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(engine *inventory.MovementEngine, query *inventory.LedgerQuery, validate *validator.Validate, log *logger.Logger) *StockHandler {
	return &StockHandler{engine: engine, query: query, validate: validate, log: log}
}

type movementFunc func(*fiber.Ctx, inventory.MovementInput) (entity.StockRecord, error)

// Increase godoc
// @Summary      Entrada de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "product_id, warehouse_id, quantity"
// @Success      200   {object}  dto.StockRecordDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/increase [post]
func (h *StockHandler) Increase(c *fiber.Ctx) error {
	return h.movement(c, func(c *fiber.Ctx, in inventory.MovementInput) (entity.StockRecord, error) {
		return h.engine.Increase(c.UserContext(), in)
	})
}

// Decrease godoc
// @Summary      Salida de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "product_id, warehouse_id, quantity"
// @Success      200   {object}  dto.StockRecordDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/decrease [post]
func (h *StockHandler) Decrease(c *fiber.Ctx) error {
	return h.movement(c, func(c *fiber.Ctx, in inventory.MovementInput) (entity.StockRecord, error) {
		return h.engine.Decrease(c.UserContext(), in)
	})
}

// Reserve godoc
// @Summary      Reservar stock libre
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "product_id, warehouse_id, quantity"
// @Success      200   {object}  dto.StockRecordDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/reserve [post]
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	return h.movement(c, func(c *fiber.Ctx, in inventory.MovementInput) (entity.StockRecord, error) {
		return h.engine.Reserve(c.UserContext(), in)
	})
}

// Release godoc
// @Summary      Liberar reserva
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "product_id, warehouse_id, quantity"
// @Success      200   {object}  dto.StockRecordDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/release [post]
func (h *StockHandler) Release(c *fiber.Ctx) error {
	return h.movement(c, func(c *fiber.Ctx, in inventory.MovementInput) (entity.StockRecord, error) {
		return h.engine.Release(c.UserContext(), in)
	})
}

func (h *StockHandler) movement(c *fiber.Ctx, apply movementFunc) error {
	var in dto.MovementRequest
	if ok, err := parseBody(c, h.validate, &in); !ok {
		return err
	}
	rec, err := apply(c, inventory.MovementInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		LocationID:  in.LocationID,
		Quantity:    in.Quantity,
		Reference:   in.Reference,
		Notes:       in.Notes,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromStockRecord(rec))
}

// Adjust godoc
// @Summary      Ajuste manual de existencias
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustRequest  true  "delta positivo suma, negativo resta"
// @Success      200   {object}  dto.StockRecordDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if ok, err := parseBody(c, h.validate, &in); !ok {
		return err
	}
	rec, err := h.engine.Adjust(c.UserContext(), inventory.AdjustInput{
		MovementInput: inventory.MovementInput{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			LocationID:  in.LocationID,
			Reference:   in.Reference,
			Notes:       in.Notes,
			UserID:      GetUserID(c),
		},
		Delta: in.Delta,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromStockRecord(rec))
}

// Get godoc
// @Summary      Stock de una clave
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "Producto"
// @Param        warehouse_id  query  string  true   "Bodega"
// @Param        location_id   query  string  false  "Ubicación (vacío = por defecto)"
// @Success      200  {object}  dto.StockRecordDTO
// @Router       /api/stock [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	rec, err := h.query.GetStock(c.UserContext(), keyFromQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromStockRecord(rec))
}

// ListByProduct godoc
// @Summary      Stock de un producto en todas sus ubicaciones
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Producto"
// @Success      200  {array}  dto.StockRecordDTO
// @Router       /api/stock/products/{id} [get]
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	list, err := h.query.ListStockByProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromStockRecords(list))
}

// Reconcile godoc
// @Summary      Compara el stock materializado con el libro mayor
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "Producto"
// @Param        warehouse_id  query  string  true   "Bodega"
// @Param        location_id   query  string  false  "Ubicación"
// @Success      200  {object}  dto.ReconciliationDTO
// @Router       /api/stock/reconcile [get]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	r, err := h.query.Reconcile(c.UserContext(), keyFromQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if !r.Consistent {
		h.log.Warn().Str("key", r.Record.StockKey.String()).
			Int64("on_hand", r.Record.OnHand).Int64("ledger_on_hand", r.Ledger.OnHand).
			Msg("stock no cuadra con el libro mayor")
	}
	return c.JSON(dto.ReconciliationDTO{
		Stock:          dto.FromStockRecord(r.Record),
		LedgerOnHand:   r.Ledger.OnHand,
		LedgerReserved: r.Ledger.Reserved,
		Consistent:     r.Consistent,
	})
}

func keyFromQuery(c *fiber.Ctx) entity.StockKey {
	return entity.StockKey{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		LocationID:  c.Query("location_id"),
	}
}
