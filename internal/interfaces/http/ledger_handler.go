package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-master/internal/application/dto"
	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/internal/domain"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/pkg/logger"
)

// LedgerHandler consultas del libro mayor (protegido).
type LedgerHandler struct {
	query    *inventory.LedgerQuery
	validate *validator.Validate
	log      *logger.Logger
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(query *inventory.LedgerQuery, validate *validator.Validate, log *logger.Logger) *LedgerHandler {
	return &LedgerHandler{query: query, validate: validate, log: log}
}

// List godoc
// @Summary      Listar entradas del libro mayor
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        product_id        query  string  false  "Producto"
// @Param        warehouse_id      query  string  false  "Bodega"
// @Param        location_id       query  string  false  "Ubicación (presente = filtra, incluso vacía)"
// @Param        reference         query  string  false  "Referencia"
// @Param        transaction_type  query  string  false  "IN | OUT | RESERVE | RELEASE | ADJUSTMENT"
// @Param        from              query  string  false  "RFC3339"
// @Param        to                query  string  false  "RFC3339"
// @Param        limit             query  int     false  "Máximo de resultados"
// @Param        offset            query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.LedgerEntryDTO
// @Router       /api/ledger [get]
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := parsePage(c, h.validate, &page); !ok {
		return err
	}
	f := entity.LedgerFilter{
		ProductID:       c.Query("product_id"),
		WarehouseID:     c.Query("warehouse_id"),
		Reference:       c.Query("reference"),
		TransactionType: c.Query("transaction_type"),
		Limit:           page.Limit,
		Offset:          page.Offset,
	}
	if loc, ok := c.Queries()["location_id"]; ok {
		f.LocationID = &loc
	}
	var err error
	if f.From, err = queryTime(c, "from"); err != nil {
		return writeError(c, h.log, err)
	}
	if f.To, err = queryTime(c, "to"); err != nil {
		return writeError(c, h.log, err)
	}
	entries, err := h.query.ListLedger(c.UserContext(), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromLedgerEntries(entries))
}

// Report godoc
// @Summary      Reporte PDF de auditoría de un producto
// @Tags         ledger
// @Security     Bearer
// @Produce      application/pdf
// @Param        product_id  query  string  true  "Producto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/report.pdf [get]
func (h *LedgerHandler) Report(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	pdf, err := h.query.LedgerReport(c.UserContext(), productID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ledger-`+productID+`.pdf"`)
	return c.Send(pdf)
}

func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}
