package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-master/internal/application/dto"
	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/pkg/logger"
)

// TransferHandler maneja traslados internos entre bodegas/ubicaciones (protegido).
type TransferHandler struct {
	uc       *inventory.TransferOrchestrator
	validate *validator.Validate
	log      *logger.Logger
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *inventory.TransferOrchestrator, validate *validator.Validate, log *logger.Logger) *TransferHandler {
	return &TransferHandler{uc: uc, validate: validate, log: log}
}

// Create godoc
// @Summary      Crear traslado interno (PENDING)
// @Tags         internal-transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "producto, origen, destino, cantidad"
// @Success      201   {object}  dto.TransferDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/internal-transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if ok, err := parseBody(c, h.validate, &in); !ok {
		return err
	}
	t, err := h.uc.Create(c.UserContext(), inventory.CreateTransferInput{
		ProductID:              in.ProductID,
		SourceWarehouseID:      in.SourceWarehouseID,
		SourceLocationID:       in.SourceLocationID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		DestinationLocationID:  in.DestinationLocationID,
		Quantity:               in.Quantity,
		Reference:              in.Reference,
		Notes:                  in.Notes,
		UserID:                 GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTransfer(t))
}

// Complete godoc
// @Summary      Completar traslado: OUT en origen e IN en destino de forma atómica
// @Description  Idempotente: completar un traslado ya COMPLETED devuelve el mismo resultado.
// @Tags         internal-transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/internal-transfers/{id}/complete [put]
func (h *TransferHandler) Complete(c *fiber.Ctx) error {
	t, err := h.uc.Complete(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// GetByID godoc
// @Summary      Obtener traslado
// @Tags         internal-transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/internal-transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// List godoc
// @Summary      Listar traslados
// @Tags         internal-transfers
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "PENDING | COMPLETED"
// @Param        product_id  query  string  false  "Producto"
// @Param        limit       query  int     false  "Máximo de resultados"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.TransferDTO
// @Router       /api/internal-transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := parsePage(c, h.validate, &page); !ok {
		return err
	}
	list, err := h.uc.List(c.UserContext(), entity.TransferFilter{
		Status:    c.Query("status"),
		ProductID: c.Query("product_id"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.TransferDTO, 0, len(list))
	for _, t := range list {
		out = append(out, dto.FromTransfer(t))
	}
	return c.JSON(out)
}
