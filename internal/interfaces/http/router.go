package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/pkg/logger"
)

// HTTPObserver registra la duración de cada petición (Prometheus en producción).
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine    *inventory.MovementEngine
	Transfers *inventory.TransferOrchestrator
	Delivery  *inventory.DeliveryFulfillment
	Query     *inventory.LedgerQuery
	Observer  HTTPObserver // opcional
	Log       *logger.Logger
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	validate := newValidator()

	api := app.Group("/api")
	if deps.Observer != nil {
		api.Use(observe(deps.Observer))
	}

	// Todas las rutas requieren Bearer Token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(RoleAdmin, RoleBodeguero)

	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Engine, deps.Query, validate, log)
	stock.Get("/", stockHandler.Get)
	stock.Get("/products/:id", stockHandler.ListByProduct)
	stock.Get("/reconcile", stockHandler.Reconcile)
	stock.Post("/increase", writers, stockHandler.Increase)
	stock.Post("/decrease", writers, stockHandler.Decrease)
	stock.Post("/adjust", writers, stockHandler.Adjust)
	stock.Post("/reserve", writers, stockHandler.Reserve)
	stock.Post("/release", writers, stockHandler.Release)

	ledger := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.Query, validate, log)
	ledger.Get("/", ledgerHandler.List)
	ledger.Get("/report.pdf", ledgerHandler.Report)

	transfers := protected.Group("/internal-transfers")
	transferHandler := NewTransferHandler(deps.Transfers, validate, log)
	transfers.Post("/", writers, transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Put("/:id/complete", writers, transferHandler.Complete)

	// El servicio de entregas llama con un token de rol sistema
	deliveries := protected.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.Delivery, validate, log)
	deliveries.Post("/delivered", RequireRole(RoleAdmin, RoleBodeguero, RoleSistema), deliveryHandler.Delivered)
}

func observe(o HTTPObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		o.ObserveHTTP(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
