package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/internal/domain/repository"
	infrakafka "github.com/jhoicas/stock-master/internal/infrastructure/kafka"
	"github.com/jhoicas/stock-master/internal/infrastructure/memory"
	"github.com/jhoicas/stock-master/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/stock-master/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-master/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-master/internal/interfaces/http"
	"github.com/jhoicas/stock-master/pkg/config"
	"github.com/jhoicas/stock-master/pkg/logger"
)

// stores agrupa el TxRunner y los repositorios de lectura del backend elegido.
type stores struct {
	txRunner   inventory.TxRunner
	stock      repository.StockRepository
	ledger     repository.LedgerRepository
	transfers  repository.TransferRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	locations  repository.LocationRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	m := metrics.New("stock")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log, m)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	// Publicación post-commit del libro mayor: solo si hay brokers configurados
	var publisher inventory.EventPublisher
	if cfg.Kafka.Enabled() {
		kp := infrakafka.NewLedgerPublisher(cfg.Kafka.Brokers, cfg.Kafka.LedgerTopic)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar productor Kafka")
			}
		}()
		publisher = infrakafka.NewBreakerPublisher(kp, infrakafka.BreakerConfig{}, log)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.LedgerTopic).Msg("publicación de libro mayor habilitada")
	}

	refs := inventory.NewReferences(st.products, st.warehouses, st.locations)
	engine := inventory.NewMovementEngine(st.txRunner, refs, publisher, m, log)
	transfers := inventory.NewTransferOrchestrator(st.txRunner, st.transfers, refs, engine, m, log)
	delivery := inventory.NewDeliveryFulfillment(st.txRunner, refs, engine, log)
	query := inventory.NewLedgerQuery(st.stock, st.ledger, refs, infrapdf.NewLedgerReportGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Master API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:    engine,
		Transfers: transfers,
		Delivery:  delivery,
		Query:     query,
		Observer:  m,
		Log:       log,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStores abre PostgreSQL o el almacén en memoria según STORE_DRIVER.
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*stores, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		if cfg.Store.SeedFile != "" {
			if err := s.LoadSeedFile(cfg.Store.SeedFile); err != nil {
				return nil, err
			}
			log.Info().Str("file", cfg.Store.SeedFile).Msg("directorio cargado")
		}
		return &stores{
			txRunner:   s,
			stock:      s.Stock(),
			ledger:     s.Ledger(),
			transfers:  s.Transfers(),
			products:   s.Products(),
			warehouses: s.Warehouses(),
			locations:  s.Locations(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	txRunner := postgres.NewTxRunner(pool, cfg.Engine.MaxRetries, log)
	txRunner.OnRetry(m.TxRetry)

	return &stores{
		txRunner:   txRunner,
		stock:      postgres.NewStockRepository(pool),
		ledger:     postgres.NewLedgerRepository(pool),
		transfers:  postgres.NewTransferRepository(pool),
		products:   postgres.NewProductRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		locations:  postgres.NewLocationRepository(pool),
		close:      pool.Close,
	}, nil
}
