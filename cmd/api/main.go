package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/usecase"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/infrastructure/memory"
	"github.com/waterfire-source/Mycalinks-sub015/internal/infrastructure/postgres"
	infraredis "github.com/waterfire-source/Mycalinks-sub015/internal/infrastructure/redis"
	"github.com/waterfire-source/Mycalinks-sub015/internal/infrastructure/tax"
	httpRouter "github.com/waterfire-source/Mycalinks-sub015/internal/interfaces/http"
	"github.com/waterfire-source/Mycalinks-sub015/pkg/config"
	"github.com/waterfire-source/Mycalinks-sub015/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.Ledger.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	productRepo := postgres.NewProductRepository(pool)
	lotRepo := postgres.NewCostLotRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	packOpenRepo := postgres.NewPackOpenRepository(pool)
	settingsRepo := postgres.NewStoreSettingsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	fallback := entity.LedgerPolicy{
		KeepRule: entity.KeepRule(cfg.Ledger.DefaultKeepRule),
		Order:    entity.AllocationOrder(cfg.Ledger.DefaultAllocationOrder),
	}
	if !fallback.Valid() {
		log.Warn().
			Str("keep_rule", cfg.Ledger.DefaultKeepRule).
			Str("allocation_order", cfg.Ledger.DefaultAllocationOrder).
			Msg("política por defecto inválida, se usa individual/oldest_arrival_first")
		fallback = entity.DefaultLedgerPolicy()
	}

	// Sin Redis: bloqueos en proceso y política leída de la BD en cada operación.
	var policies inventory.PolicySource = inventory.NewSettingsPolicySource(settingsRepo, fallback)
	var locker inventory.Locker = memory.NewLocker()
	var invalidator usecase.PolicyInvalidator
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		cache := infraredis.NewPolicyCache(rdb, policies, cfg.Redis.PolicyTTL, log.Component("redis"))
		policies = cache
		invalidator = cache
		locker = infraredis.NewLocker(rdb, log.Component("redis"))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis habilitado para políticas y bloqueos")
	}

	taxCalc, err := tax.NewFixedRate(cfg.Ledger.TaxRate)
	if err != nil {
		log.Fatal().Err(err).Msg("calculadora de impuestos")
	}

	ledgerUC := inventory.NewLedgerUseCase(inventory.Deps{
		TxRunner:     txRunner,
		Policies:     policies,
		Locker:       locker,
		Tax:          taxCalc,
		Products:     productRepo,
		Lots:         lotRepo,
		Movements:    movementRepo,
		PackOpenings: packOpenRepo,
		Logger:       log.Component("ledger"),
		Locale:       cfg.Ledger.Locale,
		TxTimeout:    cfg.Ledger.TxTimeout,
		LockTTL:      cfg.Ledger.LockTTL,
	})
	productUC := usecase.NewProductUseCase(productRepo, txRunner)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, fallback, invalidator)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// Las operaciones del libro pueden durar hasta TxTimeout.
		WriteTimeout: cfg.Ledger.TxTimeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:   ledgerUC,
		ProductUC:  productUC,
		SettingsUC: settingsUC,
		Logger:     log.Component("http"),
		JWTSecret:  cfg.JWT.Secret,
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
