package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/tienda-core/internal/application/inventory"
	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/application/returns"
	"github.com/jhoicas/tienda-core/internal/application/sales"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/infrastructure/catalog"
	"github.com/jhoicas/tienda-core/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-core/internal/infrastructure/metrics"
	"github.com/jhoicas/tienda-core/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/tienda-core/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/tienda-core/internal/interfaces/http"
	"github.com/jhoicas/tienda-core/pkg/config"
	"github.com/jhoicas/tienda-core/pkg/jwt"
	"github.com/jhoicas/tienda-core/pkg/logger"
)

// demoShopID tienda cargada con el backend en memoria.
const demoShopID = "9b2f0c8e-1d4a-4f6b-8c3e-5a7d9e1f2b30"

// storage lo que necesitan los casos de uso, sea PostgreSQL o memoria.
type storage struct {
	tx       ports.TxRunner
	reads    ports.Repositories
	registry ports.Registry
	close    func()
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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store := openStorage(ctx, cfg, log)
	defer store.close()

	m := metrics.New(nil)
	policy := ports.DefaultRolePolicy()
	ledger := inventory.NewLedger(inventory.NewCatalogCache(log))

	salesUC := sales.NewCoordinator(store.tx, store.reads, store.registry, ledger, policy,
		sales.WithLogger(log),
		sales.WithMetrics(m),
		sales.WithIncomeCategory(cfg.Sales.IncomeCategory),
		sales.WithPhoneRegion(cfg.Sales.PhoneRegion),
	)
	returnsUC := returns.NewCoordinator(store.tx, store.reads, ledger, policy,
		returns.WithLogger(log),
		returns.WithMetrics(m),
	)
	registerMovementUC := inventory.NewRegisterMovementUseCase(store.tx, store.reads, store.registry, ledger, policy, log)

	// Guardián de envíos duplicados: solo si hay Redis configurado.
	var guard ports.SubmissionGuard
	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		guard = infraredis.NewSubmissionGuard(client, cfg.Redis.IdempotencyTTL, log)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: Idempotency-Key deshabilitado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sales:            salesUC,
		Returns:          returnsUC,
		RegisterMovement: registerMovementUC,
		Guard:            guard,
		Metrics:          m.Handler(),
		JWTSecret:        cfg.JWT.Secret,
		AppName:          cfg.App.Name,
		Log:              log,
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

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage {
	if cfg.Storage.Driver == "memory" {
		return openMemory(cfg, log)
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	return storage{
		tx:       postgres.NewTxRunner(pool, cfg.Sales),
		reads:    postgres.Repositories(pool),
		registry: postgres.Registry(pool),
		close:    pool.Close,
	}
}

// openMemory backend en memoria con el catálogo de demostración (desarrollo).
func openMemory(cfg *config.Config, log *logger.Logger) storage {
	demo, err := catalog.Demo(demoShopID)
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo de demostración")
	}
	store := memory.NewStore(memory.WithTxTimeout(cfg.Sales.TxTimeout))
	store.Load(memory.Seed{
		Locations:    []*entity.Location{demo.Location},
		AccountCodes: demo.AccountCodes,
		Products:     demo.Products,
		Items:        demo.Items,
	})
	log.Info().Int("products", len(demo.Products)).Str("shop_id", demoShopID).Msg("catálogo de demostración cargado")

	if cfg.App.Env == "development" && cfg.JWT.Secret != "" {
		tok, err := jwt.Generate(cfg.JWT.Secret, "demo-admin", demoShopID, entity.RoleAdmin, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err == nil {
			log.Info().Str("token", tok).Msg("token de administrador para la tienda de demostración")
		}
	}
	return storage{
		tx:       store,
		reads:    store.Repositories(),
		registry: store.Registry(),
		close:    func() {},
	}
}
