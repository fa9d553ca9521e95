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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/manufactura-api/internal/application/auth"
	"github.com/jhoicas/manufactura-api/internal/application/hooks"
	appmanufacturing "github.com/jhoicas/manufactura-api/internal/application/manufacturing"
	appreconciliation "github.com/jhoicas/manufactura-api/internal/application/reconciliation"
	"github.com/jhoicas/manufactura-api/internal/application/stock"
	"github.com/jhoicas/manufactura-api/internal/application/usecase"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
	"github.com/jhoicas/manufactura-api/internal/infrastructure/excel"
	"github.com/jhoicas/manufactura-api/internal/infrastructure/memory"
	"github.com/jhoicas/manufactura-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/manufactura-api/internal/infrastructure/pdf"
	"github.com/jhoicas/manufactura-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/manufactura-api/internal/interfaces/http"
	"github.com/jhoicas/manufactura-api/pkg/config"
	"github.com/jhoicas/manufactura-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL o memoria (desarrollo y demos).
	var (
		txRunner stock.TxRunner
		repos    repository.TxRepos
		userRepo repository.UserRepository
	)
	switch cfg.App.StorageDriver {
	case config.StorageMemory:
		store := memory.NewStore()
		txRunner, repos, userRepo = store, store.Repos(), store.Users()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner, repos, userRepo = postgres.NewTxRunner(pool), postgres.NewRepos(pool), postgres.NewUserRepository(pool)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("registrar métricas de negocio")
	}
	httpMetrics, err := httpRouter.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("registrar métricas HTTP")
	}

	// Hooks por doctype
	entryHooks := hooks.NewRegistry[*entity.StockEntry](entity.DoctypeStockEntry)
	appmanufacturing.Register(entryHooks, recorder)
	recoHooks := hooks.NewRegistry[*entity.StockReconciliation](entity.DoctypeStockReconciliation)
	appreconciliation.Register(recoHooks, recorder)

	poster := stock.NewLedgerPoster(cfg.Stock.AllowNegative)
	stockEntryUC := stock.NewStockEntryUseCase(
		txRunner, repos.StockEntries, entryHooks, poster, recorder, log.Component("stock_entry"),
	)
	reconciliationUC := stock.NewReconciliationUseCase(
		txRunner, repos.Reconciliations, recoHooks, poster,
		excel.NewReconciliationSheetParser(), recorder, log.Component("stock_reconciliation"),
	)
	// PDF: reporte de producción de un Manufacture
	reportUC := stock.NewReportUseCase(stockEntryUC, infrapdf.NewMarotoReportGenerator())

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.Bootstrap.Enabled() {
		created, err := authUC.EnsureAdmin(ctx, cfg.Bootstrap.CompanyID, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("administrador inicial creado")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpMetrics.Handler())

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Manufactura API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		ItemUC:           usecase.NewItemUseCase(repos.Items),
		WarehouseUC:      usecase.NewWarehouseUseCase(repos.Warehouses),
		StockEntryUC:     stockEntryUC,
		ReconciliationUC: reconciliationUC,
		QueryUC:          stock.NewQueryUseCase(repos.Ledger),
		ReportUC:         reportUC,
		JWTSecret:        cfg.JWT.Secret,
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
