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

	"github.com/jhoicas/catalog-exchange/internal/application/auth"
	"github.com/jhoicas/catalog-exchange/internal/application/catalog"
	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
	"github.com/jhoicas/catalog-exchange/internal/application/usecase"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/commerceml"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/postgres"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/queue"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/catalog-exchange/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/catalog-exchange/internal/interfaces/http"
	"github.com/jhoicas/catalog-exchange/pkg/config"
	"github.com/jhoicas/catalog-exchange/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	jobRepo := postgres.NewExchangeJobRepository(pool)
	logRepo := postgres.NewExchangeLogRepository(pool)
	catalogRepos := postgres.NewCatalogRepositories(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	merge := catalog.NewMergeService(catalogRepos, txRunner)
	ledger := exchange.NewLedger(jobRepo)
	journal := exchange.NewJournal(logRepo, log.Component("journal"))
	staging := exchange.Staging{Root: cfg.Exchange.StagingRoot}

	// Imágenes: solo si hay bucket configurado.
	var assets *exchange.AssetSynchronizer
	if cfg.Storage.Enabled() {
		store, err := storage.NewS3Store(cfg.Storage, storage.WithLogger(log.Component("s3")))
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento S3")
		}
		assets = exchange.NewAssetSynchronizer(catalogRepos.Images, store, staging, journal, log.Component("assets"))
	} else {
		log.Warn().Msg("S3_BUCKET vacío: las imágenes del catálogo no se sincronizan")
	}

	catalogImporter := exchange.NewCatalogImporter(merge, assets, journal, cfg.Exchange.Concurrency, log.Component("catalog"))
	offersImporter := exchange.NewOffersImporter(merge, journal, cfg.Exchange.Concurrency, log.Component("offers"))
	processor := exchange.NewProcessor(ledger, commerceml.NewDecoder(), spreadsheet.NewDecoder(),
		catalogImporter, offersImporter, log.Component("processor"))

	var broker exchange.Broker
	if cfg.Redis.Enabled() {
		redisBroker, err := queue.NewRedisBroker(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisBroker.Close()
		broker = redisBroker
	} else {
		broker = queue.NewMemoryBroker()
	}

	queues := exchange.NewQueueManager(broker, ledger, processor,
		exchange.WithPopTimeout(cfg.Exchange.PopTimeout),
		exchange.WithRetryDelay(cfg.Exchange.RetryDelay),
		exchange.WithQueueLogger(log.Component("queue")),
	)
	if err := queues.Resume(ctx); err != nil {
		log.Error().Err(err).Msg("re-encolar jobs pendientes")
	}

	exchangeSvc := exchange.NewService(companyRepo, authUC, ledger, queues, staging, exchange.ServiceConfig{
		FileLimit: cfg.Exchange.FileLimit,
		JWTSecret: cfg.JWT.Secret,
	}, log.Component("exchange"))

	app := fiber.New(fiber.Config{
		AppName:           cfg.App.Name,
		BodyLimit:         int(cfg.Exchange.FileLimit),
		StreamRequestBody: true,
		ReadTimeout:       time.Second * 60,
		WriteTimeout:      time.Second * 10,
		IdleTimeout:       time.Second * 60,
		ErrorHandler:      httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())

	if cfg.App.Swagger {
		// Swagger UI en local: http://localhost:<port>/docs
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Catalog Exchange API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Exchange:      exchangeSvc,
		Ledger:        ledger,
		Journal:       journal,
		AuthUC:        authUC,
		CompanyUC:     usecase.NewCompanyUseCase(companyRepo),
		UserUC:        usecase.NewUserUseCase(userRepo),
		ProductUC:     usecase.NewProductUseCase(catalogRepos),
		StockUC:       usecase.NewStockUseCase(catalogRepos.Stocks, catalogRepos.PriceTypes),
		JWTSecret:     cfg.JWT.Secret,
		SessionCookie: cfg.Exchange.SessionCookie,
		DefaultLocale: cfg.Exchange.DefaultLocale,
		Logger:        log.Component("http"),
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
	queues.Shutdown()

	log.Info().Msg("aplicación detenida")
}
