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

	appanalytics "github.com/jhoicas/atelier-api/internal/application/analytics"
	"github.com/jhoicas/atelier-api/internal/application/auth"
	"github.com/jhoicas/atelier-api/internal/application/inventory"
	"github.com/jhoicas/atelier-api/internal/application/ports"
	"github.com/jhoicas/atelier-api/internal/application/pricing"
	"github.com/jhoicas/atelier-api/internal/application/sales"
	"github.com/jhoicas/atelier-api/internal/application/usecase"
	domaininv "github.com/jhoicas/atelier-api/internal/domain/inventory"
	"github.com/jhoicas/atelier-api/internal/infrastructure/export"
	"github.com/jhoicas/atelier-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/atelier-api/internal/infrastructure/pdf"
	"github.com/jhoicas/atelier-api/internal/infrastructure/postgres"
	"github.com/jhoicas/atelier-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/atelier-api/internal/interfaces/http"
	"github.com/jhoicas/atelier-api/pkg/config"
	"github.com/jhoicas/atelier-api/pkg/logger"
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

	applied, err := postgres.Migrate(ctx, pool, log.Component("migrate"))
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Strs("applied", applied).Msg("esquema al día")

	policy, err := domaininv.ParseCostingPolicy(cfg.Atelier.CostingPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("ATELIER_COSTING_POLICY")
	}

	materialRepo := postgres.NewMaterialRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	compositionRepo := postgres.NewCompositionRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.DB.TxMaxRetries, log.Component("tx"))

	m := metrics.New()

	// Imágenes: sin STORAGE_ENDPOINT la subida responde 503
	var images ports.ImageStore
	if cfg.Storage.Enabled() {
		store, err := storage.NewMinioStore(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento de imágenes")
		}
		images = store
	} else {
		log.Warn().Msg("STORAGE_ENDPOINT vacío: imágenes de producto deshabilitadas")
	}

	defaults := usecase.CatalogDefaults{
		LaborRate:     cfg.Atelier.DefaultLaborRate,
		MarginPercent: cfg.Atelier.DefaultMargin,
		MinimumStock:  cfg.Atelier.DefaultMinimumStock,
	}
	salesOpts := sales.Options{
		ShopName:            cfg.App.Name,
		Currency:            cfg.Atelier.Currency,
		WhatsAppCountryCode: cfg.Atelier.WhatsAppCountryCode,
	}

	stockLog := log.Component("stock")
	reconciler := inventory.NewStockReconciler(cfg.Atelier.AllowNegativeStock, m, stockLog)
	compositionUC := inventory.NewCompositionUseCase(txRunner, reconciler, m, stockLog)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, materialRepo, receiptRepo, movementRepo, policy, m, stockLog)
	replenishmentUC := inventory.NewReplenishmentUseCase(materialRepo)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	materialUC := usecase.NewMaterialUseCase(txRunner, materialRepo, categoryRepo, defaults)
	productUC := usecase.NewProductUseCase(
		txRunner, productRepo, compositionRepo, saleRepo,
		compositionUC, images, defaults, log.Component("catalog"),
	)
	pricingUC := pricing.NewPricingUseCase(txRunner, productRepo, compositionRepo, log.Component("pricing"))

	salesLog := log.Component("sales")
	clientUC := sales.NewClientUseCase(clientRepo)
	saleUC := sales.NewSaleUseCase(txRunner, saleRepo, productRepo, clientRepo, salesOpts, m, salesLog)
	// PDF: recibo de venta con enlace de WhatsApp
	receiptUC := sales.NewReceiptUseCase(saleRepo, productRepo, clientRepo, infrapdf.NewMarotoReceiptGenerator(), salesOpts)
	exportUC := sales.NewExportUseCase(saleRepo, productRepo, clientRepo, export.NewExcelSalesExporter(), salesOpts)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, materialRepo, saleRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		// multipart de imágenes de hasta 5MB más cabeceras
		BodyLimit: 6 << 20,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Atelier API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        userUC,
		CategoryUC:    categoryUC,
		MaterialUC:    materialUC,
		ProductUC:     productUC,
		Ledger:        ledgerUC,
		Composition:   compositionUC,
		Replenishment: replenishmentUC,
		PricingUC:     pricingUC,
		ClientUC:      clientUC,
		SaleUC:        saleUC,
		ReceiptUC:     receiptUC,
		ExportUC:      exportUC,
		DashboardUC:   dashboardUC,
		JWTSecret:     cfg.JWT.Secret,
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
