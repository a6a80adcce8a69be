package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/atelier-api/internal/application/auth"
	"github.com/jhoicas/atelier-api/internal/application/inventory"
	"github.com/jhoicas/atelier-api/internal/application/usecase"
	"github.com/jhoicas/atelier-api/internal/infrastructure/postgres"
	"github.com/jhoicas/atelier-api/pkg/config"
	"github.com/jhoicas/atelier-api/pkg/logger"
)

// cliUser autor de los movimientos de stock generados desde la CLI.
const cliUser = "atelierctl"

// catalogServices casos de uso que necesitan seed e import-materials.
type catalogServices struct {
	Categories *usecase.CategoryUseCase
	Materials  *usecase.MaterialUseCase
	Products   *usecase.ProductUseCase
}

// services conexión y casos de uso compartidos por los comandos.
type services struct {
	catalogServices
	cfg           *config.Config
	log           *logger.Logger
	pool          *pgxpool.Pool
	Auth          *auth.AuthUseCase
	Replenishment *inventory.ReplenishmentUseCase
}

// openDB carga la configuración y abre el pool. Los logs van a stderr para no mezclarse con la salida.
func openDB(ctx context.Context) (*config.Config, *logger.Logger, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cliUser,
		Out:     os.Stderr,
	})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, pool, nil
}

// openServices arma los casos de uso sobre PostgreSQL. El caller cierra con Close.
func openServices(ctx context.Context) (*services, error) {
	cfg, log, pool, err := openDB(ctx)
	if err != nil {
		return nil, err
	}

	materialRepo := postgres.NewMaterialRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	compositionRepo := postgres.NewCompositionRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.DB.TxMaxRetries, log.Component("tx"))

	defaults := usecase.CatalogDefaults{
		LaborRate:     cfg.Atelier.DefaultLaborRate,
		MarginPercent: cfg.Atelier.DefaultMargin,
		MinimumStock:  cfg.Atelier.DefaultMinimumStock,
	}
	stockLog := log.Component("stock")
	reconciler := inventory.NewStockReconciler(cfg.Atelier.AllowNegativeStock, nil, stockLog)
	composition := inventory.NewCompositionUseCase(txRunner, reconciler, nil, stockLog)

	return &services{
		catalogServices: catalogServices{
			Categories: usecase.NewCategoryUseCase(categoryRepo),
			Materials:  usecase.NewMaterialUseCase(txRunner, materialRepo, categoryRepo, defaults),
			// sin almacenamiento de imágenes: la CLI no sube archivos
			Products: usecase.NewProductUseCase(txRunner, productRepo, compositionRepo, saleRepo, composition, nil, defaults, log.Component("catalog")),
		},
		cfg:  cfg,
		log:  log,
		pool: pool,
		Auth: auth.NewAuthUseCase(userRepo, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		Replenishment: inventory.NewReplenishmentUseCase(materialRepo),
	}, nil
}

// Close libera el pool.
func (s *services) Close() {
	s.pool.Close()
}
