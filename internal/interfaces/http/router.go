package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/atelier-api/internal/application/analytics"
	"github.com/jhoicas/atelier-api/internal/application/auth"
	"github.com/jhoicas/atelier-api/internal/application/inventory"
	"github.com/jhoicas/atelier-api/internal/application/pricing"
	"github.com/jhoicas/atelier-api/internal/application/sales"
	"github.com/jhoicas/atelier-api/internal/application/usecase"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	CategoryUC    *usecase.CategoryUseCase
	MaterialUC    *usecase.MaterialUseCase
	ProductUC     *usecase.ProductUseCase
	Ledger        *inventory.LedgerUseCase
	Composition   *inventory.CompositionUseCase
	Replenishment *inventory.ReplenishmentUseCase
	PricingUC     *pricing.PricingUseCase
	ClientUC      *sales.ClientUseCase
	SaleUC        *sales.SaleUseCase
	ReceiptUC     *sales.ReceiptUseCase
	ExportUC      *sales.ExportUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)
	byID := RequireUUIDParam("id")

	// Auth: login público, registro solo admin
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/register", adminOnly, authHandler.Register)
	protected.Get("/auth/me", authHandler.Me)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)

	// Categorías de material
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Delete("/:id", adminOnly, byID, categoryHandler.Delete)

	// Materiales + libro de entradas
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialUC, deps.Ledger, deps.Replenishment)
	materials.Get("/", materialHandler.List)
	materials.Post("/", materialHandler.Create)
	materials.Get("/restock", materialHandler.Restock)
	materials.Get("/:id", byID, materialHandler.GetByID)
	materials.Put("/:id", byID, materialHandler.Update)
	materials.Delete("/:id", adminOnly, byID, materialHandler.Delete)
	materials.Post("/:id/receipts", byID, materialHandler.Receive)
	materials.Get("/:id/receipts", byID, materialHandler.ListReceipts)
	materials.Get("/:id/movements", byID, materialHandler.ListMovements)
	materials.Get("/:id/needs-restock", byID, materialHandler.NeedsRestock)

	// Productos: composición, precio, imágenes y ventas
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Composition, deps.PricingUC)
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC, deps.ExportUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", byID, productHandler.GetByID)
	products.Put("/:id", byID, productHandler.Update)
	products.Delete("/:id", adminOnly, byID, productHandler.Delete)
	products.Put("/:id/composition", byID, productHandler.SetComposition)
	products.Get("/:id/pricing", byID, productHandler.Pricing)
	products.Post("/:id/pricing/persist", byID, productHandler.PersistPrice)
	products.Post("/:id/images/:slot", byID, productHandler.UploadImage)
	products.Get("/:id/images/:slot", byID, productHandler.GetImage)
	products.Post("/:id/sales", byID, saleHandler.RecordSale)

	// Clientes
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", byID, clientHandler.GetByID)
	clients.Put("/:id", byID, clientHandler.Update)

	// Ventas
	salesGroup := protected.Group("/sales")
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/export", saleHandler.Export)
	salesGroup.Get("/:id", byID, saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", byID, saleHandler.DownloadReceipt)
}
