package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/usecase"
	"github.com/waterfire-source/Mycalinks-sub015/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC   *inventory.LedgerUseCase
	ProductUC  *usecase.ProductUseCase
	SettingsUC *usecase.SettingsUseCase
	Logger     *logger.Logger
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Todas las rutas requieren Bearer Token; la tienda sale del token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(RoleAdmin, RoleStaff))
	adminOnly := RequireRole(RoleAdmin)

	productHandler := NewProductHandler(deps.ProductUC, log)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC, log)
	packHandler := NewPackOpeningHandler(deps.LedgerUC, log)
	bundleHandler := NewBundleHandler(deps.LedgerUC, log)
	settingsHandler := NewSettingsHandler(deps.SettingsUC, log)

	// Products
	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/lots", ledgerHandler.ListLots)
	products.Get("/:id/movements", ledgerHandler.ListMovements)

	// Libro de stock
	ledger := protected.Group("/ledger")
	ledger.Post("/increase", ledgerHandler.Increase)
	ledger.Post("/decrease", ledgerHandler.Decrease)
	ledger.Post("/transfer", ledgerHandler.Transfer)

	// Aperturas
	packs := protected.Group("/pack-openings")
	packs.Post("/", packHandler.Open)
	packs.Get("/:id", packHandler.GetByID)
	packs.Post("/:id/rollback", adminOnly, packHandler.Rollback)

	// Bundles
	bundles := protected.Group("/bundles")
	bundles.Get("/:id/components", productHandler.GetComponents)
	bundles.Put("/:id/components", adminOnly, productHandler.SetComponents)
	bundles.Post("/:id/assemble", bundleHandler.Assemble)
	bundles.Post("/:id/release", bundleHandler.Release)

	// Settings
	settings := protected.Group("/settings")
	settings.Get("/ledger-policy", settingsHandler.Get)
	settings.Put("/ledger-policy", adminOnly, settingsHandler.Update)
}
