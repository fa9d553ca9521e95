package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/manufactura-api/internal/application/auth"
	"github.com/jhoicas/manufactura-api/internal/application/stock"
	"github.com/jhoicas/manufactura-api/internal/application/usecase"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ItemUC           *usecase.ItemUseCase
	WarehouseUC      *usecase.WarehouseUseCase
	StockEntryUC     *stock.StockEntryUseCase
	ReconciliationUC *stock.ReconciliationUseCase
	QueryUC          *stock.QueryUseCase
	ReportUC         *stock.ReportUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	allRoles := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista, entity.RoleProduccion)
	adminOnly := RequireRole(entity.RoleAdmin)
	warehouseStaff := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista)

	// Auth: login público, registro solo admin.
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/register", adminOnly, authHandler.Register)

	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", warehouseStaff, itemHandler.Create)
	items.Get("/", allRoles, itemHandler.List)
	items.Get("/:code", allRoles, itemHandler.Get)

	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseStaff, warehouseHandler.Create)
	warehouses.Get("/", allRoles, warehouseHandler.List)

	entries := protected.Group("/stock-entries", allRoles)
	entryHandler := NewStockEntryHandler(deps.StockEntryUC, deps.ReportUC)
	entries.Post("/", entryHandler.Create)
	entries.Get("/", entryHandler.List)
	entries.Get("/:id", entryHandler.Get)
	entries.Put("/:id", entryHandler.Update)
	entries.Post("/:id/submit", entryHandler.Submit)
	entries.Get("/:id/linked", entryHandler.Linked)
	entries.Get("/:id/pdf", entryHandler.PDF)

	recos := protected.Group("/stock-reconciliations", warehouseStaff)
	recoHandler := NewReconciliationHandler(deps.ReconciliationUC)
	recos.Post("/", recoHandler.Create)
	recos.Post("/import", recoHandler.Import)
	recos.Get("/:id", recoHandler.Get)
	recos.Put("/:id", recoHandler.Update)
	recos.Post("/:id/submit", recoHandler.Submit)

	stockGroup := protected.Group("/stock", allRoles)
	stockHandler := NewStockHandler(deps.QueryUC)
	stockGroup.Get("/balance", stockHandler.Balance)
	stockGroup.Get("/batches", stockHandler.Batches)
}
