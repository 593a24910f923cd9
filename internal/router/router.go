package router

import (
	"database/sql"

	"depot_backend/internal/handlers"
	"depot_backend/internal/middleware"
	"depot_backend/internal/repositories"
	"depot_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Repositories
	inventoryRepo := repositories.NewInventoryRepository(db)
	holdingRepo := repositories.NewHoldingRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	auditRepo := repositories.NewAuditRepository(db)

	// Services
	txService := services.NewTransactionService(inventoryRepo, holdingRepo, catalogRepo, ledgerRepo, auditRepo, db)
	costingService := services.NewCostingService(inventoryRepo, catalogRepo, db)
	payrollService := services.NewPayrollService(ledgerRepo, auditRepo, db)
	revertService := services.NewRevertService(inventoryRepo, ledgerRepo, auditRepo, db)
	inventoryService := services.NewInventoryService(inventoryRepo, holdingRepo, db)
	catalogService := services.NewCatalogService(catalogRepo, db)
	ledgerService := services.NewLedgerService(ledgerRepo)
	auditService := services.NewAuditService(auditRepo)

	// Handlers
	txHandler := handlers.NewTransactionHandler(txService, revertService, ledgerService)
	payrollHandler := handlers.NewPayrollHandler(payrollService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, costingService)
	auditHandler := handlers.NewAuditHandler(auditService)

	apiV1 := engine.Group("/api/v1")

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupTransactionRoutes(authenticated, txHandler)
		SetupPayrollRoutes(authenticated, payrollHandler)
		SetupInventoryRoutes(authenticated, inventoryHandler)
		SetupCatalogRoutes(authenticated, catalogHandler)
		SetupAuditRoutes(authenticated, auditHandler)
	}
}
