package router

import (
	"depot_backend/internal/handlers"
	"depot_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTransactionRoutes sets up movement application, ledger listing and
// revert. Revert is destructive and stays Admin-only.
func SetupTransactionRoutes(authenticatedGroup *gin.RouterGroup, txHandler *handlers.TransactionHandler) {
	txRoutes := authenticatedGroup.Group("/transactions")
	txRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Worker"))
	{
		txRoutes.POST("", txHandler.ApplyTransactions)
		txRoutes.GET("", txHandler.GetLogEntries)
	}
	authenticatedGroup.DELETE("/transactions/:timestamp", middleware.RoleAuthMiddleware("Admin"), txHandler.RevertTransaction)
}

// SetupPayrollRoutes sets up the wage reconciliation routes. All state
// transitions are Admin-only; balance lookup is self-service.
func SetupPayrollRoutes(authenticatedGroup *gin.RouterGroup, payrollHandler *handlers.PayrollHandler) {
	payrollWriteRoutes := authenticatedGroup.Group("/payroll")
	payrollWriteRoutes.Use(middleware.RoleAuthMiddleware("Admin"))
	{
		payrollWriteRoutes.POST("/close-week", payrollHandler.CloseWeek)
		payrollWriteRoutes.POST("/pay-week", payrollHandler.PayWeek)
		payrollWriteRoutes.POST("/pay-outstanding", payrollHandler.PayOutstanding)
		payrollWriteRoutes.POST("/pay", payrollHandler.Pay)
	}

	authenticatedGroup.GET("/payroll/balance", middleware.RoleAuthMiddleware("Admin", "Worker"), payrollHandler.GetBalance)
	authenticatedGroup.GET("/payroll/balances", middleware.RoleAuthMiddleware("Admin"), payrollHandler.GetAllBalances)
}

// SetupInventoryRoutes sets up warehouse item and holding routes. Item
// writes are the explicit admin edit path.
func SetupInventoryRoutes(authenticatedGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	itemWriteRoutes := authenticatedGroup.Group("/inventory/items")
	itemWriteRoutes.Use(middleware.RoleAuthMiddleware("Admin"))
	{
		itemWriteRoutes.POST("", inventoryHandler.CreateItem)
		itemWriteRoutes.PUT("/:id", inventoryHandler.UpdateItem)
	}

	authenticatedGroup.GET("/inventory/items", middleware.RoleAuthMiddleware("Admin", "Worker"), inventoryHandler.GetItems)
	authenticatedGroup.GET("/inventory/items/:id", middleware.RoleAuthMiddleware("Admin", "Worker"), inventoryHandler.GetItemByID)
	authenticatedGroup.GET("/inventory/low-stock", middleware.RoleAuthMiddleware("Admin"), inventoryHandler.GetLowStockItems)
	authenticatedGroup.GET("/inventory/holdings", middleware.RoleAuthMiddleware("Admin", "Worker"), inventoryHandler.GetOwnHoldings)
	authenticatedGroup.GET("/inventory/holdings/all", middleware.RoleAuthMiddleware("Admin"), inventoryHandler.GetAllHoldings)
}

// SetupCatalogRoutes sets up the read-only price/recipe catalog and the cost
// preview.
func SetupCatalogRoutes(authenticatedGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	catalogRoutes := authenticatedGroup.Group("")
	catalogRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Worker"))
	{
		catalogRoutes.GET("/prices", catalogHandler.GetPrices)
		catalogRoutes.GET("/recipes/:productId", catalogHandler.GetRecipe)
		catalogRoutes.GET("/costing/:itemId", catalogHandler.ResolveCost)
	}
}

// SetupAuditRoutes sets up the audit trail listing.
func SetupAuditRoutes(authenticatedGroup *gin.RouterGroup, auditHandler *handlers.AuditHandler) {
	auditRoutes := authenticatedGroup.Group("/audit")
	auditRoutes.Use(middleware.RoleAuthMiddleware("Admin"))
	{
		auditRoutes.GET("", auditHandler.GetRecords)
	}
}
