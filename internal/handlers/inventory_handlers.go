package handlers

import (
	"net/http"

	"depot_backend/internal/models"
	"depot_backend/internal/services"
	"depot_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InventoryHandler holds the inventory service.
type InventoryHandler struct {
	inventoryService services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(is services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is}
}

// GetItems handles GET /inventory/items.
func (h *InventoryHandler) GetItems(c *gin.Context) {
	items, err := h.inventoryService.GetItems()
	if err != nil {
		utils.LogError(err, "GetItems: Error from inventoryService.GetItems")
		respondServiceError(c, err, "Failed to fetch inventory items.")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItemByID handles GET /inventory/items/:id.
func (h *InventoryHandler) GetItemByID(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid item ID format.", err.Error()))
		return
	}

	item, err := h.inventoryService.GetItemByID(id)
	if err != nil {
		utils.LogError(err, "GetItemByID: Error from inventoryService.GetItemByID")
		respondServiceError(c, err, "Failed to fetch inventory item.")
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetLowStockItems handles GET /inventory/low-stock.
func (h *InventoryHandler) GetLowStockItems(c *gin.Context) {
	items, err := h.inventoryService.GetLowStockItems()
	if err != nil {
		utils.LogError(err, "GetLowStockItems: Error from inventoryService.GetLowStockItems")
		respondServiceError(c, err, "Failed to fetch low-stock items.")
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateItem handles POST /inventory/items (admin edit path).
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	created, err := h.inventoryService.CreateItem(&item)
	if err != nil {
		utils.LogError(err, "CreateItem: Error from inventoryService.CreateItem")
		respondServiceError(c, err, "Failed to create inventory item.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateItem handles PUT /inventory/items/:id (admin edit path).
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid item ID format.", err.Error()))
		return
	}

	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	item.ID = id

	updated, err := h.inventoryService.UpdateItem(&item)
	if err != nil {
		utils.LogError(err, "UpdateItem: Error from inventoryService.UpdateItem")
		respondServiceError(c, err, "Failed to update inventory item.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GetOwnHoldings handles GET /inventory/holdings: the caller's personal
// stash.
func (h *InventoryHandler) GetOwnHoldings(c *gin.Context) {
	actor := actorFromContext(c)
	holdings, err := h.inventoryService.GetHoldingsByWorker(actor.Name)
	if err != nil {
		utils.LogError(err, "GetOwnHoldings: Error from inventoryService.GetHoldingsByWorker")
		respondServiceError(c, err, "Failed to fetch holdings.")
		return
	}
	c.JSON(http.StatusOK, holdings)
}

// GetAllHoldings handles GET /inventory/holdings/all (privileged).
func (h *InventoryHandler) GetAllHoldings(c *gin.Context) {
	holdings, err := h.inventoryService.GetAllHoldings()
	if err != nil {
		utils.LogError(err, "GetAllHoldings: Error from inventoryService.GetAllHoldings")
		respondServiceError(c, err, "Failed to fetch holdings.")
		return
	}
	c.JSON(http.StatusOK, holdings)
}
