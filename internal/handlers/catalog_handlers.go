package handlers

import (
	"net/http"

	"depot_backend/internal/services"
	"depot_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler holds the catalog and costing services.
type CatalogHandler struct {
	catalogService services.CatalogService
	costingService services.CostingService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs services.CatalogService, costs services.CostingService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs, costingService: costs}
}

// GetPrices handles GET /prices.
func (h *CatalogHandler) GetPrices(c *gin.Context) {
	prices, err := h.catalogService.GetPrices()
	if err != nil {
		utils.LogError(err, "GetPrices: Error from catalogService.GetPrices")
		respondServiceError(c, err, "Failed to fetch price entries.")
		return
	}
	c.JSON(http.StatusOK, prices)
}

// GetRecipe handles GET /recipes/:productId.
func (h *CatalogHandler) GetRecipe(c *gin.Context) {
	productID, err := utils.StrToInt64(c.Param("productId"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", err.Error()))
		return
	}

	recipe, err := h.catalogService.GetRecipe(productID)
	if err != nil {
		utils.LogError(err, "GetRecipe: Error from catalogService.GetRecipe")
		respondServiceError(c, err, "Failed to fetch recipe.")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// ResolveCost handles GET /costing/:itemId: the recursive unit cost preview
// for a production entry.
func (h *CatalogHandler) ResolveCost(c *gin.Context) {
	itemID, err := utils.StrToInt64(c.Param("itemId"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid item ID format.", err.Error()))
		return
	}

	cost, err := h.costingService.ResolveCost(itemID)
	if err != nil {
		utils.LogError(err, "ResolveCost: Error from costingService.ResolveCost")
		respondServiceError(c, err, "Failed to resolve item cost.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": itemID, "unit_cost": cost})
}
