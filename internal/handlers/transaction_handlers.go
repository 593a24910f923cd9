package handlers

import (
	"net/http"

	"depot_backend/internal/models"
	"depot_backend/internal/services"
	"depot_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TransactionHandler holds the transaction, revert and ledger services.
type TransactionHandler struct {
	txService     services.TransactionService
	revertService services.RevertService
	ledgerService services.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ts services.TransactionService, rs services.RevertService, ls services.LedgerService) *TransactionHandler {
	return &TransactionHandler{txService: ts, revertService: rs, ledgerService: ls}
}

// ApplyTransactionsRequest wraps a batch of movements; the batch commits or
// fails as a whole.
type ApplyTransactionsRequest struct {
	Transactions []services.CreateTransactionRequest `json:"transactions" binding:"required,dive"`
}

// ApplyTransactions handles POST /transactions.
func (h *TransactionHandler) ApplyTransactions(c *gin.Context) {
	var req ApplyTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	entries, err := h.txService.ApplyTransactions(actorFromContext(c), req.Transactions)
	if err != nil {
		utils.LogError(err, "ApplyTransactions: Error from txService.ApplyTransactions")
		respondServiceError(c, err, "Failed to apply transactions.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"log_entries": entries})
}

// GetLogEntries handles GET /transactions.
func (h *TransactionHandler) GetLogEntries(c *gin.Context) {
	var filters models.LogEntryFilters
	if worker := c.Query("worker"); worker != "" {
		filters.Worker = &worker
	}
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}
	if category := c.Query("category"); category != "" {
		filters.Category = &category
	}
	page, pageSize := parsePagination(c)

	entries, totalCount, err := h.ledgerService.GetEntries(filters, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetLogEntries: Error from ledgerService.GetEntries")
		respondServiceError(c, err, "Failed to fetch log entries.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      entries,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// RevertTransaction handles DELETE /transactions/:timestamp.
func (h *TransactionHandler) RevertTransaction(c *gin.Context) {
	timestamp, err := utils.StrToInt64(c.Param("timestamp"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid timestamp format.", err.Error()))
		return
	}

	if err := h.revertService.Revert(actorFromContext(c), timestamp); err != nil {
		utils.LogError(err, "RevertTransaction: Error from revertService.Revert")
		respondServiceError(c, err, "Failed to revert transaction.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction reverted", "timestamp": timestamp})
}
