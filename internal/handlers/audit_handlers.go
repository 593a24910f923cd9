package handlers

import (
	"net/http"

	"depot_backend/internal/services"
	"depot_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuditHandler holds the audit service.
type AuditHandler struct {
	auditService services.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(as services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: as}
}

// GetRecords handles GET /audit (privileged).
func (h *AuditHandler) GetRecords(c *gin.Context) {
	page, pageSize := parsePagination(c)

	records, totalCount, err := h.auditService.GetRecords(page, pageSize)
	if err != nil {
		utils.LogError(err, "GetRecords: Error from auditService.GetRecords")
		respondServiceError(c, err, "Failed to fetch audit records.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      records,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}
