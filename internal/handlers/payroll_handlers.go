package handlers

import (
	"net/http"
	"time"

	"depot_backend/internal/services"
	"depot_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PayrollHandler holds the payroll service.
type PayrollHandler struct {
	payrollService services.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler.
func NewPayrollHandler(ps services.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: ps}
}

// WeekRequest names a worker and optionally the week-end timestamp (unix
// milliseconds). When absent, the current working week's end (Friday
// 23:59:59 local) is used.
type WeekRequest struct {
	Worker  string `json:"worker" binding:"required"`
	WeekEnd *int64 `json:"week_end"`
}

func (r WeekRequest) weekEnd() int64 {
	if r.WeekEnd != nil {
		return *r.WeekEnd
	}
	return services.WeekEnd(time.Now()).UnixMilli()
}

// PayRequest names ledger entries by timestamp and the status to set.
type PayRequest struct {
	Timestamps []int64 `json:"timestamps"`
	Status     string  `json:"status" binding:"required"`
}

// CloseWeek handles POST /payroll/close-week.
func (h *PayrollHandler) CloseWeek(c *gin.Context) {
	h.runWeekTransition(c, "Failed to close week.", h.payrollService.CloseWeek)
}

// PayWeek handles POST /payroll/pay-week.
func (h *PayrollHandler) PayWeek(c *gin.Context) {
	h.runWeekTransition(c, "Failed to pay week.", h.payrollService.PayWeek)
}

func (h *PayrollHandler) runWeekTransition(c *gin.Context, failureMessage string, op func(services.Actor, string, int64) (int64, error)) {
	var req WeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	moved, err := op(actorFromContext(c), req.Worker, req.weekEnd())
	if err != nil {
		utils.LogError(err, "Payroll week transition failed")
		respondServiceError(c, err, failureMessage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"worker": req.Worker, "entries_moved": moved})
}

// PayOutstanding handles POST /payroll/pay-outstanding.
func (h *PayrollHandler) PayOutstanding(c *gin.Context) {
	var req struct {
		Worker string `json:"worker" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	moved, err := h.payrollService.PayOutstanding(actorFromContext(c), req.Worker)
	if err != nil {
		utils.LogError(err, "PayOutstanding: Error from payrollService.PayOutstanding")
		respondServiceError(c, err, "Failed to pay outstanding wages.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"worker": req.Worker, "entries_moved": moved})
}

// Pay handles POST /payroll/pay.
func (h *PayrollHandler) Pay(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	moved, err := h.payrollService.Pay(actorFromContext(c), req.Timestamps, req.Status)
	if err != nil {
		utils.LogError(err, "Pay: Error from payrollService.Pay")
		respondServiceError(c, err, "Failed to update payment status.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries_moved": moved, "status": req.Status})
}

// GetBalance handles GET /payroll/balance. Workers see their own balance;
// privileged callers may pass ?worker= to inspect someone else's.
func (h *PayrollHandler) GetBalance(c *gin.Context) {
	actor := actorFromContext(c)
	worker := actor.Name
	if requested := c.Query("worker"); requested != "" && requested != actor.Name {
		if !actor.IsPrivileged() {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You may only view your own balance.", ""))
			return
		}
		worker = requested
	}

	balance, err := h.payrollService.GetBalance(worker)
	if err != nil {
		utils.LogError(err, "GetBalance: Error from payrollService.GetBalance")
		respondServiceError(c, err, "Failed to fetch balance.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"worker": worker, "balance": balance})
}

// GetAllBalances handles GET /payroll/balances.
func (h *PayrollHandler) GetAllBalances(c *gin.Context) {
	balances, err := h.payrollService.GetAllBalances()
	if err != nil {
		utils.LogError(err, "GetAllBalances: Error from payrollService.GetAllBalances")
		respondServiceError(c, err, "Failed to fetch balances.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances})
}
