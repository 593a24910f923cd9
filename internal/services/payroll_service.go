package services

import (
	"database/sql"
	"fmt"
	"time"

	"depot_backend/internal/models"
	"depot_backend/internal/repositories"
	"depot_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// PayrollService drives the wage-status state machine over ledger entries:
//
//	pending -> outstanding  (CloseWeek, entries dated on/before the week end)
//	pending -> paid         (PayWeek for the current week, Pay by ids)
//	outstanding -> paid     (PayOutstanding)
//	paid -> pending         (Pay by ids, the manual "unmark" toggle)
//
// Every mutation runs in one database transaction and writes one audit
// record carrying the matched-row count.
type PayrollService interface {
	CloseWeek(actor Actor, worker string, weekEnd int64) (int64, error)
	PayWeek(actor Actor, worker string, weekEnd int64) (int64, error)
	PayOutstanding(actor Actor, worker string) (int64, error)
	Pay(actor Actor, timestamps []int64, status string) (int64, error)
	GetBalance(worker string) (decimal.Decimal, error)
	GetAllBalances() (map[string]decimal.Decimal, error)
}

type payrollService struct {
	ledgerRepo repositories.LedgerRepository
	auditRepo  repositories.AuditRepository
	db         *sql.DB // For managing transactions
}

// NewPayrollService creates a new instance of PayrollService.
func NewPayrollService(lr repositories.LedgerRepository, ar repositories.AuditRepository, db *sql.DB) PayrollService {
	return &payrollService{ledgerRepo: lr, auditRepo: ar, db: db}
}

// CloseWeek moves every still-pending entry of the worker dated on/before
// weekEnd to outstanding, so earned wages age visibly instead of silently.
// Idempotent: re-running matches no rows because the filter only sees
// pending entries.
func (s *payrollService) CloseWeek(actor Actor, worker string, weekEnd int64) (int64, error) {
	return s.transition(actor, models.AuditActionCloseWeek,
		fmt.Sprintf("close week for %s up to %d", worker, weekEnd),
		func(tx *sql.Tx) (int64, error) {
			return s.ledgerRepo.UpdateStatusBefore(tx, worker, weekEnd, models.StatusPending, models.StatusOutstanding, nil)
		})
}

// PayWeek pays the worker's pending internal entries of the week directly,
// skipping the outstanding stage. Trade entries never earn wages and are
// excluded.
func (s *payrollService) PayWeek(actor Actor, worker string, weekEnd int64) (int64, error) {
	category := models.CategoryInternal
	return s.transition(actor, models.AuditActionPayWeek,
		fmt.Sprintf("pay week for %s up to %d", worker, weekEnd),
		func(tx *sql.Tx) (int64, error) {
			return s.ledgerRepo.UpdateStatusBefore(tx, worker, weekEnd, models.StatusPending, models.StatusPaid, &category)
		})
}

// PayOutstanding settles everything the worker is still owed from closed
// weeks.
func (s *payrollService) PayOutstanding(actor Actor, worker string) (int64, error) {
	return s.transition(actor, models.AuditActionPayOutstanding,
		fmt.Sprintf("pay outstanding for %s", worker),
		func(tx *sql.Tx) (int64, error) {
			return s.ledgerRepo.UpdateStatusByWorker(tx, worker, models.StatusOutstanding, models.StatusPaid)
		})
}

// Pay sets the named pending entries to paid, or paid ones back to pending
// for the manual "unmark as paid" toggle. Entries in any other state are
// left alone; outstanding wages settle through PayOutstanding only. An empty
// id list is a no-op, not an error.
func (s *payrollService) Pay(actor Actor, timestamps []int64, status string) (int64, error) {
	if status != models.StatusPaid && status != models.StatusPending {
		err := fmt.Errorf("%w: pay status must be %q or %q", ErrValidation, models.StatusPaid, models.StatusPending)
		s.auditFailure(actor, err)
		return 0, err
	}
	fromStatus := models.StatusPending
	if status == models.StatusPending {
		fromStatus = models.StatusPaid
	}
	return s.transition(actor, models.AuditActionPay,
		fmt.Sprintf("set %d entries to %s", len(timestamps), status),
		func(tx *sql.Tx) (int64, error) {
			return s.ledgerRepo.UpdateStatusByTimestamps(tx, timestamps, fromStatus, status)
		})
}

func (s *payrollService) transition(actor Actor, action, details string, op func(tx *sql.Tx) (int64, error)) (int64, error) {
	if !actor.IsPrivileged() {
		err := fmt.Errorf("%w: %s requires a privileged role", ErrUnauthorized, action)
		s.auditFailure(actor, err)
		return 0, err
	}

	moved, err := s.runTransition(actor, action, details, op)
	if err != nil {
		// Rolled back already; keep the failure on record.
		s.auditFailure(actor, err)
		return 0, err
	}
	return moved, nil
}

func (s *payrollService) runTransition(actor Actor, action, details string, op func(tx *sql.Tx) (int64, error)) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	moved, err := op(tx)
	if err != nil {
		return 0, err
	}

	record := &models.AuditRecord{
		Timestamp:  time.Now().UnixMilli(),
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     action,
		Details:    details,
		DebugTrace: []string{fmt.Sprintf("%s: %d entries moved", details, moved)},
	}
	if _, err := s.auditRepo.CreateRecord(tx, record); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit payroll transition: %w", err)
	}
	return moved, nil
}

// GetBalance returns the worker's owed wages: the sum of unitPrice*quantity
// over their outstanding entries.
func (s *payrollService) GetBalance(worker string) (decimal.Decimal, error) {
	return s.ledgerRepo.SumByWorkerAndStatus(s.db, worker, models.StatusOutstanding)
}

// GetAllBalances returns the outstanding totals grouped by worker.
func (s *payrollService) GetAllBalances() (map[string]decimal.Decimal, error) {
	return s.ledgerRepo.SumGroupedByWorker(s.db, models.StatusOutstanding)
}

func (s *payrollService) auditFailure(actor Actor, cause error) {
	record := &models.AuditRecord{
		Timestamp:  time.Now().UnixMilli(),
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     models.AuditActionPayrollFailed,
		Details:    cause.Error(),
		DebugTrace: []string{cause.Error()},
	}
	if _, err := s.auditRepo.CreateRecord(s.db, record); err != nil {
		utils.LogError(err, "failed to write payroll failure audit record")
	}
}

// WeekEnd returns the end of the working week containing now. A week runs
// Saturday 00:00:00 through Friday 23:59:59 local time; the returned instant
// is the last millisecond of that Friday.
func WeekEnd(now time.Time) time.Time {
	daysUntilFriday := (int(time.Friday) - int(now.Weekday()) + 7) % 7
	friday := now.AddDate(0, 0, daysUntilFriday)
	endExclusive := time.Date(friday.Year(), friday.Month(), friday.Day(), 0, 0, 0, 0, friday.Location()).AddDate(0, 0, 1)
	return endExclusive.Add(-time.Millisecond)
}
