package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"depot_backend/internal/models"
	"depot_backend/internal/repositories"
	"depot_backend/pkg/utils"
)

// RevertService compensates a single ledger entry: the inverse warehouse
// stock delta is applied, the entry is deleted, and an audit record is
// written, all in one transaction.
//
// Known, deliberate limitation: only the direct warehouse delta is reversed.
// Worker holding changes and recipe consumption from the original
// transaction stay as they are; existing data was produced under this
// asymmetry and silently "completing" the reversal would change its meaning.
type RevertService interface {
	Revert(actor Actor, timestamp int64) error
}

type revertService struct {
	inventoryRepo repositories.InventoryRepository
	ledgerRepo    repositories.LedgerRepository
	auditRepo     repositories.AuditRepository
	db            *sql.DB // For managing transactions
}

// NewRevertService creates a new instance of RevertService.
func NewRevertService(
	ir repositories.InventoryRepository,
	lr repositories.LedgerRepository,
	ar repositories.AuditRepository,
	db *sql.DB,
) RevertService {
	return &revertService{inventoryRepo: ir, ledgerRepo: lr, auditRepo: ar, db: db}
}

func (s *revertService) Revert(actor Actor, timestamp int64) error {
	if !actor.IsPrivileged() {
		err := fmt.Errorf("%w: revert requires a privileged role", ErrUnauthorized)
		s.auditFailure(actor, timestamp, err)
		return err
	}

	if err := s.revertTx(actor, timestamp); err != nil {
		// Rolled back already; keep the failure on record.
		s.auditFailure(actor, timestamp, err)
		return err
	}
	return nil
}

func (s *revertService) revertTx(actor Actor, timestamp int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	trace := []string{fmt.Sprintf("revert requested for log entry %d", timestamp)}

	entry, err := s.ledgerRepo.GetEntryByTimestamp(tx, timestamp)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			err = fmt.Errorf("%w: timestamp %d", ErrEntryNotFound, timestamp)
		}
		return err
	}

	if entry.ItemID != nil {
		item, err := s.inventoryRepo.GetItemByID(tx, *entry.ItemID)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			// Item deleted since the entry was written; nothing to compensate.
			trace = append(trace, fmt.Sprintf("item %d no longer exists, stock untouched", *entry.ItemID))
		case err != nil:
			return err
		default:
			newOnHand := item.OnHand
			if entry.Direction == models.DirectionIn {
				newOnHand -= entry.Quantity
				if newOnHand < 0 {
					newOnHand = 0
				}
			} else {
				newOnHand += entry.Quantity
			}
			if err := s.inventoryRepo.UpdateOnHand(tx, item.ID, newOnHand); err != nil {
				return err
			}
			trace = append(trace, fmt.Sprintf("inverse stock delta: %s on-hand %d -> %d", item.Name, item.OnHand, newOnHand))
		}
	}
	// Holding-side effects of the original transaction are intentionally not
	// reversed (see the service doc comment).

	if err := s.ledgerRepo.DeleteEntry(tx, timestamp); err != nil {
		return err
	}
	trace = append(trace, "log entry deleted")

	record := &models.AuditRecord{
		Timestamp:  time.Now().UnixMilli(),
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     models.AuditActionRevert,
		Details:    fmt.Sprintf("reverted: %s", entry.Message),
		DebugTrace: trace,
	}
	if _, err := s.auditRepo.CreateRecord(tx, record); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit revert: %w", err)
	}
	return nil
}

func (s *revertService) auditFailure(actor Actor, timestamp int64, cause error) {
	record := &models.AuditRecord{
		Timestamp:  time.Now().UnixMilli(),
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     models.AuditActionRevertFailed,
		Details:    cause.Error(),
		DebugTrace: []string{fmt.Sprintf("revert of %d failed: %v", timestamp, cause)},
	}
	if _, err := s.auditRepo.CreateRecord(s.db, record); err != nil {
		utils.LogError(err, "failed to write revert failure audit record")
	}
}
