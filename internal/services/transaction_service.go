package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"depot_backend/internal/models"
	"depot_backend/internal/repositories"
	"depot_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// maxTimestampRetries bounds the collision loop on log entry insertion. The
// timestamp doubles as primary key, so two requests hitting the same
// millisecond must be nudged apart; exhausting the budget fails the whole
// batch.
const maxTimestampRetries = 25

// wallClockLayout is the human-readable label stored next to the raw
// millisecond timestamp.
const wallClockLayout = "02.01.2006 15:04"

// CreateTransactionRequest is one movement to apply. Items may be referenced
// by id or by name.
type CreateTransactionRequest struct {
	Direction           string          `json:"direction" binding:"required,oneof=in out"`
	Category            string          `json:"category" binding:"required,oneof=internal trade"`
	ItemID              *int64          `json:"item_id"`
	ItemName            string          `json:"item_name"`
	Quantity            int             `json:"quantity" binding:"required,gt=0"`
	Worker              string          `json:"worker"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	TimestampHint       *int64          `json:"timestamp_hint"`
	SkipStockUpdate     bool            `json:"skip_stock_update"`
	WarningAcknowledged bool            `json:"warning_acknowledged"`
}

// TransactionService applies inventory-affecting transactions atomically:
// warehouse stock mutation, worker holding / recipe conversion, ledger entry
// insertion with collision-safe timestamps, and one audit record per call.
type TransactionService interface {
	ApplyTransactions(actor Actor, reqs []CreateTransactionRequest) ([]models.LogEntry, error)
}

type transactionService struct {
	inventoryRepo repositories.InventoryRepository
	holdingRepo   repositories.HoldingRepository
	catalogRepo   repositories.CatalogRepository
	ledgerRepo    repositories.LedgerRepository
	auditRepo     repositories.AuditRepository
	db            *sql.DB // For managing transactions
}

// NewTransactionService creates a new instance of TransactionService.
func NewTransactionService(
	ir repositories.InventoryRepository,
	hr repositories.HoldingRepository,
	cr repositories.CatalogRepository,
	lr repositories.LedgerRepository,
	ar repositories.AuditRepository,
	db *sql.DB,
) TransactionService {
	return &transactionService{
		inventoryRepo: ir,
		holdingRepo:   hr,
		catalogRepo:   cr,
		ledgerRepo:    lr,
		auditRepo:     ar,
		db:            db,
	}
}

// ApplyTransactions applies the whole batch in one database transaction.
// Either every request commits or none do. Exactly one audit record is
// written per call, also on failure (the failure record carries the error
// text and the trace collected so far).
func (s *transactionService) ApplyTransactions(actor Actor, reqs []CreateTransactionRequest) ([]models.LogEntry, error) {
	trace := []string{}

	if err := validateTransactionRequests(reqs); err != nil {
		s.auditFailure(actor, err, append(trace, "validation failed: "+err.Error()))
		return nil, err
	}

	entries, err := s.applyBatch(actor, reqs, &trace)
	if err != nil {
		// The batch transaction is already rolled back; record the failure so
		// the audit trail stays complete.
		s.auditFailure(actor, err, trace)
		return nil, err
	}
	return entries, nil
}

func (s *transactionService) applyBatch(actor Actor, reqs []CreateTransactionRequest, trace *[]string) ([]models.LogEntry, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	entries := make([]models.LogEntry, 0, len(reqs))
	for i, req := range reqs {
		*trace = append(*trace, fmt.Sprintf("request %d/%d: %s/%s %dx", i+1, len(reqs), req.Direction, req.Category, req.Quantity))
		entry, err := s.applyOne(tx, req, trace)
		if err != nil {
			*trace = append(*trace, "aborted: "+err.Error())
			return nil, err
		}
		entries = append(entries, *entry)
	}

	record := &models.AuditRecord{
		Timestamp:  time.Now().UnixMilli(),
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     models.AuditActionTransactionBatch,
		Details:    fmt.Sprintf("applied %d transactions", len(entries)),
		DebugTrace: *trace,
	}
	if len(entries) == 1 {
		e := entries[0]
		record.Action = models.AuditActionTransaction
		record.Details = fmt.Sprintf("%s %dx %s (%s) @ %s", e.Direction, e.Quantity, e.ItemName, e.Worker, e.UnitPrice.String())
	}
	if _, err := s.auditRepo.CreateRecord(tx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction batch: %w", err)
	}
	return entries, nil
}

func validateTransactionRequests(reqs []CreateTransactionRequest) error {
	if len(reqs) == 0 {
		return fmt.Errorf("%w: at least one transaction required", ErrValidation)
	}
	for i, req := range reqs {
		if req.Direction != models.DirectionIn && req.Direction != models.DirectionOut {
			return fmt.Errorf("%w: request %d: direction must be %q or %q", ErrValidation, i+1, models.DirectionIn, models.DirectionOut)
		}
		if req.Category != models.CategoryInternal && req.Category != models.CategoryTrade {
			return fmt.Errorf("%w: request %d: category must be %q or %q", ErrValidation, i+1, models.CategoryInternal, models.CategoryTrade)
		}
		if req.Quantity <= 0 {
			return fmt.Errorf("%w: request %d: quantity must be positive", ErrValidation, i+1)
		}
		if req.ItemID == nil && strings.TrimSpace(req.ItemName) == "" {
			return fmt.Errorf("%w: request %d: item id or item name required", ErrValidation, i+1)
		}
	}
	return nil
}

func (s *transactionService) applyOne(tx *sql.Tx, req CreateTransactionRequest, trace *[]string) (*models.LogEntry, error) {
	worker := strings.TrimSpace(req.Worker)
	if worker == "" {
		worker = models.WorkerUnknown
	}

	itemID := req.ItemID
	itemName := req.ItemName

	if !req.SkipStockUpdate {
		item, err := s.resolveItem(tx, req)
		if err != nil {
			return nil, err
		}
		itemID = &item.ID
		itemName = item.Name
		*trace = append(*trace, fmt.Sprintf("resolved item %d (%s), on-hand %d", item.ID, item.Name, item.OnHand))

		newOnHand := item.OnHand
		if req.Direction == models.DirectionIn {
			newOnHand += req.Quantity
		} else {
			newOnHand -= req.Quantity
			if newOnHand < 0 {
				// Shortfalls clamp to zero instead of failing; lenient by policy.
				*trace = append(*trace, fmt.Sprintf("warehouse short by %d, clamped at 0 (warning acknowledged: %t)", -newOnHand, req.WarningAcknowledged))
				newOnHand = 0
			}
		}
		if err := s.inventoryRepo.UpdateOnHand(tx, item.ID, newOnHand); err != nil {
			return nil, err
		}
		*trace = append(*trace, fmt.Sprintf("warehouse %s: %dx %s, on-hand %d -> %d", req.Direction, req.Quantity, item.Name, item.OnHand, newOnHand))
	} else {
		*trace = append(*trace, "stock update skipped")
		if req.Category == models.CategoryInternal && worker != models.WorkerUnknown && itemID != nil {
			// The holding mutation below still references the item; verify it
			// exists so a bogus id fails cleanly instead of tripping the
			// foreign key.
			item, err := s.resolveItem(tx, req)
			if err != nil {
				return nil, err
			}
			itemID = &item.ID
			if itemName == "" {
				itemName = item.Name
			}
		}
	}

	if req.Category == models.CategoryInternal && worker != models.WorkerUnknown && itemID != nil {
		if err := s.applyHolding(tx, req.Direction, worker, *itemID, itemName, req.Quantity, trace); err != nil {
			return nil, err
		}
	}

	entry := &models.LogEntry{
		Direction: req.Direction,
		Category:  req.Category,
		ItemID:    itemID,
		ItemName:  itemName,
		Quantity:  req.Quantity,
		Worker:    worker,
		UnitPrice: req.UnitPrice,
		Status:    models.StatusPending,
	}
	entry.Message = formatMovementMessage(req.Direction, req.Quantity, itemName, worker)

	timestamp := time.Now().UnixMilli()
	if req.TimestampHint != nil {
		timestamp = *req.TimestampHint
	}

	if err := s.insertWithRetry(tx, entry, timestamp, trace); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *transactionService) resolveItem(tx *sql.Tx, req CreateTransactionRequest) (*models.InventoryItem, error) {
	var item *models.InventoryItem
	var err error
	if req.ItemID != nil {
		item, err = s.inventoryRepo.GetItemByID(tx, *req.ItemID)
	} else {
		item, err = s.inventoryRepo.GetItemByName(tx, req.ItemName)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, describeItemRef(req))
		}
		return nil, err
	}
	return item, nil
}

// applyHolding moves material between the worker's personal holding and the
// warehouse. Outgoing warehouse stock lands in the holding; incoming
// production consumes recipe ingredients (or, without a recipe, the item
// itself) from the holding, clamped at zero.
func (s *transactionService) applyHolding(tx *sql.Tx, direction, worker string, itemID int64, itemName string, quantity int, trace *[]string) error {
	if direction == models.DirectionOut {
		if err := s.holdingRepo.AddQuantity(tx, worker, itemID, quantity); err != nil {
			return err
		}
		*trace = append(*trace, fmt.Sprintf("holding %s: +%dx %s", worker, quantity, itemName))
		return nil
	}

	recipe, err := s.catalogRepo.GetRecipe(tx, itemID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	if recipe != nil {
		for _, ing := range recipe.Ingredients {
			needed := ing.QuantityPerBatch * quantity
			if err := s.holdingRepo.AddQuantity(tx, worker, ing.IngredientID, -needed); err != nil {
				return err
			}
			*trace = append(*trace, fmt.Sprintf("holding %s: -%dx ingredient %d (recipe)", worker, needed, ing.IngredientID))
		}
	} else {
		if err := s.holdingRepo.AddQuantity(tx, worker, itemID, -quantity); err != nil {
			return err
		}
		*trace = append(*trace, fmt.Sprintf("holding %s: -%dx %s (no recipe)", worker, quantity, itemName))
	}

	// Deductions never leave debt: rows at or below zero are swept.
	if err := s.holdingRepo.DeleteNonPositive(tx, worker); err != nil {
		return err
	}
	return nil
}

// insertWithRetry inserts the entry at the given timestamp, nudging it
// forward by at least one millisecond on every collision, up to
// maxTimestampRetries attempts.
func (s *transactionService) insertWithRetry(tx *sql.Tx, entry *models.LogEntry, timestamp int64, trace *[]string) error {
	for attempt := 0; attempt < maxTimestampRetries; attempt++ {
		entry.Timestamp = timestamp
		entry.WallClockLabel = time.UnixMilli(timestamp).Format(wallClockLayout)

		err := s.ledgerRepo.InsertEntry(tx, entry)
		if err == nil {
			*trace = append(*trace, fmt.Sprintf("log entry inserted at %d (attempt %d)", timestamp, attempt+1))
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicateKey) {
			return err
		}
		timestamp += 1 + rand.Int63n(3)
	}
	return fmt.Errorf("%w: gave up after %d attempts", ErrUniqueKeyExhausted, maxTimestampRetries)
}

// auditFailure records a failed call outside the (rolled back) transaction so
// the audit trail stays complete even when business logic fails.
func (s *transactionService) auditFailure(actor Actor, cause error, trace []string) {
	record := &models.AuditRecord{
		Timestamp:  time.Now().UnixMilli(),
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     models.AuditActionTransactionFailed,
		Details:    cause.Error(),
		DebugTrace: trace,
	}
	if _, err := s.auditRepo.CreateRecord(s.db, record); err != nil {
		// The original failure still propagates; losing the failure record is
		// the lesser problem but worth a log line.
		utils.LogError(err, "failed to write failure audit record")
	}
}

func formatMovementMessage(direction string, quantity int, itemName, worker string) string {
	if direction == models.DirectionIn {
		return fmt.Sprintf("Stored: %dx %s (%s)", quantity, itemName, worker)
	}
	return fmt.Sprintf("Withdrawn: %dx %s (%s)", quantity, itemName, worker)
}

func describeItemRef(req CreateTransactionRequest) string {
	if req.ItemID != nil {
		return fmt.Sprintf("item id %d", *req.ItemID)
	}
	return fmt.Sprintf("item %q", req.ItemName)
}
