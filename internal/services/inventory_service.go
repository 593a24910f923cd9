package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"depot_backend/internal/models"
	"depot_backend/internal/repositories"
)

// InventoryService is the read and admin-edit surface over warehouse stock
// and worker holdings. Regular stock movement goes through the
// TransactionService; the item writes here are the explicit admin edit path.
type InventoryService interface {
	GetItems() ([]models.InventoryItem, error)
	GetItemByID(id int64) (*models.InventoryItem, error)
	GetLowStockItems() ([]models.InventoryItem, error)
	CreateItem(item *models.InventoryItem) (*models.InventoryItem, error)
	UpdateItem(item *models.InventoryItem) (*models.InventoryItem, error)
	GetHoldingsByWorker(worker string) ([]models.WorkerHolding, error)
	GetAllHoldings() ([]models.WorkerHolding, error)
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	holdingRepo   repositories.HoldingRepository
	db            *sql.DB
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(ir repositories.InventoryRepository, hr repositories.HoldingRepository, db *sql.DB) InventoryService {
	return &inventoryService{inventoryRepo: ir, holdingRepo: hr, db: db}
}

func (s *inventoryService) GetItems() ([]models.InventoryItem, error) {
	return s.inventoryRepo.GetItems(s.db)
}

func (s *inventoryService) GetItemByID(id int64) (*models.InventoryItem, error) {
	item, err := s.inventoryRepo.GetItemByID(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: item id %d", ErrItemNotFound, id)
		}
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) GetLowStockItems() ([]models.InventoryItem, error) {
	return s.inventoryRepo.GetLowStockItems(s.db)
}

func (s *inventoryService) CreateItem(item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if _, err := s.inventoryRepo.CreateItem(s.db, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) UpdateItem(item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.UpdateItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: item id %d", ErrItemNotFound, item.ID)
		}
		return nil, err
	}
	return item, nil
}

func validateItem(item *models.InventoryItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: item name required", ErrValidation)
	}
	if item.OnHand < 0 {
		return fmt.Errorf("%w: on-hand quantity must not be negative", ErrValidation)
	}
	if item.Minimum < 0 {
		return fmt.Errorf("%w: minimum must not be negative", ErrValidation)
	}
	if item.Priority != nil {
		switch *item.Priority {
		case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		default:
			return fmt.Errorf("%w: priority must be high, medium or low", ErrValidation)
		}
	}
	return nil
}

func (s *inventoryService) GetHoldingsByWorker(worker string) ([]models.WorkerHolding, error) {
	return s.holdingRepo.GetHoldingsByWorker(s.db, worker)
}

func (s *inventoryService) GetAllHoldings() ([]models.WorkerHolding, error) {
	return s.holdingRepo.GetAllHoldings(s.db)
}
