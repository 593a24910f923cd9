package services

import (
	"depot_backend/internal/models"
	"depot_backend/internal/repositories"
)

// LedgerService is the read surface over the movement log.
type LedgerService interface {
	GetEntries(filters models.LogEntryFilters, page, pageSize int) ([]models.LogEntry, int, error)
}

type ledgerService struct {
	ledgerRepo repositories.LedgerRepository
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(lr repositories.LedgerRepository) LedgerService {
	return &ledgerService{ledgerRepo: lr}
}

func (s *ledgerService) GetEntries(filters models.LogEntryFilters, page, pageSize int) ([]models.LogEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return s.ledgerRepo.GetEntries(filters, page, pageSize)
}
