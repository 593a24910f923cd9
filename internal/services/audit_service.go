package services

import (
	"depot_backend/internal/models"
	"depot_backend/internal/repositories"
)

// AuditService lists the append-only audit trail for privileged review.
type AuditService interface {
	GetRecords(page, pageSize int) ([]models.AuditRecord, int, error)
}

type auditService struct {
	auditRepo repositories.AuditRepository
}

// NewAuditService creates a new instance of AuditService.
func NewAuditService(ar repositories.AuditRepository) AuditService {
	return &auditService{auditRepo: ar}
}

func (s *auditService) GetRecords(page, pageSize int) ([]models.AuditRecord, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return s.auditRepo.GetRecords(page, pageSize)
}
