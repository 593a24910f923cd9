package services

import (
	"database/sql"
	"errors"
	"fmt"

	"depot_backend/internal/models"
	"depot_backend/internal/repositories"
)

// CatalogService exposes the read-only price and recipe catalogs. Catalog
// editing happens out-of-band.
type CatalogService interface {
	GetPrices() ([]models.PriceEntry, error)
	GetRecipe(productID int64) (*models.Recipe, error)
}

type catalogService struct {
	catalogRepo repositories.CatalogRepository
	db          *sql.DB
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(cr repositories.CatalogRepository, db *sql.DB) CatalogService {
	return &catalogService{catalogRepo: cr, db: db}
}

func (s *catalogService) GetPrices() ([]models.PriceEntry, error) {
	return s.catalogRepo.GetPrices(s.db)
}

func (s *catalogService) GetRecipe(productID int64) (*models.Recipe, error) {
	recipe, err := s.catalogRepo.GetRecipe(s.db, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: no recipe for item id %d", ErrItemNotFound, productID)
		}
		return nil, err
	}
	return recipe, nil
}
