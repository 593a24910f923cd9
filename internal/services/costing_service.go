package services

import (
	"database/sql"
	"errors"
	"fmt"

	"depot_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// CostingService computes the fully-loaded unit cost of an item from its
// recipe chain. Read-only; called interactively while a production entry is
// previewed.
type CostingService interface {
	ResolveCost(itemID int64) (decimal.Decimal, error)
}

type costingService struct {
	inventoryRepo repositories.InventoryRepository
	catalogRepo   repositories.CatalogRepository
	db            *sql.DB
}

// NewCostingService creates a new instance of CostingService.
func NewCostingService(ir repositories.InventoryRepository, cr repositories.CatalogRepository, db *sql.DB) CostingService {
	return &costingService{inventoryRepo: ir, catalogRepo: cr, db: db}
}

// ResolveCost walks the recipe graph:
//
//	cost(item) = wage(item) + sum(cost(ingredient) * qtyPerBatch) / outputBatchSize
//
// The wage comes from the price entry matched by item name (0 if absent) and
// the sum is 0 for items without a recipe. The recipe data does not forbid
// cycles, so the walk carries a visited set and fails with ErrCyclicRecipe
// instead of recursing forever. The result is rounded to 2 decimal places.
func (s *costingService) ResolveCost(itemID int64) (decimal.Decimal, error) {
	if _, err := s.inventoryRepo.GetItemByID(s.db, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: item id %d", ErrItemNotFound, itemID)
		}
		return decimal.Zero, err
	}

	cost, err := s.resolve(itemID, map[int64]bool{})
	if err != nil {
		return decimal.Zero, err
	}
	return cost.Round(2), nil
}

func (s *costingService) resolve(itemID int64, visited map[int64]bool) (decimal.Decimal, error) {
	if visited[itemID] {
		return decimal.Zero, fmt.Errorf("%w: item id %d seen twice", ErrCyclicRecipe, itemID)
	}
	visited[itemID] = true
	defer delete(visited, itemID)

	cost := s.baseWage(itemID)

	recipe, err := s.catalogRepo.GetRecipe(s.db, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return cost, nil
		}
		return decimal.Zero, err
	}

	ingredientCost := decimal.Zero
	for _, ing := range recipe.Ingredients {
		sub, err := s.resolve(ing.IngredientID, visited)
		if err != nil {
			return decimal.Zero, err
		}
		ingredientCost = ingredientCost.Add(sub.Mul(decimal.NewFromInt(int64(ing.QuantityPerBatch))))
	}

	batchSize := recipe.OutputBatchSize
	if batchSize < 1 {
		batchSize = 1
	}
	return cost.Add(ingredientCost.Div(decimal.NewFromInt(int64(batchSize)))), nil
}

// baseWage looks up the production wage by item name, not id; price rows are
// joined to items by name on purpose. Missing items or price rows count as 0.
func (s *costingService) baseWage(itemID int64) decimal.Decimal {
	item, err := s.inventoryRepo.GetItemByID(s.db, itemID)
	if err != nil {
		return decimal.Zero
	}
	price, err := s.catalogRepo.GetPriceByName(s.db, item.Name)
	if err != nil {
		return decimal.Zero
	}
	return price.Wage
}
