package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"depot_backend/internal/models"
)

// CatalogRepository defines read access to the price and recipe catalogs.
// Both are edited out-of-band by admins and treated as immutable during a
// transaction.
type CatalogRepository interface {
	// GetPriceByName matches on item name, never on id. Operational data may
	// carry price rows with no inventory counterpart and vice versa.
	GetPriceByName(executor SQLExecutor, name string) (*models.PriceEntry, error)
	GetPrices(executor SQLExecutor) ([]models.PriceEntry, error)
	// GetRecipe returns ErrNotFound for items that are not producible.
	GetRecipe(executor SQLExecutor, productID int64) (*models.Recipe, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetPriceByName(executor SQLExecutor, name string) (*models.PriceEntry, error) {
	var entry models.PriceEntry
	var note sql.NullString
	err := executor.QueryRow(
		`SELECT name, purchase_price, sale_price, wage, note FROM price_entries WHERE name = $1`,
		name,
	).Scan(&entry.Name, &entry.PurchasePrice, &entry.SalePrice, &entry.Wage, &note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting price entry %q: %v", ErrDatabaseError, name, err)
	}
	if note.Valid {
		n := note.String
		entry.Note = &n
	}
	return &entry, nil
}

func (r *catalogRepository) GetPrices(executor SQLExecutor) ([]models.PriceEntry, error) {
	rows, err := executor.Query(`SELECT name, purchase_price, sale_price, wage, note FROM price_entries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: getting price entries: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	entries := []models.PriceEntry{}
	for rows.Next() {
		var entry models.PriceEntry
		var note sql.NullString
		if err := rows.Scan(&entry.Name, &entry.PurchasePrice, &entry.SalePrice, &entry.Wage, &note); err != nil {
			return nil, fmt.Errorf("%w: scanning price entry: %v", ErrDatabaseError, err)
		}
		if note.Valid {
			n := note.String
			entry.Note = &n
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating price entries: %v", ErrDatabaseError, err)
	}
	return entries, nil
}

func (r *catalogRepository) GetRecipe(executor SQLExecutor, productID int64) (*models.Recipe, error) {
	recipe := models.Recipe{ProductID: productID}
	err := executor.QueryRow(
		`SELECT output_batch_size FROM recipes WHERE product_id = $1`, productID,
	).Scan(&recipe.OutputBatchSize)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting recipe for product %d: %v", ErrDatabaseError, productID, err)
	}

	rows, err := executor.Query(
		`SELECT product_id, ingredient_id, quantity_per_batch
		 FROM recipe_ingredients WHERE product_id = $1 ORDER BY ingredient_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting recipe ingredients for product %d: %v", ErrDatabaseError, productID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ing models.RecipeIngredient
		if err := rows.Scan(&ing.ProductID, &ing.IngredientID, &ing.QuantityPerBatch); err != nil {
			return nil, fmt.Errorf("%w: scanning recipe ingredient: %v", ErrDatabaseError, err)
		}
		recipe.Ingredients = append(recipe.Ingredients, ing)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating recipe ingredients: %v", ErrDatabaseError, err)
	}
	return &recipe, nil
}
