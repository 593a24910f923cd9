package models

import "github.com/shopspring/decimal"

// PriceEntry holds the purchase/sale prices and the production wage for an
// item. Entries are joined to InventoryItem by name, not by id; this
// denormalization is load-bearing (price rows may exist for items that have
// no inventory row) and must not be "fixed" to an id join.
type PriceEntry struct {
	Name          string          `json:"name" db:"name" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price" db:"sale_price"`
	Wage          decimal.Decimal `json:"wage" db:"wage"`
	Note          *string         `json:"note,omitempty" db:"note"`
}

// RecipeIngredient is one input line of a recipe: QuantityPerBatch units of
// the ingredient are consumed per produced batch.
type RecipeIngredient struct {
	ProductID        int64 `json:"product_id" db:"product_id"`
	IngredientID     int64 `json:"ingredient_id" db:"ingredient_id"`
	QuantityPerBatch int   `json:"quantity_per_batch" db:"quantity_per_batch"`
}

// Recipe converts ingredient quantities into OutputBatchSize units of the
// product. Recipes may nest (an ingredient can itself have a recipe); the
// data does not forbid cycles, so every recursive walk over recipes must
// carry its own cycle guard.
type Recipe struct {
	ProductID       int64              `json:"product_id" db:"product_id"`
	OutputBatchSize int                `json:"output_batch_size" db:"output_batch_size"`
	Ingredients     []RecipeIngredient `json:"ingredients"`
}
