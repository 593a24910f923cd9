package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"depot_backend/internal/models"
)

// InventoryRepository defines the interface for warehouse stock persistence.
type InventoryRepository interface {
	GetItemByID(executor SQLExecutor, id int64) (*models.InventoryItem, error)
	GetItemByName(executor SQLExecutor, name string) (*models.InventoryItem, error)
	GetItems(executor SQLExecutor) ([]models.InventoryItem, error)
	GetLowStockItems(executor SQLExecutor) ([]models.InventoryItem, error)
	CreateItem(executor SQLExecutor, item *models.InventoryItem) (int64, error)
	UpdateItem(executor SQLExecutor, item *models.InventoryItem) error
	UpdateOnHand(executor SQLExecutor, id int64, onHand int) error
}

type inventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

const inventoryItemColumns = `id, name, category, on_hand, target, minimum, unit, base_price, priority, sort_order`

func scanInventoryItem(s scanner) (*models.InventoryItem, error) {
	var item models.InventoryItem
	var target sql.NullInt64
	var priority sql.NullString

	err := s.Scan(&item.ID, &item.Name, &item.Category, &item.OnHand, &target,
		&item.Minimum, &item.Unit, &item.BasePrice, &priority, &item.SortOrder)
	if err != nil {
		return nil, err
	}
	if target.Valid {
		t := int(target.Int64)
		item.Target = &t
	}
	if priority.Valid {
		p := priority.String
		item.Priority = &p
	}
	return &item, nil
}

func (r *inventoryRepository) GetItemByID(executor SQLExecutor, id int64) (*models.InventoryItem, error) {
	query := `SELECT ` + inventoryItemColumns + ` FROM inventory_items WHERE id = $1`
	item, err := scanInventoryItem(executor.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting inventory item %d: %v", ErrDatabaseError, id, err)
	}
	return item, nil
}

func (r *inventoryRepository) GetItemByName(executor SQLExecutor, name string) (*models.InventoryItem, error) {
	query := `SELECT ` + inventoryItemColumns + ` FROM inventory_items WHERE name = $1`
	item, err := scanInventoryItem(executor.QueryRow(query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting inventory item %q: %v", ErrDatabaseError, name, err)
	}
	return item, nil
}

func (r *inventoryRepository) GetItems(executor SQLExecutor) ([]models.InventoryItem, error) {
	query := `SELECT ` + inventoryItemColumns + ` FROM inventory_items ORDER BY sort_order, name`
	return r.queryItems(executor, query)
}

func (r *inventoryRepository) GetLowStockItems(executor SQLExecutor) ([]models.InventoryItem, error) {
	query := `SELECT ` + inventoryItemColumns + ` FROM inventory_items WHERE on_hand < minimum ORDER BY sort_order, name`
	return r.queryItems(executor, query)
}

func (r *inventoryRepository) queryItems(executor SQLExecutor, query string, args ...interface{}) ([]models.InventoryItem, error) {
	rows, err := executor.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getting inventory items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	items := []models.InventoryItem{}
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning inventory item: %v", ErrDatabaseError, err)
		}
		items = append(items, *item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating inventory items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *inventoryRepository) CreateItem(executor SQLExecutor, item *models.InventoryItem) (int64, error) {
	query := `INSERT INTO inventory_items (name, category, on_hand, target, minimum, unit, base_price, priority, sort_order)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	var target sql.NullInt64
	if item.Target != nil {
		target = sql.NullInt64{Int64: int64(*item.Target), Valid: true}
	}
	var priority sql.NullString
	if item.Priority != nil {
		priority = sql.NullString{String: *item.Priority, Valid: true}
	}

	err := executor.QueryRow(query, item.Name, item.Category, item.OnHand, target,
		item.Minimum, item.Unit, item.BasePrice, priority, item.SortOrder).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: item name %q", ErrDuplicateKey, item.Name)
		}
		return 0, fmt.Errorf("%w: creating inventory item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *inventoryRepository) UpdateItem(executor SQLExecutor, item *models.InventoryItem) error {
	query := `UPDATE inventory_items
	          SET name = $1, category = $2, on_hand = $3, target = $4, minimum = $5,
	              unit = $6, base_price = $7, priority = $8, sort_order = $9
	          WHERE id = $10`

	var target sql.NullInt64
	if item.Target != nil {
		target = sql.NullInt64{Int64: int64(*item.Target), Valid: true}
	}
	var priority sql.NullString
	if item.Priority != nil {
		priority = sql.NullString{String: *item.Priority, Valid: true}
	}

	result, err := executor.Exec(query, item.Name, item.Category, item.OnHand, target,
		item.Minimum, item.Unit, item.BasePrice, priority, item.SortOrder, item.ID)
	if err != nil {
		return fmt.Errorf("%w: updating inventory item %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking update of inventory item %d: %v", ErrDatabaseError, item.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *inventoryRepository) UpdateOnHand(executor SQLExecutor, id int64, onHand int) error {
	result, err := executor.Exec(`UPDATE inventory_items SET on_hand = $1 WHERE id = $2`, onHand, id)
	if err != nil {
		return fmt.Errorf("%w: updating on-hand for item %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking on-hand update for item %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
