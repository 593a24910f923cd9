package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"depot_backend/internal/models"
)

// HoldingRepository defines the interface for per-worker holding persistence.
// Quantities in worker_holdings are always positive; AddQuantity upserts and
// DeleteNonPositive sweeps rows that a deduction pushed to zero or below.
type HoldingRepository interface {
	GetQuantity(executor SQLExecutor, worker string, itemID int64) (int, error)
	AddQuantity(executor SQLExecutor, worker string, itemID int64, delta int) error
	DeleteNonPositive(executor SQLExecutor, worker string) error
	GetHoldingsByWorker(executor SQLExecutor, worker string) ([]models.WorkerHolding, error)
	GetAllHoldings(executor SQLExecutor) ([]models.WorkerHolding, error)
}

type holdingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new instance of HoldingRepository.
func NewHoldingRepository(db *sql.DB) HoldingRepository {
	return &holdingRepository{db: db}
}

// GetQuantity returns 0 (not ErrNotFound) for an absent row: absence means
// the worker holds none of the item.
func (r *holdingRepository) GetQuantity(executor SQLExecutor, worker string, itemID int64) (int, error) {
	var quantity int
	err := executor.QueryRow(
		`SELECT quantity FROM worker_holdings WHERE worker = $1 AND item_id = $2`,
		worker, itemID,
	).Scan(&quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: getting holding (%s, %d): %v", ErrDatabaseError, worker, itemID, err)
	}
	return quantity, nil
}

func (r *holdingRepository) AddQuantity(executor SQLExecutor, worker string, itemID int64, delta int) error {
	query := `INSERT INTO worker_holdings (worker, item_id, quantity)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (worker, item_id)
	          DO UPDATE SET quantity = worker_holdings.quantity + excluded.quantity`
	if _, err := executor.Exec(query, worker, itemID, delta); err != nil {
		return fmt.Errorf("%w: adjusting holding (%s, %d) by %d: %v", ErrDatabaseError, worker, itemID, delta, err)
	}
	return nil
}

func (r *holdingRepository) DeleteNonPositive(executor SQLExecutor, worker string) error {
	if _, err := executor.Exec(`DELETE FROM worker_holdings WHERE worker = $1 AND quantity <= 0`, worker); err != nil {
		return fmt.Errorf("%w: sweeping empty holdings for %s: %v", ErrDatabaseError, worker, err)
	}
	return nil
}

func (r *holdingRepository) GetHoldingsByWorker(executor SQLExecutor, worker string) ([]models.WorkerHolding, error) {
	query := `SELECT wh.worker, wh.item_id, ii.name, wh.quantity
	          FROM worker_holdings wh
	          JOIN inventory_items ii ON ii.id = wh.item_id
	          WHERE wh.worker = $1
	          ORDER BY ii.sort_order, ii.name`
	return r.queryHoldings(executor, query, worker)
}

func (r *holdingRepository) GetAllHoldings(executor SQLExecutor) ([]models.WorkerHolding, error) {
	query := `SELECT wh.worker, wh.item_id, ii.name, wh.quantity
	          FROM worker_holdings wh
	          JOIN inventory_items ii ON ii.id = wh.item_id
	          ORDER BY wh.worker, ii.sort_order, ii.name`
	return r.queryHoldings(executor, query)
}

func (r *holdingRepository) queryHoldings(executor SQLExecutor, query string, args ...interface{}) ([]models.WorkerHolding, error) {
	rows, err := executor.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getting worker holdings: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	holdings := []models.WorkerHolding{}
	for rows.Next() {
		var h models.WorkerHolding
		if err := rows.Scan(&h.Worker, &h.ItemID, &h.ItemName, &h.Quantity); err != nil {
			return nil, fmt.Errorf("%w: scanning worker holding: %v", ErrDatabaseError, err)
		}
		holdings = append(holdings, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating worker holdings: %v", ErrDatabaseError, err)
	}
	return holdings, nil
}
