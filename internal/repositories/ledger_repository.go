package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"depot_backend/internal/models"

	"github.com/shopspring/decimal"
)

// LedgerRepository defines the interface for ledger (log entry) persistence.
// timestamp is both primary key and sort key; InsertEntry surfaces collisions
// as ErrDuplicateKey so the transaction service can retry with a nudged
// timestamp.
type LedgerRepository interface {
	InsertEntry(executor SQLExecutor, entry *models.LogEntry) error
	GetEntryByTimestamp(executor SQLExecutor, timestamp int64) (*models.LogEntry, error)
	DeleteEntry(executor SQLExecutor, timestamp int64) error
	GetEntries(filters models.LogEntryFilters, page, pageSize int) ([]models.LogEntry, int, error)

	// Status transitions. Each returns the number of rows moved.
	UpdateStatusBefore(executor SQLExecutor, worker string, before int64, fromStatus, toStatus string, category *string) (int64, error)
	UpdateStatusByWorker(executor SQLExecutor, worker string, fromStatus, toStatus string) (int64, error)
	UpdateStatusByTimestamps(executor SQLExecutor, timestamps []int64, fromStatus, toStatus string) (int64, error)

	SumByWorkerAndStatus(executor SQLExecutor, worker, status string) (decimal.Decimal, error)
	SumGroupedByWorker(executor SQLExecutor, status string) (map[string]decimal.Decimal, error)
}

type ledgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new instance of LedgerRepository.
func NewLedgerRepository(db *sql.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

const logEntryColumns = `timestamp, direction, category, item_id, item_name, quantity, worker, unit_price, message, wall_clock_label, status`

func scanLogEntry(s scanner) (*models.LogEntry, error) {
	var entry models.LogEntry
	var itemID sql.NullInt64
	err := s.Scan(&entry.Timestamp, &entry.Direction, &entry.Category, &itemID,
		&entry.ItemName, &entry.Quantity, &entry.Worker, &entry.UnitPrice,
		&entry.Message, &entry.WallClockLabel, &entry.Status)
	if err != nil {
		return nil, err
	}
	if itemID.Valid {
		id := itemID.Int64
		entry.ItemID = &id
	}
	return &entry, nil
}

// InsertEntry reports a timestamp collision as ErrDuplicateKey via
// ON CONFLICT DO NOTHING rather than by letting the INSERT fail: a failed
// statement would poison the enclosing PostgreSQL transaction and make the
// caller's retry impossible.
func (r *ledgerRepository) InsertEntry(executor SQLExecutor, entry *models.LogEntry) error {
	query := `INSERT INTO log_entries (` + logEntryColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          ON CONFLICT (timestamp) DO NOTHING`

	var itemID sql.NullInt64
	if entry.ItemID != nil {
		itemID = sql.NullInt64{Int64: *entry.ItemID, Valid: true}
	}

	result, err := executor.Exec(query, entry.Timestamp, entry.Direction, entry.Category, itemID,
		entry.ItemName, entry.Quantity, entry.Worker, entry.UnitPrice,
		entry.Message, entry.WallClockLabel, entry.Status)
	if err != nil {
		return fmt.Errorf("%w: inserting log entry: %v", ErrDatabaseError, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking insert of log entry %d: %v", ErrDatabaseError, entry.Timestamp, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: log entry timestamp %d", ErrDuplicateKey, entry.Timestamp)
	}
	return nil
}

func (r *ledgerRepository) GetEntryByTimestamp(executor SQLExecutor, timestamp int64) (*models.LogEntry, error) {
	query := `SELECT ` + logEntryColumns + ` FROM log_entries WHERE timestamp = $1`
	entry, err := scanLogEntry(executor.QueryRow(query, timestamp))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting log entry %d: %v", ErrDatabaseError, timestamp, err)
	}
	return entry, nil
}

func (r *ledgerRepository) DeleteEntry(executor SQLExecutor, timestamp int64) error {
	result, err := executor.Exec(`DELETE FROM log_entries WHERE timestamp = $1`, timestamp)
	if err != nil {
		return fmt.Errorf("%w: deleting log entry %d: %v", ErrDatabaseError, timestamp, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking delete of log entry %d: %v", ErrDatabaseError, timestamp, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ledgerRepository) GetEntries(filters models.LogEntryFilters, page, pageSize int) ([]models.LogEntry, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + logEntryColumns + `, COUNT(*) OVER() AS total_count FROM log_entries`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Worker != nil && *filters.Worker != "" {
		conditions = append(conditions, fmt.Sprintf("worker = $%d", argCount))
		args = append(args, *filters.Worker)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.Category != nil && *filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCount))
		args = append(args, *filters.Category)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY timestamp DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting log entries: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	entries := []models.LogEntry{}
	totalCount := 0
	for rows.Next() {
		var entry models.LogEntry
		var itemID sql.NullInt64
		if err := rows.Scan(&entry.Timestamp, &entry.Direction, &entry.Category, &itemID,
			&entry.ItemName, &entry.Quantity, &entry.Worker, &entry.UnitPrice,
			&entry.Message, &entry.WallClockLabel, &entry.Status, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning log entry: %v", ErrDatabaseError, err)
		}
		if itemID.Valid {
			id := itemID.Int64
			entry.ItemID = &id
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating log entries: %v", ErrDatabaseError, err)
	}
	return entries, totalCount, nil
}

func (r *ledgerRepository) UpdateStatusBefore(executor SQLExecutor, worker string, before int64, fromStatus, toStatus string, category *string) (int64, error) {
	var result sql.Result
	var err error
	if category != nil {
		result, err = executor.Exec(
			`UPDATE log_entries SET status = $1 WHERE worker = $2 AND status = $3 AND timestamp <= $4 AND category = $5`,
			toStatus, worker, fromStatus, before, *category)
	} else {
		result, err = executor.Exec(
			`UPDATE log_entries SET status = $1 WHERE worker = $2 AND status = $3 AND timestamp <= $4`,
			toStatus, worker, fromStatus, before)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: moving entries %s->%s for %s: %v", ErrDatabaseError, fromStatus, toStatus, worker, err)
	}
	return result.RowsAffected()
}

func (r *ledgerRepository) UpdateStatusByWorker(executor SQLExecutor, worker string, fromStatus, toStatus string) (int64, error) {
	result, err := executor.Exec(
		`UPDATE log_entries SET status = $1 WHERE worker = $2 AND status = $3`,
		toStatus, worker, fromStatus)
	if err != nil {
		return 0, fmt.Errorf("%w: moving entries %s->%s for %s: %v", ErrDatabaseError, fromStatus, toStatus, worker, err)
	}
	return result.RowsAffected()
}

// UpdateStatusByTimestamps only moves entries currently in fromStatus, so a
// batch naming entries in other states leaves those rows alone.
func (r *ledgerRepository) UpdateStatusByTimestamps(executor SQLExecutor, timestamps []int64, fromStatus, toStatus string) (int64, error) {
	if len(timestamps) == 0 {
		return 0, nil
	}

	placeholders := make([]string, 0, len(timestamps))
	args := make([]interface{}, 0, len(timestamps)+2)
	args = append(args, toStatus, fromStatus)
	for i, ts := range timestamps {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+3))
		args = append(args, ts)
	}

	query := fmt.Sprintf(`UPDATE log_entries SET status = $1 WHERE status = $2 AND timestamp IN (%s)`, strings.Join(placeholders, ", "))
	result, err := executor.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: setting status %s on %d entries: %v", ErrDatabaseError, toStatus, len(timestamps), err)
	}
	return result.RowsAffected()
}

func (r *ledgerRepository) SumByWorkerAndStatus(executor SQLExecutor, worker, status string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := executor.QueryRow(
		`SELECT COALESCE(SUM(unit_price * quantity), 0) FROM log_entries WHERE worker = $1 AND status = $2`,
		worker, status,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: summing %s entries for %s: %v", ErrDatabaseError, status, worker, err)
	}
	return sum, nil
}

func (r *ledgerRepository) SumGroupedByWorker(executor SQLExecutor, status string) (map[string]decimal.Decimal, error) {
	rows, err := executor.Query(
		`SELECT worker, COALESCE(SUM(unit_price * quantity), 0)
		 FROM log_entries WHERE status = $1 GROUP BY worker ORDER BY worker`, status)
	if err != nil {
		return nil, fmt.Errorf("%w: summing %s entries by worker: %v", ErrDatabaseError, status, err)
	}
	defer rows.Close()

	sums := map[string]decimal.Decimal{}
	for rows.Next() {
		var worker string
		var sum decimal.Decimal
		if err := rows.Scan(&worker, &sum); err != nil {
			return nil, fmt.Errorf("%w: scanning worker sum: %v", ErrDatabaseError, err)
		}
		sums[worker] = sum
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating worker sums: %v", ErrDatabaseError, err)
	}
	return sums, nil
}
