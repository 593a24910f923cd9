package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"depot_backend/internal/models"
)

// AuditRepository defines the interface for the append-only audit trail.
// Records are inserted and read, never updated or deleted.
type AuditRepository interface {
	CreateRecord(executor SQLExecutor, record *models.AuditRecord) (int64, error)
	GetRecords(page, pageSize int) ([]models.AuditRecord, int, error)
}

type auditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new instance of AuditRepository.
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) CreateRecord(executor SQLExecutor, record *models.AuditRecord) (int64, error) {
	trace, err := json.Marshal(record.DebugTrace)
	if err != nil {
		return 0, fmt.Errorf("%w: encoding debug trace: %v", ErrDatabaseError, err)
	}

	query := `INSERT INTO audit_records (timestamp, actor_id, actor_name, action, details, debug_trace)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	err = executor.QueryRow(query, record.Timestamp, record.ActorID, record.ActorName,
		record.Action, record.Details, string(trace)).Scan(&record.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating audit record: %v", ErrDatabaseError, err)
	}
	return record.ID, nil
}

func (r *auditRepository) GetRecords(page, pageSize int) ([]models.AuditRecord, int, error) {
	query := `SELECT id, timestamp, actor_id, actor_name, action, details, debug_trace,
	                 COUNT(*) OVER() AS total_count
	          FROM audit_records
	          ORDER BY timestamp DESC, id DESC
	          LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting audit records: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	records := []models.AuditRecord{}
	totalCount := 0
	for rows.Next() {
		var record models.AuditRecord
		var trace string
		if err := rows.Scan(&record.ID, &record.Timestamp, &record.ActorID, &record.ActorName,
			&record.Action, &record.Details, &trace, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning audit record: %v", ErrDatabaseError, err)
		}
		if err := json.Unmarshal([]byte(trace), &record.DebugTrace); err != nil {
			return nil, 0, fmt.Errorf("%w: decoding debug trace for record %d: %v", ErrDatabaseError, record.ID, err)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating audit records: %v", ErrDatabaseError, err)
	}
	return records, totalCount, nil
}
