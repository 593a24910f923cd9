package models

// Audit actions recorded by the mutating entry points. Every outer call
// writes exactly one record, including on failure.
const (
	AuditActionTransaction       = "TRANSACTION"
	AuditActionTransactionBatch  = "TRANSACTION_BATCH"
	AuditActionTransactionFailed = "TRANSACTION_FAILED"
	AuditActionCloseWeek         = "PAYROLL_CLOSE_WEEK"
	AuditActionPayWeek           = "PAYROLL_PAY_WEEK"
	AuditActionPayOutstanding    = "PAYROLL_PAY_OUTSTANDING"
	AuditActionPay               = "PAYROLL_PAY"
	AuditActionPayrollFailed     = "PAYROLL_FAILED"
	AuditActionRevert            = "REVERT"
	AuditActionRevertFailed      = "REVERT_FAILED"
)

// AuditRecord is one append-only row describing a mutating operation.
// DebugTrace keeps the ordered human-readable step trace of the call; it is
// persisted as a JSON array. Records are never edited or deleted.
type AuditRecord struct {
	ID         int64    `json:"id" db:"id"`
	Timestamp  int64    `json:"timestamp" db:"timestamp"`
	ActorID    int64    `json:"actor_id" db:"actor_id"`
	ActorName  string   `json:"actor_name" db:"actor_name"`
	Action     string   `json:"action" db:"action"`
	Details    string   `json:"details" db:"details"`
	DebugTrace []string `json:"debug_trace" db:"debug_trace"`
}
