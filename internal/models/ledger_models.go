package models

import "github.com/shopspring/decimal"

// Movement directions relative to the warehouse.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Movement categories. Internal movements are worker production/withdrawal
// and earn wages; trade movements are purchases/sales against outsiders.
const (
	CategoryInternal = "internal"
	CategoryTrade    = "trade"
)

// Wage payment statuses carried by a ledger entry. There is no "reverted"
// status: reverting an entry deletes the row outright, mirroring the
// compensating stock mutation.
const (
	StatusPending     = "pending"
	StatusOutstanding = "outstanding"
	StatusPaid        = "paid"
)

// WorkerUnknown is the sentinel worker name for movements that are not
// attributable to a person. Entries carrying it never touch worker holdings.
const WorkerUnknown = "unknown"

// LogEntry is one recorded stock movement. Timestamp (unix milliseconds) is
// both the primary key and the sort key; the transaction service resolves
// collisions by nudging the timestamp forward before insert.
//
// Entries are created by the transaction service, status-transitioned by the
// payroll service, and deleted by the revert service. Nothing else writes
// them.
type LogEntry struct {
	Timestamp      int64           `json:"timestamp" db:"timestamp"`
	Direction      string          `json:"direction" db:"direction"`
	Category       string          `json:"category" db:"category"`
	ItemID         *int64          `json:"item_id,omitempty" db:"item_id"`
	ItemName       string          `json:"item_name" db:"item_name"`
	Quantity       int             `json:"quantity" db:"quantity"`
	Worker         string          `json:"worker" db:"worker"`
	UnitPrice      decimal.Decimal `json:"unit_price" db:"unit_price"`
	Message        string          `json:"message" db:"message"`
	WallClockLabel string          `json:"wall_clock_label" db:"wall_clock_label"`
	Status         string          `json:"status" db:"status"`
}

// LogEntryFilters narrows ledger listings.
type LogEntryFilters struct {
	Worker   *string
	Status   *string
	Category *string
}
