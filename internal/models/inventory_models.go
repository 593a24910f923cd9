package models

import "github.com/shopspring/decimal"

// Item priority levels for the warehouse overview. A nil priority means the
// item has not been triaged.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// InventoryItem represents one warehouse-level stock position.
// OnHand is mutated only through the transaction service or an explicit
// admin edit, and is clamped at zero on outgoing movements.
type InventoryItem struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name" binding:"required"`
	Category  string          `json:"category" db:"category"`
	OnHand    int             `json:"on_hand" db:"on_hand"`
	Target    *int            `json:"target,omitempty" db:"target"`
	Minimum   int             `json:"minimum" db:"minimum"`
	Unit      string          `json:"unit" db:"unit"`
	BasePrice decimal.Decimal `json:"base_price" db:"base_price"`
	Priority  *string         `json:"priority,omitempty" db:"priority"` // high, medium, low or NULL
	SortOrder int             `json:"sort_order" db:"sort_order"`
}

// WorkerHolding is a worker's personal, uncommitted stash of an item.
// A row only exists while the quantity is positive; rows that reach zero or
// below are deleted, never stored.
type WorkerHolding struct {
	Worker   string `json:"worker" db:"worker"`
	ItemID   int64  `json:"item_id" db:"item_id"`
	ItemName string `json:"item_name,omitempty"` // joined from inventory_items for display
	Quantity int    `json:"quantity" db:"quantity"`
}
