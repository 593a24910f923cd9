package services_test

import (
	"database/sql"
	"testing"

	"depot_backend/internal/models"
	"depot_backend/internal/repositories"
	"depot_backend/internal/services"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testSchema mirrors db/schema.sql for SQLite. Serial columns become
// INTEGER PRIMARY KEY AUTOINCREMENT; everything else carries over.
const testSchema = `
CREATE TABLE inventory_items (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL UNIQUE,
    category    TEXT NOT NULL DEFAULT '',
    on_hand     INTEGER NOT NULL DEFAULT 0 CHECK (on_hand >= 0),
    target      INTEGER,
    minimum     INTEGER NOT NULL DEFAULT 0,
    unit        TEXT NOT NULL DEFAULT '',
    base_price  NUMERIC NOT NULL DEFAULT 0,
    priority    TEXT CHECK (priority IN ('high', 'medium', 'low')),
    sort_order  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE worker_holdings (
    worker    TEXT NOT NULL,
    item_id   INTEGER NOT NULL,
    quantity  INTEGER NOT NULL,
    PRIMARY KEY (worker, item_id)
);

CREATE TABLE price_entries (
    name            TEXT PRIMARY KEY,
    purchase_price  NUMERIC NOT NULL DEFAULT 0,
    sale_price      NUMERIC NOT NULL DEFAULT 0,
    wage            NUMERIC NOT NULL DEFAULT 0,
    note            TEXT
);

CREATE TABLE recipes (
    product_id         INTEGER PRIMARY KEY,
    output_batch_size  INTEGER NOT NULL DEFAULT 1 CHECK (output_batch_size >= 1)
);

CREATE TABLE recipe_ingredients (
    product_id          INTEGER NOT NULL,
    ingredient_id       INTEGER NOT NULL,
    quantity_per_batch  INTEGER NOT NULL CHECK (quantity_per_batch > 0),
    PRIMARY KEY (product_id, ingredient_id)
);

CREATE TABLE log_entries (
    timestamp         INTEGER PRIMARY KEY,
    direction         TEXT NOT NULL CHECK (direction IN ('in', 'out')),
    category          TEXT NOT NULL CHECK (category IN ('internal', 'trade')),
    item_id           INTEGER,
    item_name         TEXT NOT NULL,
    quantity          INTEGER NOT NULL CHECK (quantity > 0),
    worker            TEXT NOT NULL,
    unit_price        NUMERIC NOT NULL DEFAULT 0,
    message           TEXT NOT NULL DEFAULT '',
    wall_clock_label  TEXT NOT NULL DEFAULT '',
    status            TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'outstanding', 'paid'))
);

CREATE TABLE audit_records (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp    INTEGER NOT NULL,
    actor_id     INTEGER NOT NULL,
    actor_name   TEXT NOT NULL,
    action       TEXT NOT NULL,
    details      TEXT NOT NULL DEFAULT '',
    debug_trace  TEXT NOT NULL DEFAULT '[]'
);
`

// Well-known item ids seeded by seedCatalog.
const (
	itemEisen      = int64(1)
	itemKohle      = int64(2)
	itemPulver     = int64(3)
	itemStahl      = int64(4)
	itemPistolClip = int64(5)
)

type testEnv struct {
	db        *sql.DB
	inventory repositories.InventoryRepository
	holdings  repositories.HoldingRepository
	catalog   repositories.CatalogRepository
	ledger    repositories.LedgerRepository
	audit     repositories.AuditRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// In-memory databases exist per connection; keep a single one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return &testEnv{
		db:        db,
		inventory: repositories.NewInventoryRepository(db),
		holdings:  repositories.NewHoldingRepository(db),
		catalog:   repositories.NewCatalogRepository(db),
		ledger:    repositories.NewLedgerRepository(db),
		audit:     repositories.NewAuditRepository(db),
	}
}

// seedCatalog loads the production fixture: raw materials, two producible
// items with nested recipes, and their wage entries.
func (e *testEnv) seedCatalog(t *testing.T) {
	t.Helper()

	items := []struct {
		id     int64
		name   string
		onHand int
	}{
		{itemEisen, "Eisen", 100},
		{itemKohle, "Kohle", 100},
		{itemPulver, "S-Pulver", 50},
		{itemStahl, "Stahl", 10},
		{itemPistolClip, "PistolClip", 0},
	}
	for _, it := range items {
		e.exec(t, `INSERT INTO inventory_items (id, name, on_hand) VALUES (?, ?, ?)`, it.id, it.name, it.onHand)
	}

	wages := map[string]string{
		"Eisen":      "10",
		"Kohle":      "10",
		"S-Pulver":   "15",
		"Stahl":      "80",
		"PistolClip": "100",
	}
	for name, wage := range wages {
		e.exec(t, `INSERT INTO price_entries (name, wage) VALUES (?, ?)`, name, wage)
	}

	// Stahl: 4 Eisen + 2 Kohle per batch of 2.
	e.exec(t, `INSERT INTO recipes (product_id, output_batch_size) VALUES (?, ?)`, itemStahl, 2)
	e.exec(t, `INSERT INTO recipe_ingredients (product_id, ingredient_id, quantity_per_batch) VALUES (?, ?, ?)`, itemStahl, itemEisen, 4)
	e.exec(t, `INSERT INTO recipe_ingredients (product_id, ingredient_id, quantity_per_batch) VALUES (?, ?, ?)`, itemStahl, itemKohle, 2)

	// PistolClip: 5 Stahl + 25 S-Pulver per single unit.
	e.exec(t, `INSERT INTO recipes (product_id, output_batch_size) VALUES (?, ?)`, itemPistolClip, 1)
	e.exec(t, `INSERT INTO recipe_ingredients (product_id, ingredient_id, quantity_per_batch) VALUES (?, ?, ?)`, itemPistolClip, itemStahl, 5)
	e.exec(t, `INSERT INTO recipe_ingredients (product_id, ingredient_id, quantity_per_batch) VALUES (?, ?, ?)`, itemPistolClip, itemPulver, 25)
}

func (e *testEnv) exec(t *testing.T, query string, args ...any) {
	t.Helper()
	_, err := e.db.Exec(query, args...)
	require.NoError(t, err)
}

func (e *testEnv) seedHolding(t *testing.T, worker string, itemID int64, quantity int) {
	t.Helper()
	e.exec(t, `INSERT INTO worker_holdings (worker, item_id, quantity) VALUES (?, ?, ?)`, worker, itemID, quantity)
}

func (e *testEnv) seedLogEntry(t *testing.T, entry models.LogEntry) {
	t.Helper()
	if entry.Status == "" {
		entry.Status = models.StatusPending
	}
	require.NoError(t, e.ledger.InsertEntry(e.db, &entry))
}

func (e *testEnv) onHand(t *testing.T, itemID int64) int {
	t.Helper()
	item, err := e.inventory.GetItemByID(e.db, itemID)
	require.NoError(t, err)
	return item.OnHand
}

func (e *testEnv) holdingQty(t *testing.T, worker string, itemID int64) int {
	t.Helper()
	qty, err := e.holdings.GetQuantity(e.db, worker, itemID)
	require.NoError(t, err)
	return qty
}

func (e *testEnv) entryStatus(t *testing.T, timestamp int64) string {
	t.Helper()
	entry, err := e.ledger.GetEntryByTimestamp(e.db, timestamp)
	require.NoError(t, err)
	return entry.Status
}

func (e *testEnv) auditActions(t *testing.T) []string {
	t.Helper()
	records, _, err := e.audit.GetRecords(1, 200)
	require.NoError(t, err)
	actions := make([]string, 0, len(records))
	for _, r := range records {
		actions = append(actions, r.Action)
	}
	return actions
}

func admin() services.Actor {
	return services.Actor{ID: 1, Name: "boss", Role: services.RoleAdmin}
}

func worker(name string) services.Actor {
	return services.Actor{ID: 2, Name: name, Role: services.RoleWorker}
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
