package services_test

import (
	"testing"
	"time"

	"depot_backend/internal/models"
	"depot_backend/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayrollService(e *testEnv) services.PayrollService {
	return services.NewPayrollService(e.ledger, e.audit, e.db)
}

func pendingEntry(ts int64, worker string, quantity int, unitPrice string) models.LogEntry {
	return models.LogEntry{
		Timestamp: ts,
		Direction: models.DirectionIn,
		Category:  models.CategoryInternal,
		ItemName:  "Stahl",
		Quantity:  quantity,
		Worker:    worker,
		UnitPrice: decimal.RequireFromString(unitPrice),
		Status:    models.StatusPending,
	}
}

func TestCloseWeekMovesPendingToOutstanding(t *testing.T) {
	e := newTestEnv(t)
	svc := newPayrollService(e)

	e.seedLogEntry(t, pendingEntry(1000, "Max", 1, "80"))
	e.seedLogEntry(t, pendingEntry(2000, "Max", 2, "80"))
	// Dated after the week end, must stay pending.
	e.seedLogEntry(t, pendingEntry(9000, "Max", 1, "80"))
	// Someone else's week is untouched.
	e.seedLogEntry(t, pendingEntry(3000, "Erik", 1, "80"))

	moved, err := svc.CloseWeek(admin(), "Max", 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	assert.Equal(t, models.StatusOutstanding, e.entryStatus(t, 1000))
	assert.Equal(t, models.StatusOutstanding, e.entryStatus(t, 2000))
	assert.Equal(t, models.StatusPending, e.entryStatus(t, 9000))
	assert.Equal(t, models.StatusPending, e.entryStatus(t, 3000))

	// Second run matches nothing.
	moved, err = svc.CloseWeek(admin(), "Max", 5000)
	require.NoError(t, err)
	assert.Zero(t, moved)

	actions := e.auditActions(t)
	require.Len(t, actions, 2)
	assert.Equal(t, models.AuditActionCloseWeek, actions[0])
}

func TestCloseWeekIncludesTradeEntries(t *testing.T) {
	e := newTestEnv(t)
	svc := newPayrollService(e)

	trade := pendingEntry(1000, "Max", 1, "80")
	trade.Category = models.CategoryTrade
	e.seedLogEntry(t, trade)

	moved, err := svc.CloseWeek(admin(), "Max", 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)
}

func TestPayWeekSkipsTradeEntries(t *testing.T) {
	e := newTestEnv(t)
	svc := newPayrollService(e)

	e.seedLogEntry(t, pendingEntry(1000, "Max", 1, "80"))
	trade := pendingEntry(2000, "Max", 1, "80")
	trade.Category = models.CategoryTrade
	e.seedLogEntry(t, trade)

	moved, err := svc.PayWeek(admin(), "Max", 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)

	assert.Equal(t, models.StatusPaid, e.entryStatus(t, 1000))
	assert.Equal(t, models.StatusPending, e.entryStatus(t, 2000))
}

func TestPayOutstanding(t *testing.T) {
	e := newTestEnv(t)
	svc := newPayrollService(e)

	outstanding := pendingEntry(1000, "Max", 1, "80")
	outstanding.Status = models.StatusOutstanding
	e.seedLogEntry(t, outstanding)
	e.seedLogEntry(t, pendingEntry(2000, "Max", 1, "80"))

	moved, err := svc.PayOutstanding(admin(), "Max")
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)

	assert.Equal(t, models.StatusPaid, e.entryStatus(t, 1000))
	assert.Equal(t, models.StatusPending, e.entryStatus(t, 2000))
}

func TestPayByTimestamps(t *testing.T) {
	e := newTestEnv(t)
	svc := newPayrollService(e)

	e.seedLogEntry(t, pendingEntry(1000, "Max", 1, "80"))
	e.seedLogEntry(t, pendingEntry(2000, "Max", 1, "80"))
	e.seedLogEntry(t, pendingEntry(3000, "Max", 1, "80"))

	moved, err := svc.Pay(admin(), []int64{1000, 3000}, models.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	assert.Equal(t, models.StatusPaid, e.entryStatus(t, 1000))
	assert.Equal(t, models.StatusPending, e.entryStatus(t, 2000))
	assert.Equal(t, models.StatusPaid, e.entryStatus(t, 3000))

	// The manual toggle back.
	moved, err = svc.Pay(admin(), []int64{1000}, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)
	assert.Equal(t, models.StatusPending, e.entryStatus(t, 1000))
}

func TestPayLeavesOutstandingEntriesAlone(t *testing.T) {
	e := newTestEnv(t)
	svc := newPayrollService(e)

	outstanding := pendingEntry(1000, "Max", 1, "80")
	outstanding.Status = models.StatusOutstanding
	e.seedLogEntry(t, outstanding)

	// Neither direction of the toggle may touch an outstanding entry:
	// outstanding wages settle through PayOutstanding only.
	moved, err := svc.Pay(admin(), []int64{1000}, models.StatusPaid)
	require.NoError(t, err)
	assert.Zero(t, moved)
	assert.Equal(t, models.StatusOutstanding, e.entryStatus(t, 1000))

	moved, err = svc.Pay(admin(), []int64{1000}, models.StatusPending)
	require.NoError(t, err)
	assert.Zero(t, moved)
	assert.Equal(t, models.StatusOutstanding, e.entryStatus(t, 1000))
}

func TestPayEmptyIDListIsNoOp(t *testing.T) {
	e := newTestEnv(t)
	svc := newPayrollService(e)

	moved, err := svc.Pay(admin(), nil, models.StatusPaid)
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestPayRejectsInvalidStatus(t *testing.T) {
	e := newTestEnv(t)
	svc := newPayrollService(e)

	_, err := svc.Pay(admin(), []int64{1000}, models.StatusOutstanding)
	assert.ErrorIs(t, err, services.ErrValidation)

	actions := e.auditActions(t)
	require.Len(t, actions, 1)
	assert.Equal(t, models.AuditActionPayrollFailed, actions[0])
}

func TestPayrollRequiresPrivilegedActor(t *testing.T) {
	e := newTestEnv(t)
	svc := newPayrollService(e)

	e.seedLogEntry(t, pendingEntry(1000, "Max", 1, "80"))

	_, err := svc.CloseWeek(worker("Max"), "Max", 5000)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	_, err = svc.PayWeek(worker("Max"), "Max", 5000)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	_, err = svc.PayOutstanding(worker("Max"), "Max")
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	_, err = svc.Pay(worker("Max"), []int64{1000}, models.StatusPaid)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	assert.Equal(t, models.StatusPending, e.entryStatus(t, 1000))
	for _, action := range e.auditActions(t) {
		assert.Equal(t, models.AuditActionPayrollFailed, action)
	}
}

func TestGetBalance(t *testing.T) {
	e := newTestEnv(t)
	svc := newPayrollService(e)

	a := pendingEntry(1000, "Max", 2, "10")
	a.Status = models.StatusOutstanding
	e.seedLogEntry(t, a)
	b := pendingEntry(2000, "Max", 3, "5")
	b.Status = models.StatusOutstanding
	e.seedLogEntry(t, b)
	// Pending and paid entries are not owed.
	e.seedLogEntry(t, pendingEntry(3000, "Max", 10, "10"))
	paid := pendingEntry(4000, "Max", 10, "10")
	paid.Status = models.StatusPaid
	e.seedLogEntry(t, paid)

	balance, err := svc.GetBalance("Max")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(t, "35")), "got %s", balance)

	balance, err = svc.GetBalance("Erik")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestGetAllBalances(t *testing.T) {
	e := newTestEnv(t)
	svc := newPayrollService(e)

	for i, w := range []string{"Max", "Max", "Erik"} {
		entry := pendingEntry(int64(1000*(i+1)), w, 1, "20")
		entry.Status = models.StatusOutstanding
		e.seedLogEntry(t, entry)
	}

	balances, err := svc.GetAllBalances()
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.True(t, balances["Max"].Equal(dec(t, "40")), "got %s", balances["Max"])
	assert.True(t, balances["Erik"].Equal(dec(t, "20")), "got %s", balances["Erik"])
}

func TestWeekEnd(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"midweek",
			time.Date(2024, 7, 10, 12, 0, 0, 0, time.Local), // Wednesday
			time.Date(2024, 7, 13, 0, 0, 0, 0, time.Local).Add(-time.Millisecond),
		},
		{
			"friday maps to its own day",
			time.Date(2024, 7, 12, 8, 30, 0, 0, time.Local),
			time.Date(2024, 7, 13, 0, 0, 0, 0, time.Local).Add(-time.Millisecond),
		},
		{
			"saturday starts the next week",
			time.Date(2024, 7, 13, 1, 0, 0, 0, time.Local),
			time.Date(2024, 7, 20, 0, 0, 0, 0, time.Local).Add(-time.Millisecond),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := services.WeekEnd(tc.now)
			assert.Equal(t, tc.want.UnixMilli(), got.UnixMilli())
		})
	}
}
