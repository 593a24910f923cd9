package services_test

import (
	"testing"

	"depot_backend/internal/models"
	"depot_backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEntriesFiltersAndPaginates(t *testing.T) {
	e := newTestEnv(t)
	svc := services.NewLedgerService(e.ledger)

	for i := int64(1); i <= 5; i++ {
		e.seedLogEntry(t, pendingEntry(i*1000, "Max", 1, "10"))
	}
	trade := pendingEntry(6000, "Erik", 1, "10")
	trade.Category = models.CategoryTrade
	e.seedLogEntry(t, trade)

	entries, total, err := svc.GetEntries(models.LogEntryFilters{}, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	require.Len(t, entries, 4)
	// Newest first.
	assert.Equal(t, int64(6000), entries[0].Timestamp)

	entries, total, err = svc.GetEntries(models.LogEntryFilters{}, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	assert.Len(t, entries, 2)

	maxOnly := "Max"
	entries, total, err = svc.GetEntries(models.LogEntryFilters{Worker: &maxOnly}, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, entries, 5)

	tradeOnly := models.CategoryTrade
	entries, total, err = svc.GetEntries(models.LogEntryFilters{Category: &tradeOnly}, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "Erik", entries[0].Worker)
}

func TestGetEntriesStatusFilter(t *testing.T) {
	e := newTestEnv(t)
	svc := services.NewLedgerService(e.ledger)

	paid := pendingEntry(1000, "Max", 1, "10")
	paid.Status = models.StatusPaid
	e.seedLogEntry(t, paid)
	e.seedLogEntry(t, pendingEntry(2000, "Max", 1, "10"))

	status := models.StatusPaid
	entries, total, err := svc.GetEntries(models.LogEntryFilters{Status: &status}, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1000), entries[0].Timestamp)
}
