package services_test

import (
	"testing"

	"depot_backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCost(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)
	svc := services.NewCostingService(e.inventory, e.catalog, e.db)

	cases := []struct {
		name   string
		itemID int64
		want   string
	}{
		// Raw material: wage only.
		{"Eisen", itemEisen, "10"},
		// 80 + (4*10 + 2*10) / 2
		{"Stahl", itemStahl, "110"},
		// 100 + 5*110 + 25*15
		{"PistolClip", itemPistolClip, "1025"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cost, err := svc.ResolveCost(tc.itemID)
			require.NoError(t, err)
			assert.True(t, cost.Equal(dec(t, tc.want)), "got %s, want %s", cost, tc.want)
		})
	}
}

func TestResolveCostWithoutPriceEntry(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)
	e.exec(t, `INSERT INTO inventory_items (id, name, on_hand) VALUES (?, ?, ?)`, 6, "Schrott", 7)
	svc := services.NewCostingService(e.inventory, e.catalog, e.db)

	cost, err := svc.ResolveCost(6)
	require.NoError(t, err)
	assert.True(t, cost.IsZero(), "got %s, want 0", cost)
}

func TestResolveCostUnknownItem(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)
	svc := services.NewCostingService(e.inventory, e.catalog, e.db)

	_, err := svc.ResolveCost(999)
	assert.ErrorIs(t, err, services.ErrItemNotFound)
}

func TestResolveCostCyclicRecipe(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)
	e.exec(t, `INSERT INTO inventory_items (id, name, on_hand) VALUES (?, ?, ?)`, 7, "Huhn", 1)
	e.exec(t, `INSERT INTO inventory_items (id, name, on_hand) VALUES (?, ?, ?)`, 8, "Ei", 1)
	e.exec(t, `INSERT INTO recipes (product_id, output_batch_size) VALUES (7, 1)`)
	e.exec(t, `INSERT INTO recipes (product_id, output_batch_size) VALUES (8, 1)`)
	e.exec(t, `INSERT INTO recipe_ingredients (product_id, ingredient_id, quantity_per_batch) VALUES (7, 8, 1)`)
	e.exec(t, `INSERT INTO recipe_ingredients (product_id, ingredient_id, quantity_per_batch) VALUES (8, 7, 1)`)
	svc := services.NewCostingService(e.inventory, e.catalog, e.db)

	_, err := svc.ResolveCost(7)
	assert.ErrorIs(t, err, services.ErrCyclicRecipe)
}

func TestResolveCostSharedIngredientIsNotACycle(t *testing.T) {
	e := newTestEnv(t)
	e.seedCatalog(t)
	// Diamond: product 9 uses Stahl twice removed and Eisen directly. Eisen
	// is then visited twice on disjoint paths, which is legal.
	e.exec(t, `INSERT INTO inventory_items (id, name, on_hand) VALUES (?, ?, ?)`, 9, "Werkzeug", 0)
	e.exec(t, `INSERT INTO price_entries (name, wage) VALUES ('Werkzeug', '5')`)
	e.exec(t, `INSERT INTO recipes (product_id, output_batch_size) VALUES (9, 1)`)
	e.exec(t, `INSERT INTO recipe_ingredients (product_id, ingredient_id, quantity_per_batch) VALUES (9, ?, 1)`, itemStahl)
	e.exec(t, `INSERT INTO recipe_ingredients (product_id, ingredient_id, quantity_per_batch) VALUES (9, ?, 2)`, itemEisen)
	svc := services.NewCostingService(e.inventory, e.catalog, e.db)

	cost, err := svc.ResolveCost(9)
	require.NoError(t, err)
	// 5 + 110 + 2*10
	assert.True(t, cost.Equal(dec(t, "135")), "got %s", cost)
}
