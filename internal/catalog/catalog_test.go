package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	require.Len(t, c.Products, 3)
	chair := c.Products[0]
	assert.Equal(t, "Office Chair", chair.Name)
	assert.Equal(t, 50, chair.Stock)
	assert.True(t, chair.CostStorage.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, chair.CostRestock.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 15.0, chair.DailyDemand)

	require.Len(t, c.StoreItems, 10)
	assert.Equal(t, "Smartphone", c.StoreItems[0].Name)
	assert.True(t, c.StoreItems[0].UnlockPrice.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "Electronics", c.StoreItems[0].Category)

	for _, kind := range EventKinds() {
		assert.NotEmpty(t, c.Events[kind].Name, kind)
	}
}

func TestParseRejectsBadEntries(t *testing.T) {
	tests := map[string]string{
		"duplicate": `
products:
  - {name: A, stock: 1, cost_storage: 1, cost_restock: 1, sale_price: 1, daily_demand: 1}
store_items:
  - {name: A, unlock_price: 10, starting_stock: 1}
`,
		"negative stock": `
products:
  - {name: A, stock: -1}
`,
		"missing name": `
products:
  - {stock: 3}
`,
		"not yaml": "products: [",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalog))
		})
	}
}

func TestParseFillsMissingEventTemplates(t *testing.T) {
	c, err := Parse([]byte(`
products:
  - {name: A, stock: 2, cost_storage: 0.1, cost_restock: 5, sale_price: 2, daily_demand: 1}
`))
	require.NoError(t, err)
	assert.Len(t, c.Events, 4)
	assert.Equal(t, "Supplier Sale", c.Events[EventSupplierDiscount].Name)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
products:
  - {name: Widget, stock: 7, cost_storage: 0.25, cost_restock: 12, sale_price: 3, daily_demand: 4}
store_items:
  - {name: Gadget, unlock_price: 90, starting_stock: 5, cost_storage: 0.5, cost_restock: 20, sale_price: 9, daily_demand: 2}
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Products, 1)
	assert.Equal(t, "Widget", c.Products[0].Name)
	require.Len(t, c.StoreItems, 1)
	assert.Equal(t, "General", c.StoreItems[0].Category)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEventTemplateRender(t *testing.T) {
	tmpl := EventTemplate{Description: "{product} lost {units} units."}
	got := tmpl.Render(map[string]string{"product": "Desk Lamp", "units": "3"})
	assert.Equal(t, "Desk Lamp lost 3 units.", got)
	assert.Equal(t, tmpl.Description, tmpl.Render(nil))
}

func TestByCategoryAndOrdering(t *testing.T) {
	c := MustDefault()
	groups := ByCategory(c.StoreItems)
	assert.Len(t, groups["Electronics"], 3)
	assert.Len(t, groups["Premium"], 2)
	assert.Equal(t, []string{"Electronics", "Food & Beverage", "Office Supplies", "Premium"}, Categories(c.StoreItems))

	sorted := CheapestFirst(c.StoreItems)
	assert.Equal(t, "Pen Pack", sorted[0].Name)
	assert.Equal(t, "Designer Watch", sorted[len(sorted)-1].Name)
	assert.Equal(t, "Smartphone", c.StoreItems[0].Name, "input slice must not be reordered")
}

func TestAffordable(t *testing.T) {
	c := MustDefault()
	names := func(items []StoreItem) []string {
		var out []string
		for _, it := range items {
			out = append(out, it.Name)
		}
		return out
	}
	assert.Empty(t, Affordable(c.StoreItems, decimal.NewFromInt(49)))
	assert.Equal(t, []string{"Pen Pack"}, names(Affordable(c.StoreItems, decimal.NewFromInt(50))))
	assert.Equal(t, []string{"Snack Box", "Notebook Set", "Pen Pack"}, names(Affordable(c.StoreItems, decimal.NewFromInt(120))))
}
