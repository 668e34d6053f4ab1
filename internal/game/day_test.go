package game

import (
	mathrand "math/rand"
	"testing"

	"shelfwise/internal/catalog"
	"shelfwise/internal/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceQuietDayWithDefaultCatalog(t *testing.T) {
	s := newTestState(t, "200")
	r := s.Advance()

	assert.Equal(t, 1, r.Day)
	assert.Nil(t, r.Event)
	assert.Nil(t, s.CurrentEvent)
	require.Len(t, r.Sales, 3)
	chair := r.Sales[0]
	assert.Equal(t, "Office Chair", chair.Product)
	assert.Equal(t, 15.0, chair.Demand)
	assert.Equal(t, 15, chair.Sold)
	assert.True(t, chair.Revenue.Equal(dollars("150")))
	assert.Equal(t, 35, chair.RemainingStock)
	assert.Equal(t, 22, r.Sales[1].RemainingStock)
	assert.Equal(t, 15, r.Sales[2].RemainingStock)

	assert.True(t, r.Revenue.Equal(dollars("370")), "revenue %s", r.Revenue)
	assert.True(t, r.StorageCost.Equal(dollars("36.1")), "storage %s", r.StorageCost)
	assert.True(t, r.NetChange.Equal(dollars("333.9")))
	assert.True(t, r.BudgetAfter.Equal(dollars("533.9")))
	assert.True(t, s.Budget.Equal(dollars("533.9")))

	// Every base product ends the day at or below its reorder point.
	require.Len(t, r.Recommendations, 3)
	for _, rec := range r.Recommendations {
		assert.Equal(t, inventory.StatusCritical, rec.Status, rec.Product)
	}
	assert.Equal(t, 45.0, r.Recommendations[0].ReorderPoint)
	assert.Equal(t, 54.77, r.Recommendations[0].EOQ)
	require.NotNil(t, r.Recommendations[0].DaysOfStock)
	assert.Equal(t, 2.3, *r.Recommendations[0].DaysOfStock)

	require.Len(t, r.Alerts, 3)
	for _, a := range r.Alerts {
		assert.Equal(t, AlertLowStock, a.Type)
		assert.Equal(t, SeverityCritical, a.Severity)
	}
	assert.Equal(t, 55.0, r.Alerts[0].RecommendedOrder)

	names := make([]string, 0, len(r.NewUnlocks))
	for _, u := range r.NewUnlocks {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"Smartphone", "Headphones", "Energy Drink"}, names)

	assert.Equal(t, 2, s.Day)
	assert.Equal(t, []int{1, 2}, s.History.Days)
	assert.Equal(t, []int{50, 35}, s.History.Stock["Office Chair"])
	assert.Equal(t, 45, s.Stats.TotalSales)
	assert.Zero(t, s.Stats.TotalStockouts)
}

func TestAdvanceStockoutScenario(t *testing.T) {
	s := New(singleProductCatalog(10, 15), dollars("100"), &scriptedEvents{})
	r := s.Advance()

	p, ok := s.Product("Office Chair")
	require.True(t, ok)
	assert.Equal(t, 0, p.Stock)
	require.Len(t, r.Sales, 1)
	assert.Equal(t, 10, r.Sales[0].Sold)
	assert.True(t, r.Revenue.Equal(dollars("100")))
	assert.True(t, r.StorageCost.IsZero())
	assert.Equal(t, 1, s.Stats.TotalStockouts)

	require.NotEmpty(t, r.Alerts)
	stockout := r.Alerts[0]
	assert.Equal(t, AlertStockout, stockout.Type)
	assert.Equal(t, SeverityCritical, stockout.Severity)
	assert.Equal(t, 5.0, stockout.LostSales)
	require.NotNil(t, stockout.LostRevenue)
	assert.True(t, stockout.LostRevenue.Equal(dollars("50")))
	assert.Equal(t, AlertLowStock, r.Alerts[1].Type)
}

func TestAdvanceCalmDayDemand(t *testing.T) {
	s := New(singleProductCatalog(12, 15), dollars("100"), &scriptedEvents{events: []*Event{CalmDay()}})
	r := s.Advance()

	require.NotNil(t, r.Event)
	assert.Equal(t, EventCalmDay, r.Event.Kind)
	assert.Equal(t, 12.0, r.Sales[0].Demand)
	assert.Equal(t, 12, r.Sales[0].Sold)
	assert.Zero(t, s.Stats.TotalStockouts, "15 * 0.8 must not leave a fractional stockout")
	require.Len(t, s.EventHistory, 1)
}

func TestAdvanceReportsDemandToOneDecimal(t *testing.T) {
	// 6.37 * 1.2 = 7.644
	s := New(singleProductCatalog(30, 6.37), dollars("100"), &scriptedEvents{events: []*Event{DemandSpike()}})
	r := s.Advance()

	assert.Equal(t, 7.6, r.Sales[0].Demand)
	assert.Equal(t, 7, r.Sales[0].Sold)
}

func TestAdvanceDemandSpikeFloorsSales(t *testing.T) {
	// 8 * 1.2 = 9.6, so 9 units sell and 0.6 units are lost.
	cat := singleProductCatalog(30, 8)
	s := New(cat, dollars("100"), &scriptedEvents{events: []*Event{DemandSpike()}})
	r := s.Advance()

	assert.Equal(t, 9, r.Sales[0].Sold)
	assert.Equal(t, 9.6, r.Sales[0].Demand)
	assert.Equal(t, 21, r.Sales[0].RemainingStock)
	assert.Equal(t, 1, s.Stats.TotalStockouts)
	assert.Equal(t, AlertStockout, r.Alerts[0].Type)
	assert.InDelta(t, 0.6, r.Alerts[0].LostSales, 1e-9)
}

func TestAdvanceSpoilageHappensBeforeSales(t *testing.T) {
	s := New(singleProductCatalog(10, 5), dollars("100"), &scriptedEvents{events: []*Event{Spoilage("Office Chair", 7)}})
	r := s.Advance()

	require.Len(t, r.Alerts, 3)
	assert.Equal(t, AlertSpoilage, r.Alerts[0].Type)
	assert.Equal(t, 7, r.Alerts[0].UnitsLost)
	assert.Equal(t, AlertStockout, r.Alerts[1].Type)
	assert.Equal(t, AlertLowStock, r.Alerts[2].Type)
	assert.Equal(t, 3, r.Sales[0].Sold)
	assert.Equal(t, 0, r.Sales[0].RemainingStock)
}

func TestAdvanceSpoilageClampsAtZero(t *testing.T) {
	s := New(singleProductCatalog(2, 0), dollars("100"), &scriptedEvents{events: []*Event{Spoilage("Office Chair", 9)}})
	r := s.Advance()

	p, _ := s.Product("Office Chair")
	assert.Equal(t, 0, p.Stock)
	require.NotEmpty(t, r.Alerts)
	assert.Equal(t, AlertSpoilage, r.Alerts[0].Type)
	assert.Equal(t, 2, r.Alerts[0].UnitsLost, "only the units on the shelf can spoil")
	assert.Contains(t, r.Alerts[0].Message, "lost 2 units")
	assert.Equal(t, 9, r.Event.UnitsLost)
}

func TestAdvanceNegativeBudgetAlert(t *testing.T) {
	cat := singleProductCatalog(100, 0)
	s := New(cat, dollars("10"), &scriptedEvents{})
	r := s.Advance()

	assert.True(t, s.Budget.Equal(dollars("-40")), "budget %s", s.Budget)
	last := r.Alerts[len(r.Alerts)-1]
	assert.Equal(t, AlertNegativeBudget, last.Type)
	require.NotNil(t, last.Budget)
	assert.True(t, last.Budget.Equal(dollars("-40")))
}

func TestAdvanceNewUnlocksAreAdvisory(t *testing.T) {
	s := newTestState(t, "5000")
	r := s.Advance()

	require.Len(t, r.NewUnlocks, MaxUnlockHints)
	for _, it := range s.StoreItems {
		assert.False(t, it.Unlocked, "%s unlocked without being bought", it.Name)
	}
	assert.Len(t, s.Products, 3)
}

func TestAdvancePropertiesOverManyDays(t *testing.T) {
	rng := mathrand.New(mathrand.NewSource(7))
	s := NewGame(catalog.MustDefault(), rng)

	for day := 1; day <= 120; day++ {
		if day%4 == 0 {
			for _, p := range s.Products {
				if p.Stock < 20 {
					_, err := s.Restock(p.Name, 40)
					require.NoError(t, err)
				}
			}
		}
		if day == 30 {
			if items := s.affordableLocked(); len(items) > 0 {
				_, err := s.Unlock(items[0].Name)
				require.NoError(t, err)
			}
		}
		prevStats := s.Stats
		s.Advance()

		for _, p := range s.Products {
			require.GreaterOrEqual(t, p.Stock, 0, "%s on day %d", p.Name, day)
		}
		st := s.Stats
		assert.True(t, st.TotalRevenue.GreaterThanOrEqual(prevStats.TotalRevenue))
		assert.True(t, st.TotalStorageCosts.GreaterThanOrEqual(prevStats.TotalStorageCosts))
		assert.GreaterOrEqual(t, st.TotalSales, prevStats.TotalSales)
		assert.GreaterOrEqual(t, st.TotalStockouts, prevStats.TotalStockouts)

		want := s.InitialBudget.Add(st.TotalRevenue).Sub(st.TotalStorageCosts).Sub(st.TotalRestockCosts).Sub(st.TotalUnlockCosts)
		require.True(t, s.Budget.Equal(want), "day %d: budget %s, ledger %s", day, s.Budget, want)
	}

	assert.Equal(t, 121, s.Day)
	assert.Len(t, s.History.Budget, 121)
	assert.Len(t, s.History.Days, 121)
	assert.Len(t, s.Reports, 120)
	assert.Len(t, s.History.Stock["Office Chair"], 121)
}
