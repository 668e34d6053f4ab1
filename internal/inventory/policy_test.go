package inventory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEOQ(t *testing.T) {
	tests := []struct {
		name                     string
		demand, restock, storage float64
		want                     float64
	}{
		{name: "wilson", demand: 1000, restock: 100, storage: 2.5, want: math.Sqrt(80000)},
		{name: "daily chair", demand: 15, restock: 50, storage: 0.5, want: math.Sqrt(3000)},
		{name: "zero storage", demand: 15, restock: 50, storage: 0, want: 0},
		{name: "zero demand", demand: 0, restock: 50, storage: 0.5, want: 0},
		{name: "negative storage", demand: 15, restock: 50, storage: -1, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, EOQ(tc.demand, tc.restock, tc.storage), 1e-9)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		stock, rop, eoq float64
		want            Status
	}{
		{stock: 0, rop: 0, eoq: 0, want: StatusCritical},
		{stock: 45, rop: 45, eoq: 54.77, want: StatusCritical},
		{stock: 50, rop: 45, eoq: 54.77, want: StatusWarning},
		{stock: 54.77, rop: 45, eoq: 54.77, want: StatusOK},
		{stock: 100, rop: 45, eoq: 54.77, want: StatusOK},
		{stock: 10, rop: 5, eoq: 0, want: StatusOK},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Classify(tc.stock, tc.rop, tc.eoq), "stock=%v rop=%v eoq=%v", tc.stock, tc.rop, tc.eoq)
	}
}

func TestGamePolicyUsesThreeDayLeadTime(t *testing.T) {
	p := GamePolicy(50, 15, 0.5, 50)
	assert.Equal(t, 15.0, p.DailyRate)
	assert.Equal(t, 45.0, p.ReorderPoint)
	assert.InDelta(t, 54.77, p.EOQ, 0.01)
	assert.Equal(t, StatusWarning, p.Status)
	assert.Equal(t, "monitor", p.Status.Action())
}

func TestEvaluateAnnualHorizon(t *testing.T) {
	p := Evaluate(Params{
		Stock:        50,
		Demand:       1000,
		CostStorage:  2.5,
		CostRestock:  100,
		LeadTimeDays: StandaloneLeadTimeDays,
		Horizon:      Annual,
	})
	assert.InDelta(t, 1000.0/365, p.DailyRate, 1e-12)
	assert.InDelta(t, 19.178, p.ReorderPoint, 0.001)
	assert.InDelta(t, 282.84, p.EOQ, 0.01)
	assert.Equal(t, StatusWarning, p.Status)
}

func TestOrderQuantity(t *testing.T) {
	assert.Equal(t, 1, OrderQuantity(0))
	assert.Equal(t, 55, OrderQuantity(54.77))
	assert.Equal(t, 283, OrderQuantity(282.84))
	assert.Equal(t, 3, OrderQuantity(3))
}

func TestOptimizeScenario(t *testing.T) {
	recs := Optimize([]Item{{Name: "Widget A", Stock: 50, Demand: 1000, CostStorage: 2.5, CostRestock: 100}})
	require.Len(t, recs, 1)
	r := recs[0]
	assert.Equal(t, 282.84, r.EOQ)
	assert.Equal(t, 19.18, r.ReorderPoint)
	assert.Equal(t, 3.54, r.OrdersPerYear)
	assert.Equal(t, 353.55, r.TotalOrderingCost)
	assert.Equal(t, 353.55, r.TotalHoldingCost)
	assert.Equal(t, 707.11, r.TotalInventoryCost)
	assert.Equal(t, StatusWarning, r.Status)
	assert.Contains(t, r.Recommendation, "MONITOR")
}

func TestOptimizeEdgeCases(t *testing.T) {
	recs := Optimize([]Item{
		{Stock: 5, Demand: 0, CostStorage: 1, CostRestock: 10},
		{Name: "Free storage", Stock: 5, Demand: 365, CostStorage: 0, CostRestock: 10},
		{Name: "Plenty", Stock: 5000, Demand: 5000, CostStorage: 1.5, CostRestock: 150},
	})
	require.Len(t, recs, 3)

	assert.Equal(t, "Unknown", recs[0].Name)
	assert.Equal(t, 0.0, recs[0].EOQ)
	assert.Equal(t, 0.0, recs[0].TotalInventoryCost)
	assert.Equal(t, StatusOK, recs[0].Status)

	assert.Equal(t, 0.0, recs[1].EOQ)
	assert.Equal(t, 7.0, recs[1].ReorderPoint)
	assert.Equal(t, StatusCritical, recs[1].Status)
	assert.Contains(t, recs[1].Recommendation, "ORDER NOW")

	assert.Equal(t, StatusOK, recs[2].Status)
	assert.Equal(t, "OK: Stock levels are sufficient.", recs[2].Recommendation)
}

func TestSimulateScenariosLeavesBaseUntouched(t *testing.T) {
	base := []Item{{Name: "Widget A", Stock: 50, Demand: 1000, CostStorage: 2.5, CostRestock: 100}}
	results := SimulateScenarios(base, []Scenario{
		{Name: "baseline", DemandMultiplier: 1, CostStorageMultiplier: 1, CostRestockMultiplier: 1},
		{Name: "double demand", DemandMultiplier: 2, CostStorageMultiplier: 1, CostRestockMultiplier: 1},
		{Name: "pricey storage", DemandMultiplier: 1, CostStorageMultiplier: 4, CostRestockMultiplier: 1},
	})
	require.Len(t, results, 3)
	assert.Equal(t, 282.84, results[0].Recommendations[0].EOQ)
	assert.Equal(t, 400.0, results[1].Recommendations[0].EOQ)
	assert.Equal(t, 2000.0, results[1].Recommendations[0].AnnualDemand)
	assert.Equal(t, 141.42, results[2].Recommendations[0].EOQ)
	assert.Equal(t, "pricey storage", results[2].Scenario.Name)

	assert.Equal(t, 1000.0, base[0].Demand)
	assert.Equal(t, 2.5, base[0].CostStorage)
}
