package inventory

import "fmt"

// Item is a product as seen by the standalone recommender. Demand is annual
// and CostStorage is the holding cost per unit per year.
type Item struct {
	Name        string  `json:"name"`
	Stock       float64 `json:"stock"`
	Demand      float64 `json:"demand"`
	CostStorage float64 `json:"cost_storage"`
	CostRestock float64 `json:"cost_restock"`
}

type Recommendation struct {
	Name               string  `json:"name"`
	CurrentStock       float64 `json:"current_stock"`
	EOQ                float64 `json:"eoq"`
	ReorderPoint       float64 `json:"reorder_point"`
	AnnualDemand       float64 `json:"annual_demand"`
	OrdersPerYear      float64 `json:"orders_per_year"`
	TotalOrderingCost  float64 `json:"total_ordering_cost"`
	TotalHoldingCost   float64 `json:"total_holding_cost"`
	TotalInventoryCost float64 `json:"total_inventory_cost"`
	Status             Status  `json:"status"`
	Action             string  `json:"action"`
	Recommendation     string  `json:"recommendation"`
}

type Scenario struct {
	Name                  string  `json:"name"`
	DemandMultiplier      float64 `json:"demand_multiplier"`
	CostStorageMultiplier float64 `json:"cost_storage_multiplier"`
	CostRestockMultiplier float64 `json:"cost_restock_multiplier"`
}

type ScenarioResult struct {
	Scenario        Scenario         `json:"scenario"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Optimize computes EOQ, reorder point and annual cost figures for each item
// using a seven day lead time.
func Optimize(items []Item) []Recommendation {
	out := make([]Recommendation, 0, len(items))
	for _, it := range items {
		out = append(out, recommend(it))
	}
	return out
}

func recommend(it Item) Recommendation {
	p := Evaluate(Params{
		Stock:        it.Stock,
		Demand:       it.Demand,
		CostStorage:  it.CostStorage,
		CostRestock:  it.CostRestock,
		LeadTimeDays: StandaloneLeadTimeDays,
		Horizon:      Annual,
	})

	var orders, ordering, holding float64
	if p.EOQ > 0 {
		orders = it.Demand / p.EOQ
		ordering = orders * it.CostRestock
		holding = (p.EOQ / 2) * it.CostStorage
	}

	name := it.Name
	if name == "" {
		name = "Unknown"
	}
	return Recommendation{
		Name:               name,
		CurrentStock:       it.Stock,
		EOQ:                Round2(p.EOQ),
		ReorderPoint:       Round2(p.ReorderPoint),
		AnnualDemand:       it.Demand,
		OrdersPerYear:      Round2(orders),
		TotalOrderingCost:  Round2(ordering),
		TotalHoldingCost:   Round2(holding),
		TotalInventoryCost: Round2(ordering + holding),
		Status:             p.Status,
		Action:             p.Status.Action(),
		Recommendation:     recommendationText(p),
	}
}

func recommendationText(p Policy) string {
	switch p.Status {
	case StatusCritical:
		return fmt.Sprintf("ORDER NOW: Stock is at or below reorder point. Order %.0f units.", p.EOQ)
	case StatusWarning:
		return fmt.Sprintf("MONITOR: Stock is below optimal order quantity. Consider ordering %.0f units soon.", p.EOQ)
	default:
		return "OK: Stock levels are sufficient."
	}
}

// SimulateScenarios reruns Optimize once per scenario on a scaled copy of base.
// Multipliers are applied as given; callers fill in 1.0 for absent ones.
func SimulateScenarios(base []Item, scenarios []Scenario) []ScenarioResult {
	out := make([]ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		scaled := make([]Item, len(base))
		for i, it := range base {
			scaled[i] = Item{
				Name:        it.Name,
				Stock:       it.Stock,
				Demand:      it.Demand * sc.DemandMultiplier,
				CostStorage: it.CostStorage * sc.CostStorageMultiplier,
				CostRestock: it.CostRestock * sc.CostRestockMultiplier,
			}
		}
		out = append(out, ScenarioResult{
			Scenario:        sc,
			Recommendations: Optimize(scaled),
		})
	}
	return out
}
