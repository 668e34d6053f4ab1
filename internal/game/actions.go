package game

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type RestockResult struct {
	Product       string          `json:"product"`
	Quantity      int             `json:"quantity"`
	Cost          decimal.Decimal `json:"cost"`
	BaseCost      decimal.Decimal `json:"base_cost"`
	DiscountSaved decimal.Decimal `json:"discount_saved"`
	NewStock      int             `json:"new_stock"`
	BudgetAfter   decimal.Decimal `json:"budget_after"`
	Warning       string          `json:"warning,omitempty"`
}

type UnlockResult struct {
	Item          string          `json:"item"`
	Category      string          `json:"category"`
	Cost          decimal.Decimal `json:"cost"`
	StartingStock int             `json:"starting_stock"`
	BudgetAfter   decimal.Decimal `json:"budget_after"`
}

// Restock orders qty units of an unlocked product. The cost is the flat
// restock cost of the product, discounted when today's event is a supplier
// discount. Going below zero is allowed and only reported as a warning.
func (s *State) Restock(name string, qty int) (RestockResult, error) {
	name = strings.TrimSpace(name)
	p, ok := s.products[name]
	if !ok {
		return RestockResult{}, fmt.Errorf("%w: product %q is not unlocked", ErrNotFound, name)
	}
	if qty <= 0 {
		return RestockResult{}, fmt.Errorf("%w: quantity must be positive, got %d", ErrValidation, qty)
	}

	base := p.CostRestock
	cost := base.Mul(s.CurrentEvent.RestockMultiplier())
	s.Budget = s.Budget.Sub(cost)
	s.Stats.TotalRestockCosts = s.Stats.TotalRestockCosts.Add(cost)
	p.Stock += qty

	res := RestockResult{
		Product:       p.Name,
		Quantity:      qty,
		Cost:          cost,
		BaseCost:      base,
		DiscountSaved: base.Sub(cost),
		NewStock:      p.Stock,
		BudgetAfter:   s.Budget,
	}
	if s.Budget.IsNegative() {
		res.Warning = fmt.Sprintf("budget is now negative: $%s", s.Budget.StringFixed(2))
	}
	return res, nil
}

// Unlock buys a store item and adds it as a live product.
func (s *State) Unlock(name string) (UnlockResult, error) {
	name = strings.TrimSpace(name)
	it, ok := s.store[name]
	if !ok {
		return UnlockResult{}, fmt.Errorf("%w: store item %q", ErrNotFound, name)
	}
	if it.Unlocked {
		return UnlockResult{}, fmt.Errorf("%w: %s", ErrAlreadyUnlocked, it.Name)
	}
	if s.Budget.LessThan(it.UnlockPrice) {
		return UnlockResult{}, fmt.Errorf("%w: %s costs $%s, budget is $%s",
			ErrInsufficientFunds, it.Name, it.UnlockPrice.StringFixed(2), s.Budget.StringFixed(2))
	}

	s.Budget = s.Budget.Sub(it.UnlockPrice)
	s.Stats.TotalUnlockCosts = s.Stats.TotalUnlockCosts.Add(it.UnlockPrice)
	s.addProduct(it.unlock())

	return UnlockResult{
		Item:          it.Name,
		Category:      it.Category,
		Cost:          it.UnlockPrice,
		StartingStock: it.StartingStock,
		BudgetAfter:   s.Budget,
	}, nil
}

type PreviewLine struct {
	Name                string          `json:"name"`
	OriginalDemand      float64         `json:"original_demand"`
	ModifiedDemand      float64         `json:"modified_demand"`
	OriginalCostStorage decimal.Decimal `json:"original_cost_storage"`
	ModifiedCostStorage decimal.Decimal `json:"modified_cost_storage"`
	OriginalCostRestock decimal.Decimal `json:"original_cost_restock"`
	ModifiedCostRestock decimal.Decimal `json:"modified_cost_restock"`
}

type Preview struct {
	DemandFactor  float64       `json:"demand_factor"`
	StorageFactor float64       `json:"storage_factor"`
	RestockFactor float64       `json:"restock_factor"`
	Products      []PreviewLine `json:"products"`
}

// Preview shows what the live products would look like under the given
// factors. It never changes the state.
func (s *State) Preview(demand, storage, restock float64) (Preview, error) {
	if demand < 0 || storage < 0 || restock < 0 {
		return Preview{}, fmt.Errorf("%w: factors must be non-negative", ErrValidation)
	}
	out := Preview{
		DemandFactor:  demand,
		StorageFactor: storage,
		RestockFactor: restock,
		Products:      make([]PreviewLine, 0, len(s.Products)),
	}
	sf := decimal.NewFromFloat(storage)
	rf := decimal.NewFromFloat(restock)
	for _, p := range s.Products {
		out.Products = append(out.Products, PreviewLine{
			Name:                p.Name,
			OriginalDemand:      p.DailyDemand,
			ModifiedDemand:      effectiveDemand(p.DailyDemand, demand),
			OriginalCostStorage: p.CostStorage,
			ModifiedCostStorage: p.CostStorage.Mul(sf),
			OriginalCostRestock: p.CostRestock,
			ModifiedCostRestock: p.CostRestock.Mul(rf),
		})
	}
	return out, nil
}
