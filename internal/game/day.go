package game

import (
	"fmt"
	"math"

	"shelfwise/internal/inventory"

	"github.com/shopspring/decimal"
)

type AlertType string

const (
	AlertSpoilage       AlertType = "spoilage"
	AlertStockout       AlertType = "stockout"
	AlertLowStock       AlertType = "low_stock"
	AlertOutOfStock     AlertType = "out_of_stock"
	AlertNegativeBudget AlertType = "negative_budget"
	AlertLowBudget      AlertType = "low_budget"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

type Alert struct {
	Type             AlertType        `json:"type"`
	Severity         Severity         `json:"severity"`
	Product          string           `json:"product,omitempty"`
	Message          string           `json:"message"`
	UnitsLost        int              `json:"units_lost,omitempty"`
	LostSales        float64          `json:"lost_sales,omitempty"`
	LostRevenue      *decimal.Decimal `json:"lost_revenue,omitempty"`
	CurrentStock     *int             `json:"current_stock,omitempty"`
	ReorderPoint     float64          `json:"reorder_point,omitempty"`
	RecommendedOrder float64          `json:"recommended_order,omitempty"`
	Budget           *decimal.Decimal `json:"budget,omitempty"`
}

type SaleLine struct {
	Product        string          `json:"product"`
	Demand         float64         `json:"demand"`
	Sold           int             `json:"sold"`
	Revenue        decimal.Decimal `json:"revenue"`
	RemainingStock int             `json:"remaining_stock"`
}

type Recommendation struct {
	Product      string           `json:"product"`
	CurrentStock int              `json:"current_stock"`
	ReorderPoint float64          `json:"reorder_point"`
	EOQ          float64          `json:"eoq"`
	DailyDemand  float64          `json:"daily_demand"`
	DaysOfStock  *float64         `json:"days_of_stock"`
	Status       inventory.Status `json:"status"`
}

type UnlockHint struct {
	Name        string          `json:"name"`
	UnlockPrice decimal.Decimal `json:"unlock_price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

type DayReport struct {
	Day             int              `json:"day"`
	Event           *Event           `json:"event"`
	Sales           []SaleLine       `json:"sales"`
	Revenue         decimal.Decimal  `json:"revenue"`
	StorageCost     decimal.Decimal  `json:"storage_cost"`
	NetChange       decimal.Decimal  `json:"net_change"`
	BudgetAfter     decimal.Decimal  `json:"budget_after"`
	Alerts          []Alert          `json:"alerts"`
	Recommendations []Recommendation `json:"recommendations"`
	NewUnlocks      []UnlockHint     `json:"new_unlocks"`
}

// Advance simulates one day and returns its report. The steps run in a fixed
// order: event, spoilage and sales per product, storage and budget, policy
// alerts, budget alert, unlock hints, history.
func (s *State) Advance() DayReport {
	report := DayReport{
		Day:             s.Day,
		Sales:           make([]SaleLine, 0, len(s.Products)),
		Alerts:          []Alert{},
		Recommendations: make([]Recommendation, 0, len(s.Products)),
		NewUnlocks:      []UnlockHint{},
	}

	var ev *Event
	if s.events != nil {
		ev = s.events.Generate(s.Products)
	}
	s.CurrentEvent = ev
	if ev != nil {
		s.EventHistory = append(s.EventHistory, *ev)
		recorded := *ev
		report.Event = &recorded
	}
	demandMult := ev.DemandMultiplier()

	revenue := decimal.Zero
	for _, p := range s.Products {
		if ev.spoils(p.Name) {
			lost := p.removeStock(ev.UnitsLost)
			report.Alerts = append(report.Alerts, Alert{
				Type:      AlertSpoilage,
				Severity:  SeverityHigh,
				Product:   p.Name,
				Message:   fmt.Sprintf("SPOILAGE: %s lost %d units due to quality issues!", p.Name, lost),
				UnitsLost: lost,
			})
		}

		effective := effectiveDemand(p.DailyDemand, demandMult)
		sold := min(p.Stock, int(math.Floor(effective)))
		lineRevenue := p.SalePrice.Mul(decimal.NewFromInt(int64(sold)))
		revenue = revenue.Add(lineRevenue)
		s.Stats.TotalSales += sold

		if float64(sold) < effective {
			lost := effective - float64(sold)
			lostRevenue := decimal.NewFromFloat(lost).Mul(p.SalePrice).Round(2)
			s.Stats.TotalStockouts++
			report.Alerts = append(report.Alerts, Alert{
				Type:        AlertStockout,
				Severity:    SeverityCritical,
				Product:     p.Name,
				Message:     fmt.Sprintf("STOCKOUT: %s - could not fulfill %.1f units of demand!", p.Name, lost),
				LostSales:   lost,
				LostRevenue: &lostRevenue,
			})
		}

		p.removeStock(sold)
		report.Sales = append(report.Sales, SaleLine{
			Product:        p.Name,
			Demand:         inventory.Round1(effective),
			Sold:           sold,
			Revenue:        lineRevenue,
			RemainingStock: p.Stock,
		})
	}

	storage := decimal.Zero
	for _, p := range s.Products {
		storage = storage.Add(p.CostStorage.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	net := revenue.Sub(storage)
	s.Budget = s.Budget.Add(net)
	s.Stats.TotalRevenue = s.Stats.TotalRevenue.Add(revenue)
	s.Stats.TotalStorageCosts = s.Stats.TotalStorageCosts.Add(storage)

	report.Revenue = revenue
	report.StorageCost = storage
	report.NetChange = net
	report.BudgetAfter = s.Budget

	for _, p := range s.Products {
		rec, alert := recommendFor(p)
		report.Recommendations = append(report.Recommendations, rec)
		if alert != nil {
			report.Alerts = append(report.Alerts, *alert)
		}
	}

	if s.Budget.IsNegative() {
		budget := s.Budget
		report.Alerts = append(report.Alerts, Alert{
			Type:     AlertNegativeBudget,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("BUDGET ALERT: Operating at a loss! Budget: $%s", budget.StringFixed(2)),
			Budget:   &budget,
		})
	}

	for _, it := range s.affordableLocked() {
		if len(report.NewUnlocks) == MaxUnlockHints {
			break
		}
		report.NewUnlocks = append(report.NewUnlocks, UnlockHint{
			Name:        it.Name,
			UnlockPrice: it.UnlockPrice,
			Category:    it.Category,
			Description: it.Description,
		})
	}

	s.Day++
	s.History.Budget = append(s.History.Budget, s.Budget)
	s.History.Days = append(s.History.Days, s.Day)
	for _, p := range s.Products {
		s.History.Stock[p.Name] = append(s.History.Stock[p.Name], p.Stock)
	}
	s.Reports = append(s.Reports, report)
	return report
}

// effectiveDemand trims float noise so 15*0.8 reads as 12, not 12.000000000000002.
func effectiveDemand(base, mult float64) float64 {
	return math.Round(base*mult*1e9) / 1e9
}

// recommendFor classifies a product with the in-game policy and returns the
// low stock alert for critical and warning statuses.
func recommendFor(p *Product) (Recommendation, *Alert) {
	pol := p.policy()
	rec := Recommendation{
		Product:      p.Name,
		CurrentStock: p.Stock,
		ReorderPoint: inventory.Round2(pol.ReorderPoint),
		EOQ:          inventory.Round2(pol.EOQ),
		DailyDemand:  p.DailyDemand,
		DaysOfStock:  p.daysOfStock(),
		Status:       pol.Status,
	}
	stock := p.Stock
	order := math.Round(pol.EOQ)
	switch pol.Status {
	case inventory.StatusCritical:
		return rec, &Alert{
			Type:             AlertLowStock,
			Severity:         SeverityCritical,
			Product:          p.Name,
			Message:          fmt.Sprintf("CRITICAL: %s stock (%d) at reorder point! Order %.0f units immediately.", p.Name, p.Stock, pol.EOQ),
			CurrentStock:     &stock,
			ReorderPoint:     rec.ReorderPoint,
			RecommendedOrder: order,
		}
	case inventory.StatusWarning:
		return rec, &Alert{
			Type:             AlertLowStock,
			Severity:         SeverityMedium,
			Product:          p.Name,
			Message:          fmt.Sprintf("WARNING: %s stock below optimal level. Consider ordering %.0f units.", p.Name, pol.EOQ),
			CurrentStock:     &stock,
			RecommendedOrder: order,
		}
	}
	return rec, nil
}
