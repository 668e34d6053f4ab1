package game

import (
	"fmt"
	"math"
	"slices"

	"shelfwise/internal/inventory"

	"github.com/shopspring/decimal"
)

type StateView struct {
	GameID          string           `json:"game_id"`
	Day             int              `json:"day"`
	Budget          decimal.Decimal  `json:"budget"`
	InitialBudget   decimal.Decimal  `json:"initial_budget"`
	Products        []Product        `json:"products"`
	StoreItems      []StoreItemView  `json:"store_items"`
	CurrentEvent    *Event           `json:"current_event"`
	Alerts          []Alert          `json:"alerts"`
	Recommendations []Recommendation `json:"recommendations"`
	Statistics      StatisticsView   `json:"statistics"`
	History         HistoryView      `json:"history"`
}

type StoreItemView struct {
	StoreItem
	Affordable bool `json:"affordable"`
}

type StatisticsView struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalStorageCosts decimal.Decimal `json:"total_storage_costs"`
	TotalRestockCosts decimal.Decimal `json:"total_restock_costs"`
	TotalUnlockCosts  decimal.Decimal `json:"total_unlock_costs"`
	TotalSales        int             `json:"total_sales"`
	TotalStockouts    int             `json:"total_stockouts"`
	Profit            decimal.Decimal `json:"profit"`
	ROI               decimal.Decimal `json:"roi"`
}

type HistoryView struct {
	Budget []decimal.Decimal `json:"budget"`
	Days   []int             `json:"days"`
	Stock  map[string][]int  `json:"stock"`
}

// Snapshot renders the state for readers. Nothing in the returned view
// aliases the live state.
func (s *State) Snapshot() StateView {
	v := StateView{
		GameID:          s.ID,
		Day:             s.Day,
		Budget:          s.Budget,
		InitialBudget:   s.InitialBudget,
		Products:        make([]Product, 0, len(s.Products)),
		StoreItems:      make([]StoreItemView, 0, len(s.StoreItems)),
		Alerts:          []Alert{},
		Recommendations: make([]Recommendation, 0, len(s.Products)),
		Statistics:      s.statistics(),
		History: HistoryView{
			Budget: slices.Clone(s.History.Budget),
			Days:   slices.Clone(s.History.Days),
			Stock:  make(map[string][]int, len(s.History.Stock)),
		},
	}
	if s.CurrentEvent != nil {
		ev := *s.CurrentEvent
		v.CurrentEvent = &ev
	}
	for name, series := range s.History.Stock {
		v.History.Stock[name] = slices.Clone(series)
	}

	for _, p := range s.Products {
		v.Products = append(v.Products, *p)
		rec, alert := snapshotRecommendation(p)
		v.Recommendations = append(v.Recommendations, rec)
		if alert != nil {
			v.Alerts = append(v.Alerts, *alert)
		}
	}
	if alert := budgetAlert(s.Budget); alert != nil {
		v.Alerts = append(v.Alerts, *alert)
	}
	for _, it := range s.StoreItems {
		v.StoreItems = append(v.StoreItems, StoreItemView{StoreItem: *it, Affordable: it.affordable(s.Budget)})
	}
	return v
}

// LastReport returns the most recent day report, if any day has been played.
func (s *State) LastReport() (DayReport, bool) {
	if len(s.Reports) == 0 {
		return DayReport{}, false
	}
	return s.Reports[len(s.Reports)-1], true
}

// ProductNames lists the live products in catalog order.
func (s *State) ProductNames() []string {
	out := make([]string, 0, len(s.Products))
	for _, p := range s.Products {
		out = append(out, p.Name)
	}
	return out
}

func (s *State) statistics() StatisticsView {
	st := s.Stats
	profit := st.TotalRevenue.Sub(st.TotalStorageCosts).Sub(st.TotalRestockCosts).Sub(st.TotalUnlockCosts)
	roi := decimal.Zero
	if s.InitialBudget.IsPositive() {
		roi = s.Budget.Sub(s.InitialBudget).Div(s.InitialBudget).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return StatisticsView{
		TotalRevenue:      st.TotalRevenue,
		TotalStorageCosts: st.TotalStorageCosts,
		TotalRestockCosts: st.TotalRestockCosts,
		TotalUnlockCosts:  st.TotalUnlockCosts,
		TotalSales:        st.TotalSales,
		TotalStockouts:    st.TotalStockouts,
		Profit:            profit,
		ROI:               roi,
	}
}

// snapshotRecommendation differs from the end of day alert by calling out an
// empty shelf separately.
func snapshotRecommendation(p *Product) (Recommendation, *Alert) {
	rec, _ := recommendFor(p)
	stock := p.Stock
	switch {
	case p.Stock == 0:
		return rec, &Alert{
			Type:         AlertOutOfStock,
			Severity:     SeverityCritical,
			Product:      p.Name,
			Message:      fmt.Sprintf("%s: OUT OF STOCK! Restock immediately!", p.Name),
			CurrentStock: &stock,
		}
	case rec.Status == inventory.StatusCritical:
		return rec, &Alert{
			Type:             AlertLowStock,
			Severity:         SeverityCritical,
			Product:          p.Name,
			Message:          fmt.Sprintf("%s: Stock critical (%d). Restock %.0f units now.", p.Name, p.Stock, rec.EOQ),
			CurrentStock:     &stock,
			ReorderPoint:     rec.ReorderPoint,
			RecommendedOrder: math.Round(rec.EOQ),
		}
	case rec.Status == inventory.StatusWarning:
		return rec, &Alert{
			Type:         AlertLowStock,
			Severity:     SeverityMedium,
			Product:      p.Name,
			Message:      fmt.Sprintf("%s: Stock low (%d). Consider restocking.", p.Name, p.Stock),
			CurrentStock: &stock,
		}
	}
	return rec, nil
}

func budgetAlert(budget decimal.Decimal) *Alert {
	b := budget
	switch {
	case budget.IsNegative():
		return &Alert{
			Type:     AlertNegativeBudget,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("Budget is negative: $%s", budget.StringFixed(2)),
			Budget:   &b,
		}
	case budget.LessThan(decimal.NewFromInt(LowBudgetThreshold)):
		return &Alert{
			Type:     AlertLowBudget,
			Severity: SeverityLow,
			Message:  fmt.Sprintf("Budget is low: $%s", budget.StringFixed(2)),
			Budget:   &b,
		}
	}
	return nil
}
