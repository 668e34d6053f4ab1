// Package inventory holds the reorder-point / economic order quantity policy
// shared by the game loop and the standalone recommender.
package inventory

import "math"

const (
	GameLeadTimeDays       = 3
	StandaloneLeadTimeDays = 7
	DaysPerYear            = 365
)

// Horizon is the period the demand rate is expressed in.
type Horizon int

const (
	Daily Horizon = iota
	Annual
)

func (h Horizon) Days() float64 {
	if h == Annual {
		return DaysPerYear
	}
	return 1
}

type Status string

const (
	StatusCritical Status = "critical"
	StatusWarning  Status = "warning"
	StatusOK       Status = "ok"
)

// Action is the short recommendation text for a Status.
func (s Status) Action() string {
	switch s {
	case StatusCritical:
		return "order now"
	case StatusWarning:
		return "monitor"
	default:
		return "ok"
	}
}

// Params describes one product for a policy evaluation. Demand, CostStorage
// and CostRestock must share the Horizon: a daily demand goes with a per-day
// holding cost, an annual demand with a per-year holding cost.
type Params struct {
	Stock        float64
	Demand       float64
	CostStorage  float64
	CostRestock  float64
	LeadTimeDays float64
	Horizon      Horizon
}

type Policy struct {
	DailyRate    float64
	ReorderPoint float64
	EOQ          float64
	Status       Status
}

// EOQ is the Wilson economic order quantity. It is 0 when demand or the
// holding cost is not positive.
func EOQ(demand, costRestock, costStorage float64) float64 {
	if demand <= 0 || costStorage <= 0 {
		return 0
	}
	return math.Sqrt(2 * demand * costRestock / costStorage)
}

func ReorderPoint(dailyRate, leadTimeDays float64) float64 {
	if dailyRate <= 0 || leadTimeDays <= 0 {
		return 0
	}
	return dailyRate * leadTimeDays
}

// Classify applies the stock thresholds: at or below the reorder point is
// critical, strictly between the reorder point and the EOQ is a warning.
func Classify(stock, reorderPoint, eoq float64) Status {
	switch {
	case stock <= reorderPoint:
		return StatusCritical
	case stock < eoq:
		return StatusWarning
	default:
		return StatusOK
	}
}

func Evaluate(p Params) Policy {
	daily := 0.0
	if p.Demand > 0 {
		daily = p.Demand / p.Horizon.Days()
	}
	rop := ReorderPoint(daily, p.LeadTimeDays)
	eoq := EOQ(p.Demand, p.CostRestock, p.CostStorage)
	return Policy{
		DailyRate:    daily,
		ReorderPoint: rop,
		EOQ:          eoq,
		Status:       Classify(p.Stock, rop, eoq),
	}
}

// GamePolicy evaluates a product the way the day simulator does: daily demand
// and a three day lead time.
func GamePolicy(stock int, dailyDemand, costStorage, costRestock float64) Policy {
	return Evaluate(Params{
		Stock:        float64(stock),
		Demand:       dailyDemand,
		CostStorage:  costStorage,
		CostRestock:  costRestock,
		LeadTimeDays: GameLeadTimeDays,
		Horizon:      Daily,
	})
}

// OrderQuantity rounds an EOQ up to whole units, with a floor of one unit.
func OrderQuantity(eoq float64) int {
	q := int(math.Ceil(eoq))
	if q < 1 {
		return 1
	}
	return q
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
