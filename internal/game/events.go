package game

import (
	"strconv"

	"shelfwise/internal/catalog"

	"github.com/shopspring/decimal"
)

type EventKind string

const (
	EventDemandSpike      EventKind = catalog.EventDemandSpike
	EventSupplierDiscount EventKind = catalog.EventSupplierDiscount
	EventSpoilage         EventKind = catalog.EventSpoilage
	EventCalmDay          EventKind = catalog.EventCalmDay
)

var eventKinds = []EventKind{EventDemandSpike, EventSupplierDiscount, EventSpoilage, EventCalmDay}

const (
	NoEventProbability    = 0.5
	DemandSpikeMultiplier = 1.2
	CalmDayMultiplier     = 0.8
	MinDiscountPercent    = 10
	MaxDiscountPercent    = 20
	SpoilageMaxFraction   = 0.15
)

// Event is a one-day perturbation. Multiplier is a demand multiplier for
// demand_spike and calm_day and the restock cost multiplier for
// supplier_discount. Spoilage carries UnitsLost and AffectedProduct instead.
type Event struct {
	Kind            EventKind `json:"event_type"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Multiplier      float64   `json:"multiplier,omitempty"`
	DiscountPercent int       `json:"discount_percent,omitempty"`
	AffectedProduct string    `json:"affected_product,omitempty"`
	UnitsLost       int       `json:"units_lost,omitempty"`
	DurationDays    int       `json:"duration_days"`
}

func DemandSpike() *Event {
	return &Event{Kind: EventDemandSpike, Multiplier: DemandSpikeMultiplier, DurationDays: 1}
}

func CalmDay() *Event {
	return &Event{Kind: EventCalmDay, Multiplier: CalmDayMultiplier, DurationDays: 1}
}

func SupplierDiscount(percent int) *Event {
	return &Event{
		Kind:            EventSupplierDiscount,
		Multiplier:      1 - float64(percent)/100,
		DiscountPercent: percent,
		DurationDays:    1,
	}
}

func Spoilage(product string, units int) *Event {
	return &Event{Kind: EventSpoilage, AffectedProduct: product, UnitsLost: units, DurationDays: 1}
}

// DemandMultiplier is 1 unless the event moves demand. Safe on a nil event.
func (e *Event) DemandMultiplier() float64 {
	if e == nil {
		return 1
	}
	switch e.Kind {
	case EventDemandSpike, EventCalmDay:
		return e.Multiplier
	default:
		return 1
	}
}

// RestockMultiplier is 1 unless the event discounts restock orders. It is
// derived from the integer percentage so the discounted cost stays exact.
func (e *Event) RestockMultiplier() decimal.Decimal {
	if e == nil || e.Kind != EventSupplierDiscount {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(100 - e.DiscountPercent)).Div(decimal.NewFromInt(100))
}

func (e *Event) spoils(product string) bool {
	return e != nil && e.Kind == EventSpoilage && e.AffectedProduct == product
}

// Rand is the slice of *math/rand.Rand the generator consumes.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// EventSource produces at most one event per day; nil means no event.
type EventSource interface {
	Generate(products []*Product) *Event
}

// RandomEvents is the production EventSource. It is not safe for concurrent
// use; the Service serializes access.
type RandomEvents struct {
	rng       Rand
	templates map[string]catalog.EventTemplate
}

func NewRandomEvents(rng Rand, templates map[string]catalog.EventTemplate) *RandomEvents {
	return &RandomEvents{rng: rng, templates: templates}
}

func (g *RandomEvents) Generate(products []*Product) *Event {
	if g.rng.Float64() < NoEventProbability {
		return nil
	}

	var ev *Event
	switch eventKinds[g.rng.Intn(len(eventKinds))] {
	case EventDemandSpike:
		ev = DemandSpike()
	case EventCalmDay:
		ev = CalmDay()
	case EventSupplierDiscount:
		ev = SupplierDiscount(MinDiscountPercent + g.rng.Intn(MaxDiscountPercent-MinDiscountPercent+1))
	case EventSpoilage:
		if len(products) == 0 {
			return nil
		}
		target := products[g.rng.Intn(len(products))]
		maxLoss := int(float64(target.Stock) * SpoilageMaxFraction)
		if maxLoss < 1 {
			maxLoss = 1
		}
		ev = Spoilage(target.Name, 1+g.rng.Intn(maxLoss))
	}
	describe(ev, g.templates)
	return ev
}

func describe(ev *Event, templates map[string]catalog.EventTemplate) {
	if ev == nil {
		return
	}
	tmpl, ok := templates[string(ev.Kind)]
	if !ok {
		ev.Name = string(ev.Kind)
		return
	}
	ev.Name = tmpl.Name
	ev.Description = tmpl.Render(map[string]string{
		"discount": strconv.Itoa(ev.DiscountPercent),
		"product":  ev.AffectedProduct,
		"units":    strconv.Itoa(ev.UnitsLost),
	})
}
