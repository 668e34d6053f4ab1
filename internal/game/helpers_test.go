package game

import (
	"testing"

	"shelfwise/internal/catalog"

	"github.com/shopspring/decimal"
)

// scriptedEvents replays a fixed list of events, then returns nil forever.
type scriptedEvents struct {
	events []*Event
	calls  int
}

func (s *scriptedEvents) Generate([]*Product) *Event {
	s.calls++
	if len(s.events) == 0 {
		return nil
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev
}

// fakeRand replays scripted draws.
type fakeRand struct {
	floats []float64
	ints   []int
}

func (f *fakeRand) Float64() float64 {
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v
}

func (f *fakeRand) Intn(n int) int {
	v := f.ints[0]
	f.ints = f.ints[1:]
	if v >= n {
		panic("scripted draw out of range")
	}
	return v
}

func dollars(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func singleProductCatalog(stock int, demand float64) catalog.Catalog {
	return catalog.Catalog{
		Products: []catalog.Product{{
			Name:        "Office Chair",
			Stock:       stock,
			CostStorage: dollars("0.5"),
			CostRestock: dollars("50"),
			SalePrice:   dollars("10"),
			DailyDemand: demand,
		}},
	}
}

func newTestState(t *testing.T, budget string, events ...*Event) *State {
	t.Helper()
	return New(catalog.MustDefault(), dollars(budget), &scriptedEvents{events: events})
}
