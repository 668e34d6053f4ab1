package game

import (
	"shelfwise/internal/catalog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is one game session. It is not safe for concurrent use; Service
// serializes every operation on it.
type State struct {
	ID            string
	Day           int
	Budget        decimal.Decimal
	InitialBudget decimal.Decimal
	Products      []*Product
	StoreItems    []*StoreItem
	CurrentEvent  *Event
	EventHistory  []Event
	Stats         Statistics
	History       History
	Reports       []DayReport

	products map[string]*Product
	store    map[string]*StoreItem
	events   EventSource
}

// Statistics are cumulative and never decrease.
type Statistics struct {
	TotalRevenue      decimal.Decimal
	TotalStorageCosts decimal.Decimal
	TotalRestockCosts decimal.Decimal
	TotalUnlockCosts  decimal.Decimal
	TotalSales        int
	TotalStockouts    int
}

// History holds append-only series: one budget and day point per completed
// day plus the starting point, and one stock point per product per day since
// the product entered the catalog.
type History struct {
	Budget []decimal.Decimal
	Days   []int
	Stock  map[string][]int
}

// NewGame starts a session with a budget drawn uniformly from
// [MinStartingBudget, MaxStartingBudget] and events drawn from rng.
func NewGame(cat catalog.Catalog, rng Rand) *State {
	budget := MinStartingBudget + rng.Intn(MaxStartingBudget-MinStartingBudget+1)
	return New(cat, decimal.NewFromInt(int64(budget)), NewRandomEvents(rng, cat.Events))
}

// New starts a session with an explicit budget and event source.
func New(cat catalog.Catalog, budget decimal.Decimal, events EventSource) *State {
	s := &State{
		ID:            uuid.NewString(),
		Day:           1,
		Budget:        budget,
		InitialBudget: budget,
		Products:      make([]*Product, 0, len(cat.Products)),
		StoreItems:    make([]*StoreItem, 0, len(cat.StoreItems)),
		products:      make(map[string]*Product, len(cat.Products)),
		store:         make(map[string]*StoreItem, len(cat.StoreItems)),
		events:        events,
		History: History{
			Budget: []decimal.Decimal{budget},
			Days:   []int{1},
			Stock:  make(map[string][]int, len(cat.Products)),
		},
	}
	for _, p := range cat.Products {
		s.addProduct(productFromCatalog(p))
	}
	for _, it := range cat.StoreItems {
		item := storeItemFromCatalog(it)
		s.StoreItems = append(s.StoreItems, item)
		s.store[item.Name] = item
	}
	return s
}

func (s *State) addProduct(p *Product) {
	s.Products = append(s.Products, p)
	s.products[p.Name] = p
	s.History.Stock[p.Name] = []int{p.Stock}
}

func (s *State) Product(name string) (*Product, bool) {
	p, ok := s.products[name]
	return p, ok
}

func (s *State) StoreItem(name string) (*StoreItem, bool) {
	it, ok := s.store[name]
	return it, ok
}

// SetEventSource swaps the generator used by subsequent days.
func (s *State) SetEventSource(events EventSource) {
	s.events = events
}

// affordableLocked lists locked store items the current budget covers, in catalog order.
func (s *State) affordableLocked() []*StoreItem {
	var out []*StoreItem
	for _, it := range s.StoreItems {
		if !it.Unlocked && it.affordable(s.Budget) {
			out = append(out, it)
		}
	}
	return out
}
