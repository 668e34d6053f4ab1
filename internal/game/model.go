package game

import (
	"errors"
	"math"

	"shelfwise/internal/catalog"
	"shelfwise/internal/inventory"

	"github.com/shopspring/decimal"
)

const (
	MinStartingBudget = 120
	MaxStartingBudget = 300

	// LowBudgetThreshold triggers the low budget alert in snapshots.
	LowBudgetThreshold = 50

	// MaxUnlockHints caps the advisory new_unlocks list of a day report.
	MaxUnlockHints = 3
)

var (
	ErrValidation        = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNoGame            = errors.New("no active game, start a new game first")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyUnlocked   = errors.New("already unlocked")
	ErrStaleGame         = errors.New("game has been replaced by a newer game")
)

// Product is a live line item. Stock never goes below zero.
type Product struct {
	Name        string          `json:"name"`
	Stock       int             `json:"stock"`
	CostStorage decimal.Decimal `json:"cost_storage"`
	CostRestock decimal.Decimal `json:"cost_restock"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	DailyDemand float64         `json:"demand_rate"`
}

func productFromCatalog(p catalog.Product) *Product {
	return &Product{
		Name:        p.Name,
		Stock:       p.Stock,
		CostStorage: p.CostStorage,
		CostRestock: p.CostRestock,
		SalePrice:   p.SalePrice,
		DailyDemand: p.DailyDemand,
	}
}

// removeStock takes up to n units and returns how many were actually removed.
func (p *Product) removeStock(n int) int {
	if n <= 0 {
		return 0
	}
	if n > p.Stock {
		n = p.Stock
	}
	p.Stock -= n
	return n
}

func (p *Product) policy() inventory.Policy {
	return inventory.GamePolicy(p.Stock, p.DailyDemand, p.CostStorage.InexactFloat64(), p.CostRestock.InexactFloat64())
}

// daysOfStock is nil when the product has no demand.
func (p *Product) daysOfStock() *float64 {
	if p.DailyDemand <= 0 {
		return nil
	}
	d := math.Round(float64(p.Stock)/p.DailyDemand*10) / 10
	return &d
}

// StoreItem is a locked product template. Unlocking is one-way.
type StoreItem struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	UnlockPrice   decimal.Decimal `json:"unlock_price"`
	StartingStock int             `json:"starting_stock"`
	CostStorage   decimal.Decimal `json:"cost_storage"`
	CostRestock   decimal.Decimal `json:"cost_restock"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	DailyDemand   float64         `json:"daily_demand"`
	Unlocked      bool            `json:"unlocked"`
}

func storeItemFromCatalog(it catalog.StoreItem) *StoreItem {
	return &StoreItem{
		Name:          it.Name,
		Category:      it.Category,
		Description:   it.Description,
		UnlockPrice:   it.UnlockPrice,
		StartingStock: it.StartingStock,
		CostStorage:   it.CostStorage,
		CostRestock:   it.CostRestock,
		SalePrice:     it.SalePrice,
		DailyDemand:   it.DailyDemand,
	}
}

// unlock flags the item and returns a fresh product that shares nothing with it.
func (it *StoreItem) unlock() *Product {
	it.Unlocked = true
	return &Product{
		Name:        it.Name,
		Stock:       it.StartingStock,
		CostStorage: it.CostStorage,
		CostRestock: it.CostRestock,
		SalePrice:   it.SalePrice,
		DailyDemand: it.DailyDemand,
	}
}

func (it *StoreItem) affordable(budget decimal.Decimal) bool {
	return it.UnlockPrice.LessThanOrEqual(budget)
}
