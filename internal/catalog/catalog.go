package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

const (
	EventDemandSpike      = "demand_spike"
	EventSupplierDiscount = "supplier_discount"
	EventSpoilage         = "spoilage"
	EventCalmDay          = "calm_day"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

type Product struct {
	Name        string          `json:"name"`
	Stock       int             `json:"stock"`
	CostStorage decimal.Decimal `json:"cost_storage"`
	CostRestock decimal.Decimal `json:"cost_restock"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	DailyDemand float64         `json:"daily_demand"`
}

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
}

// EventTemplate carries the player-facing text of an event kind. Description
// may reference {discount}, {product} and {units}.
type EventTemplate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
}

func (t EventTemplate) Render(vars map[string]string) string {
	if len(vars) == 0 {
		return t.Description
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(t.Description)
}

type Catalog struct {
	Products   []Product
	StoreItems []StoreItem
	Events     map[string]EventTemplate
}

type fileProduct struct {
	Name        string  `yaml:"name"`
	Stock       int     `yaml:"stock"`
	CostStorage float64 `yaml:"cost_storage"`
	CostRestock float64 `yaml:"cost_restock"`
	SalePrice   float64 `yaml:"sale_price"`
	DailyDemand float64 `yaml:"daily_demand"`
}

type fileStoreItem struct {
	fileProduct   `yaml:",inline"`
	Category      string  `yaml:"category"`
	Description   string  `yaml:"description"`
	UnlockPrice   float64 `yaml:"unlock_price"`
	StartingStock int     `yaml:"starting_stock"`
}

type fileCatalog struct {
	Products   []fileProduct            `yaml:"products"`
	StoreItems []fileStoreItem          `yaml:"store_items"`
	Events     map[string]EventTemplate `yaml:"events"`
}

// Default returns the built-in catalog.
func Default() (Catalog, error) {
	return Parse(defaultCatalog)
}

func MustDefault() Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog file. An empty path selects the built-in catalog.
func Load(path string) (Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	out := Catalog{
		Products:   make([]Product, 0, len(fc.Products)),
		StoreItems: make([]StoreItem, 0, len(fc.StoreItems)),
		Events:     make(map[string]EventTemplate, len(fc.Events)),
	}
	seen := make(map[string]struct{}, len(fc.Products)+len(fc.StoreItems))
	for _, p := range fc.Products {
		if err := validateEntry(p, seen); err != nil {
			return Catalog{}, err
		}
		out.Products = append(out.Products, Product{
			Name:        strings.TrimSpace(p.Name),
			Stock:       p.Stock,
			CostStorage: decimal.NewFromFloat(p.CostStorage),
			CostRestock: decimal.NewFromFloat(p.CostRestock),
			SalePrice:   decimal.NewFromFloat(p.SalePrice),
			DailyDemand: p.DailyDemand,
		})
	}
	for _, it := range fc.StoreItems {
		if err := validateEntry(it.fileProduct, seen); err != nil {
			return Catalog{}, err
		}
		if it.UnlockPrice < 0 || it.StartingStock < 0 {
			return Catalog{}, fmt.Errorf("%w: store item %q has negative unlock price or starting stock", ErrInvalidCatalog, it.Name)
		}
		category := strings.TrimSpace(it.Category)
		if category == "" {
			category = "General"
		}
		out.StoreItems = append(out.StoreItems, StoreItem{
			Name:          strings.TrimSpace(it.Name),
			Category:      category,
			Description:   it.Description,
			UnlockPrice:   decimal.NewFromFloat(it.UnlockPrice),
			StartingStock: it.StartingStock,
			CostStorage:   decimal.NewFromFloat(it.CostStorage),
			CostRestock:   decimal.NewFromFloat(it.CostRestock),
			SalePrice:     decimal.NewFromFloat(it.SalePrice),
			DailyDemand:   it.DailyDemand,
		})
	}
	for _, kind := range EventKinds() {
		tmpl, ok := fc.Events[kind]
		if !ok || strings.TrimSpace(tmpl.Name) == "" {
			tmpl = fallbackEvents[kind]
		}
		out.Events[kind] = tmpl
	}
	return out, nil
}

func validateEntry(p fileProduct, seen map[string]struct{}) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("%w: entry without a name", ErrInvalidCatalog)
	}
	if _, dup := seen[name]; dup {
		return fmt.Errorf("%w: duplicate name %q", ErrInvalidCatalog, name)
	}
	seen[name] = struct{}{}
	if p.Stock < 0 || p.CostStorage < 0 || p.CostRestock < 0 || p.SalePrice < 0 || p.DailyDemand < 0 {
		return fmt.Errorf("%w: %q has a negative value", ErrInvalidCatalog, name)
	}
	return nil
}

var fallbackEvents = map[string]EventTemplate{
	EventDemandSpike:      {Name: "Demand Surge", Description: "Demand is up 20% today."},
	EventSupplierDiscount: {Name: "Supplier Sale", Description: "Restock costs are {discount}% off today."},
	EventSpoilage:         {Name: "Product Spoilage", Description: "{product} lost {units} units."},
	EventCalmDay:          {Name: "Slow Business Day", Description: "Demand is down 20% today."},
}

// EventKinds lists the event kinds in generation order.
func EventKinds() []string {
	return []string{EventDemandSpike, EventSupplierDiscount, EventSpoilage, EventCalmDay}
}

// EventDescriptions maps each event kind to its one-line summary.
func (c Catalog) EventDescriptions() map[string]string {
	out := make(map[string]string, len(c.Events))
	for kind, t := range c.Events {
		out[kind] = t.Summary
	}
	return out
}

// ByCategory groups store items by category, keeping catalog order inside each group.
func ByCategory(items []StoreItem) map[string][]StoreItem {
	out := make(map[string][]StoreItem)
	for _, it := range items {
		out[it.Category] = append(out[it.Category], it)
	}
	return out
}

// Categories returns category names in first-seen order.
func Categories(items []StoreItem) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}

// CheapestFirst returns a copy of items ordered by unlock price.
func CheapestFirst(items []StoreItem) []StoreItem {
	out := append([]StoreItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UnlockPrice.LessThan(out[j].UnlockPrice)
	})
	return out
}

// Affordable filters items whose unlock price fits within budget.
func Affordable(items []StoreItem, budget decimal.Decimal) []StoreItem {
	var out []StoreItem
	for _, it := range items {
		if it.UnlockPrice.LessThanOrEqual(budget) {
			out = append(out, it)
		}
	}
	return out
}
