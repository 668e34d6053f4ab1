package game

import (
	mathrand "math/rand"
	"testing"

	"shelfwise/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []*Product {
	return []*Product{
		{Name: "Office Chair", Stock: 50, DailyDemand: 15},
		{Name: "Desk Lamp", Stock: 3, DailyDemand: 8},
	}
}

func TestGenerateNoEvent(t *testing.T) {
	g := NewRandomEvents(&fakeRand{floats: []float64{0.49}}, nil)
	assert.Nil(t, g.Generate(testProducts()))
}

func TestGenerateEachKind(t *testing.T) {
	templates := catalog.MustDefault().Events

	t.Run("demand spike", func(t *testing.T) {
		ev := NewRandomEvents(&fakeRand{floats: []float64{0.5}, ints: []int{0}}, templates).Generate(testProducts())
		require.NotNil(t, ev)
		assert.Equal(t, EventDemandSpike, ev.Kind)
		assert.Equal(t, 1.2, ev.DemandMultiplier())
		assert.True(t, ev.RestockMultiplier().Equal(dollars("1")))
		assert.Equal(t, "Demand Surge", ev.Name)
	})

	t.Run("supplier discount", func(t *testing.T) {
		ev := NewRandomEvents(&fakeRand{floats: []float64{0.9}, ints: []int{1, 5}}, templates).Generate(testProducts())
		require.NotNil(t, ev)
		assert.Equal(t, EventSupplierDiscount, ev.Kind)
		assert.Equal(t, 15, ev.DiscountPercent)
		assert.Equal(t, 1.0, ev.DemandMultiplier())
		assert.True(t, ev.RestockMultiplier().Equal(dollars("0.85")))
		assert.Contains(t, ev.Description, "15%")
	})

	t.Run("spoilage", func(t *testing.T) {
		// Office Chair holds 50, so up to floor(7.5) = 7 units can spoil.
		ev := NewRandomEvents(&fakeRand{floats: []float64{0.9}, ints: []int{2, 0, 6}}, templates).Generate(testProducts())
		require.NotNil(t, ev)
		assert.Equal(t, EventSpoilage, ev.Kind)
		assert.Equal(t, "Office Chair", ev.AffectedProduct)
		assert.Equal(t, 7, ev.UnitsLost)
		assert.Equal(t, 1.0, ev.DemandMultiplier())
		assert.Equal(t, "Office Chair has quality issues! Lost 7 units.", ev.Description)
	})

	t.Run("spoilage on a thin shelf loses one unit", func(t *testing.T) {
		ev := NewRandomEvents(&fakeRand{floats: []float64{0.9}, ints: []int{2, 1, 0}}, templates).Generate(testProducts())
		require.NotNil(t, ev)
		assert.Equal(t, "Desk Lamp", ev.AffectedProduct)
		assert.Equal(t, 1, ev.UnitsLost)
	})

	t.Run("spoilage without products", func(t *testing.T) {
		ev := NewRandomEvents(&fakeRand{floats: []float64{0.9}, ints: []int{2}}, templates).Generate(nil)
		assert.Nil(t, ev)
	})

	t.Run("calm day", func(t *testing.T) {
		ev := NewRandomEvents(&fakeRand{floats: []float64{0.9}, ints: []int{3}}, templates).Generate(testProducts())
		require.NotNil(t, ev)
		assert.Equal(t, EventCalmDay, ev.Kind)
		assert.Equal(t, 0.8, ev.DemandMultiplier())
		assert.Equal(t, "Slow Business Day", ev.Name)
	})
}

func TestGenerateWithoutTemplatesUsesKindAsName(t *testing.T) {
	ev := NewRandomEvents(&fakeRand{floats: []float64{0.9}, ints: []int{3}}, nil).Generate(testProducts())
	require.NotNil(t, ev)
	assert.Equal(t, "calm_day", ev.Name)
}

func TestGenerateStaysInBounds(t *testing.T) {
	g := NewRandomEvents(mathrand.New(mathrand.NewSource(42)), catalog.MustDefault().Events)
	products := testProducts()
	seen := map[EventKind]int{}
	none := 0
	for range 2000 {
		ev := g.Generate(products)
		if ev == nil {
			none++
			continue
		}
		seen[ev.Kind]++
		assert.Equal(t, 1, ev.DurationDays)
		switch ev.Kind {
		case EventSupplierDiscount:
			assert.GreaterOrEqual(t, ev.DiscountPercent, MinDiscountPercent)
			assert.LessOrEqual(t, ev.DiscountPercent, MaxDiscountPercent)
		case EventSpoilage:
			assert.GreaterOrEqual(t, ev.UnitsLost, 1)
			if ev.AffectedProduct == "Office Chair" {
				assert.LessOrEqual(t, ev.UnitsLost, 7)
			} else {
				assert.Equal(t, 1, ev.UnitsLost)
			}
		}
	}
	assert.InDelta(t, 1000, none, 150)
	assert.Len(t, seen, 4)
}

func TestNilEventMultipliers(t *testing.T) {
	var ev *Event
	assert.Equal(t, 1.0, ev.DemandMultiplier())
	assert.True(t, ev.RestockMultiplier().Equal(dollars("1")))
	assert.False(t, ev.spoils("Office Chair"))
}
