package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAddSameItemIncrements(t *testing.T) {
	c := New()
	c.Add(Item{ID: "1", Price: dec("10")})
	c.Add(Item{ID: "1", Price: dec("10")})

	require.Len(t, c.Items(), 1)
	assert.Equal(t, 2, c.Items()[0].Quantity)
	assert.True(t, c.Subtotal().Equal(dec("20")), c.Subtotal().String())
	assert.True(t, c.FinalTotal().Equal(dec("21.6")), c.FinalTotal().String())
}

func TestAddIgnoresIncomingQuantity(t *testing.T) {
	c := New()
	c.Add(Item{ID: "1", Price: dec("1"), Quantity: 7})
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	c := New()
	c.Add(Item{ID: "b", Price: dec("1")})
	c.Add(Item{ID: "a", Price: dec("1")})
	c.Add(Item{ID: "b", Price: dec("1")})

	require.Len(t, c.Items(), 2)
	assert.Equal(t, "b", c.Items()[0].ID)
	assert.Equal(t, "a", c.Items()[1].ID)
}

func TestDiscount(t *testing.T) {
	c := New()
	c.Add(Item{ID: "1", Price: dec("10")})
	c.ApplyDiscount(dec("5"))
	assert.True(t, c.FinalTotal().Equal(dec("5.8")), c.FinalTotal().String())

	c.ApplyDiscount(dec("2"))
	assert.True(t, c.State().Discount.Equal(dec("2")), "discount is replaced, not added")
}

func TestDiscountCanDriveTotalNegative(t *testing.T) {
	c := New()
	c.Add(Item{ID: "1", Price: dec("1")})
	c.ApplyDiscount(dec("100"))
	assert.True(t, c.FinalTotal().IsNegative())
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := New()
	c.Add(Item{ID: "1", Price: dec("3")})
	c.Remove("missing")
	require.Len(t, c.Items(), 1)
	c.Remove("1")
	c.Remove("1")
	assert.Empty(t, c.Items())
	assert.True(t, c.Subtotal().IsZero())
}

func TestSetQuantity(t *testing.T) {
	for _, q := range []int{0, -3} {
		c := New()
		c.Add(Item{ID: "1", Price: dec("3")})
		c.SetQuantity("1", q)
		assert.Empty(t, c.Items(), "quantity %d must remove the line", q)
	}

	c := New()
	c.Add(Item{ID: "1", Price: dec("2.50")})
	c.SetQuantity("1", 4)
	assert.Equal(t, 4, c.Items()[0].Quantity)
	assert.True(t, c.Subtotal().Equal(dec("10")))

	c.SetQuantity("missing", 9)
	require.Len(t, c.Items(), 1)
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(Item{ID: "1", Price: dec("3")})
	c.ApplyDiscount(dec("1"))
	c.Clear()

	st := c.State()
	assert.NotNil(t, st.Items)
	assert.Empty(t, st.Items)
	assert.True(t, st.Discount.IsZero())
	assert.True(t, st.Subtotal().IsZero())
	assert.True(t, st.FinalTotal().IsZero())
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := State{Items: []Item{{ID: "1", Price: dec("1"), Quantity: 1}}}
	_ = Reduce(s, Action{Type: ActionAddItem, Item: Item{ID: "1", Price: dec("1")}})
	_ = Reduce(s, Action{Type: ActionUpdateQuantity, ID: "1", Quantity: 9})
	assert.Equal(t, 1, s.Items[0].Quantity)
}

func TestReduceUnknownAction(t *testing.T) {
	s := State{Items: []Item{{ID: "1", Price: dec("1"), Quantity: 1}}}
	assert.Equal(t, s, Reduce(s, Action{Type: ActionType(99)}))
	assert.Equal(t, "UNKNOWN", ActionType(99).String())
}

func TestSummarize(t *testing.T) {
	c := New()
	c.Add(Item{ID: "1", Price: dec("12.99")})
	c.Add(Item{ID: "2", Price: dec("3.49")})
	c.SetQuantity("1", 2)

	sum := c.State().Summarize()
	assert.Equal(t, 3, sum.ItemCount)
	assert.True(t, sum.Subtotal.Equal(dec("29.47")))
	assert.True(t, sum.Tax.Equal(dec("2.3576")))
	assert.True(t, sum.Total.Equal(dec("31.8276")))
}

// Random operation sequences must keep the subtotal equal to the line sum,
// identities unique and every stored quantity positive.
func TestRandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	prices := map[string]decimal.Decimal{"a": dec("1.25"), "b": dec("9.99"), "c": dec("0.10"), "d": dec("100")}
	ids := []string{"a", "b", "c", "d", "e"}

	for run := 0; run < 200; run++ {
		c := New()
		qty := map[string]int{}
		for step := 0; step < 40; step++ {
			id := ids[rng.Intn(len(ids))]
			switch rng.Intn(3) {
			case 0:
				c.Add(Item{ID: id, Price: prices[id]})
				qty[id]++
			case 1:
				c.Remove(id)
				delete(qty, id)
			case 2:
				q := rng.Intn(7) - 2
				c.SetQuantity(id, q)
				if _, ok := qty[id]; ok {
					if q <= 0 {
						delete(qty, id)
					} else {
						qty[id] = q
					}
				}
			}

			want := decimal.Zero
			seen := map[string]bool{}
			for _, it := range c.Items() {
				require.False(t, seen[it.ID], "duplicate line %s", it.ID)
				seen[it.ID] = true
				require.GreaterOrEqual(t, it.Quantity, 1)
				require.Equal(t, qty[it.ID], it.Quantity)
				want = want.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
			}
			require.Len(t, c.Items(), len(qty))
			require.True(t, c.Subtotal().Equal(want))
		}
	}
}

func TestRestore(t *testing.T) {
	c := New()
	c.Add(Item{ID: "1", Price: dec("10")})
	c.Add(Item{ID: "2", Price: dec("3")})
	c.ApplyDiscount(dec("2"))
	prev := c.State()

	c.Clear()
	c.Add(Item{ID: "2", Price: dec("3")})
	c.Add(Item{ID: "3", Price: dec("1")})
	c.Restore(prev)

	st := c.State()
	require.Len(t, st.Items, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{st.Items[0].ID, st.Items[1].ID, st.Items[2].ID})
	assert.Equal(t, 2, st.Items[1].Quantity)
	assert.True(t, st.Discount.Equal(dec("2")))
	assert.Equal(t, 1, prev.Items[1].Quantity)
}
