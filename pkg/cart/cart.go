// Package cart implements the point-of-sale cart: a reducer over line items
// with derived subtotal, tax and final total.
package cart

import (
	"context"
	"slices"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat sales tax applied to the subtotal.
var TaxRate = decimal.RequireFromString("0.08")

// Item is one line in the cart.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	SKU      string          `json:"sku"`
	Image    string          `json:"image,omitempty"`
}

// LineTotal returns price × quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// State is the cart contents. Monetary totals are always derived from Items.
type State struct {
	Items    []Item          `json:"items"`
	Discount decimal.Decimal `json:"discount"`
}

// ActionType enumerates the cart mutations.
type ActionType int

// Cart actions.
const (
	ActionAddItem ActionType = iota + 1
	ActionRemoveItem
	ActionUpdateQuantity
	ActionApplyDiscount
	ActionClear
)

func (t ActionType) String() string {
	switch t {
	case ActionAddItem:
		return "ADD_ITEM"
	case ActionRemoveItem:
		return "REMOVE_ITEM"
	case ActionUpdateQuantity:
		return "UPDATE_QUANTITY"
	case ActionApplyDiscount:
		return "APPLY_DISCOUNT"
	case ActionClear:
		return "CLEAR_CART"
	default:
		return "UNKNOWN"
	}
}

// Action is a single mutation. Only the fields relevant to Type are read.
type Action struct {
	Type     ActionType
	Item     Item
	ID       string
	Quantity int
	Discount decimal.Decimal
}

// Reduce applies a to s and returns the new state. s is never modified.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionAddItem:
		items := make([]Item, 0, len(s.Items)+1)
		found := false
		for _, it := range s.Items {
			if it.ID == a.Item.ID {
				it.Quantity++
				found = true
			}
			items = append(items, it)
		}
		if !found {
			it := a.Item
			it.Quantity = 1
			items = append(items, it)
		}
		return State{Items: items, Discount: s.Discount}

	case ActionRemoveItem:
		items := make([]Item, 0, len(s.Items))
		for _, it := range s.Items {
			if it.ID != a.ID {
				items = append(items, it)
			}
		}
		return State{Items: items, Discount: s.Discount}

	case ActionUpdateQuantity:
		q := max(a.Quantity, 0)
		items := make([]Item, 0, len(s.Items))
		for _, it := range s.Items {
			if it.ID == a.ID {
				if q == 0 {
					continue
				}
				it.Quantity = q
			}
			items = append(items, it)
		}
		return State{Items: items, Discount: s.Discount}

	case ActionApplyDiscount:
		return State{Items: append([]Item(nil), s.Items...), Discount: a.Discount}

	case ActionClear:
		return State{Items: []Item{}, Discount: decimal.Zero}

	default:
		return s
	}
}

// Subtotal returns Σ price × quantity over s.Items.
func (s State) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range s.Items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// Tax returns the tax owed on the subtotal.
func (s State) Tax() decimal.Decimal {
	return s.Subtotal().Mul(TaxRate)
}

// FinalTotal returns subtotal + tax - discount. The result is not floored at
// zero; callers that must not charge a negative amount check it themselves.
func (s State) FinalTotal() decimal.Decimal {
	return s.Subtotal().Add(s.Tax()).Sub(s.Discount)
}

// ItemCount returns the total number of units across all lines.
func (s State) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// Summary is the read model returned to clients.
type Summary struct {
	Items     []Item          `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// Summarize computes the totals for s.
func (s State) Summarize() Summary {
	items := s.Items
	if items == nil {
		items = []Item{}
	}
	return Summary{
		Items:     items,
		ItemCount: s.ItemCount(),
		Subtotal:  s.Subtotal(),
		Tax:       s.Tax(),
		Discount:  s.Discount,
		Total:     s.FinalTotal(),
	}
}

// Cart wraps a State with the mutation helpers. It is not safe for
// concurrent use; repositories serialise access per session.
type Cart struct {
	state State
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{state: State{Items: []Item{}}}
}

// FromState returns a cart holding s.
func FromState(s State) *Cart {
	if s.Items == nil {
		s.Items = []Item{}
	}
	return &Cart{state: s}
}

// Dispatch applies a to the cart.
func (c *Cart) Dispatch(a Action) {
	c.state = Reduce(c.state, a)
}

// Add increments the line for item.ID, or appends it with quantity 1.
func (c *Cart) Add(item Item) {
	c.Dispatch(Action{Type: ActionAddItem, Item: item})
}

// Remove drops the line for id. Unknown ids are ignored.
func (c *Cart) Remove(id string) {
	c.Dispatch(Action{Type: ActionRemoveItem, ID: id})
}

// SetQuantity replaces the quantity for id; q <= 0 removes the line.
func (c *Cart) SetQuantity(id string, q int) {
	c.Dispatch(Action{Type: ActionUpdateQuantity, ID: id, Quantity: q})
}

// ApplyDiscount replaces the flat discount.
func (c *Cart) ApplyDiscount(amount decimal.Decimal) {
	c.Dispatch(Action{Type: ActionApplyDiscount, Discount: amount})
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Dispatch(Action{Type: ActionClear})
}

// Restore puts the lines and discount of prev back into the cart. Lines
// added since prev was taken are kept after prev's lines; a line present in
// both gets the summed quantity.
func (c *Cart) Restore(prev State) {
	items := append([]Item{}, prev.Items...)
	for _, it := range c.state.Items {
		i := slices.IndexFunc(items, func(p Item) bool { return p.ID == it.ID })
		if i < 0 {
			items = append(items, it)
			continue
		}
		items[i].Quantity += it.Quantity
	}
	c.state = State{Items: items, Discount: prev.Discount}
}

// State returns the current state.
func (c *Cart) State() State { return c.state }

// Items returns the current lines in insertion order.
func (c *Cart) Items() []Item { return c.state.Items }

// Subtotal returns Σ price × quantity.
func (c *Cart) Subtotal() decimal.Decimal { return c.state.Subtotal() }

// FinalTotal returns subtotal × 1.08 - discount.
func (c *Cart) FinalTotal() decimal.Decimal { return c.state.FinalTotal() }

// Repository stores one cart per session.
type Repository interface {
	// Get returns the session's cart state, or an empty state if none exists.
	Get(ctx context.Context, sessionID string) (State, error)
	// Update runs fn on the session's cart and saves the result if fn
	// returns nil. The saved state is returned.
	Update(ctx context.Context, sessionID string, fn func(*Cart) error) (State, error)
	// Delete discards the session's cart.
	Delete(ctx context.Context, sessionID string) error
}

// ErrConflict indicates the cart changed concurrently and the update was
// not applied.
var ErrConflict = errors.New("cart modified concurrently")
