// Package checkout turns a session's cart into a recorded sale.
package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posflow/pkg/cart"
	"posflow/pkg/customer"
	"posflow/pkg/sale"
)

// Errors returned by Checkout.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInsufficientPayment  = errors.New("insufficient payment amount")
	ErrNegativeTotal        = errors.New("discount exceeds the amount due")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
)

// CustomerInfo is the optional walk-in customer captured at the till.
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Request describes how the customer pays.
type Request struct {
	PaymentMethod  sale.PaymentMethod `json:"paymentMethod"`
	AmountReceived decimal.Decimal    `json:"amountReceived"`
	CustomerID     string             `json:"customerId"`
	Customer       CustomerInfo       `json:"customer"`
}

// Receipt is the outcome of a successful checkout.
type Receipt struct {
	Sale   sale.Sale       `json:"sale"`
	Change decimal.Decimal `json:"change"`
}

// Service runs checkouts.
type Service struct {
	carts     cart.Repository
	sales     sale.Repository
	customers customer.Repository
	now       func() time.Time
	newID     func() string
}

// NewService returns a checkout Service. customers may be nil, in which case
// Request.CustomerID is recorded without a name lookup.
func NewService(carts cart.Repository, sales sale.Repository, customers customer.Repository) *Service {
	return &Service{carts: carts, sales: sales, customers: customers, now: time.Now, newID: uuid.NewString}
}

// Checkout charges the session's cart, clears it and records the sale.
// On any error the cart keeps its lines.
func (s *Service) Checkout(ctx context.Context, sessionID, cashier string, req Request) (Receipt, error) {
	if !req.PaymentMethod.Valid() {
		return Receipt{}, ErrInvalidPaymentMethod
	}
	customerName := strings.TrimSpace(req.Customer.Name)
	if customerName == "" && req.CustomerID != "" && s.customers != nil {
		c, err := s.customers.Get(ctx, req.CustomerID)
		if err != nil {
			return Receipt{}, errors.Wrap(err, "lookup customer")
		}
		customerName = c.Fullname
	}

	var (
		rec  sale.Sale
		prev cart.State
	)
	_, err := s.carts.Update(ctx, sessionID, func(c *cart.Cart) error {
		st := c.State()
		if st.IsEmpty() {
			return ErrEmptyCart
		}
		total := st.FinalTotal()
		if total.IsNegative() {
			return ErrNegativeTotal
		}

		received, change := total, decimal.Zero
		if req.PaymentMethod == sale.PaymentCash {
			if req.AmountReceived.LessThan(total) {
				return ErrInsufficientPayment
			}
			received = req.AmountReceived
			change = received.Sub(total)
		}

		rec = sale.Sale{
			ID:             s.newID(),
			Date:           s.now(),
			CustomerID:     req.CustomerID,
			Customer:       customerName,
			Items:          saleItems(st.Items),
			Subtotal:       st.Subtotal(),
			Tax:            st.Tax(),
			Discount:       st.Discount,
			Total:          total,
			PaymentMethod:  req.PaymentMethod,
			AmountReceived: received,
			Change:         change,
			Cashier:        cashier,
		}
		prev = st
		c.Clear()
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	// recorded only after the cleared cart has committed
	if err := s.sales.Create(ctx, &rec); err != nil {
		_, rerr := s.carts.Update(ctx, sessionID, func(c *cart.Cart) error {
			c.Restore(prev)
			return nil
		})
		if rerr != nil {
			return Receipt{}, errors.Wrapf(err, "record sale (cart not restored: %v)", rerr)
		}
		return Receipt{}, errors.Wrap(err, "record sale")
	}
	return Receipt{Sale: rec, Change: rec.Change}, nil
}

func saleItems(items []cart.Item) []sale.Item {
	out := make([]sale.Item, len(items))
	for i, it := range items {
		out[i] = sale.Item{ProductID: it.ID, Name: it.Name, SKU: it.SKU, Quantity: it.Quantity, Price: it.Price}
	}
	return out
}

// QuickAmount is a preset tendered amount offered at the cash screen.
type QuickAmount struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// QuickAmounts returns the $20, $50, $100 and exact presets for total.
func QuickAmounts(total decimal.Decimal) []QuickAmount {
	return []QuickAmount{
		{Label: "$20", Value: decimal.NewFromInt(20)},
		{Label: "$50", Value: decimal.NewFromInt(50)},
		{Label: "$100", Value: decimal.NewFromInt(100)},
		{Label: "Exact", Value: total},
	}
}

// Change returns received - total and whether the payment covers total.
func Change(total, received decimal.Decimal) (decimal.Decimal, bool) {
	diff := received.Sub(total)
	return diff, !diff.IsNegative()
}
