// Package sale records completed sales and derives the reporting figures
// shown on the sales and dashboard screens.
package sale

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"posflow/pkg/listing"
)

// PaymentMethod is how a sale was paid.
type PaymentMethod string

// Payment methods.
const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

// Item is one line of a recorded sale.
type Item struct {
	ProductID string          `json:"productId,omitempty"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Sale is a completed transaction.
type Sale struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"`
	Date           time.Time       `json:"date"`
	CustomerID     string          `json:"customerId,omitempty"`
	Customer       string          `json:"customer"`
	Items          []Item          `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	AmountReceived decimal.Decimal `json:"amountReceived"`
	Change         decimal.Decimal `json:"change"`
	Cashier        string          `json:"cashier"`
}

// Repository defines behavior for persisting sales.
type Repository interface {
	// Create stores s and assigns its display Number.
	Create(ctx context.Context, s *Sale) error
	Get(ctx context.Context, id string) (Sale, error)
	// List returns all sales, newest first.
	List(ctx context.Context) ([]Sale, error)
}

// ErrNotFound indicates the requested sale does not exist.
var ErrNotFound = errors.New("sale not found")

// FormatNumber renders a sequence number the way receipts show it.
func FormatNumber(seq int) string {
	s := strconv.Itoa(seq)
	if len(s) < 3 {
		s = strings.Repeat("0", 3-len(s)) + s
	}
	return "#" + s
}

// DateLayout is the layout used for date filtering and export.
const DateLayout = "2006-01-02 15:04"

// Filter selects sales for the history screen.
type Filter struct {
	Search string
	// Date is matched as a prefix of the formatted sale date, so "2024-01-15"
	// selects a day and "2024-01" a month.
	Date string
}

// Match reports whether s passes f.
func (f Filter) Match(s Sale) bool {
	if f.Search != "" &&
		!listing.ContainsFold(s.ID, f.Search) &&
		!listing.ContainsFold(s.Number, f.Search) &&
		!listing.ContainsFold(s.Customer, f.Search) &&
		!listing.ContainsFold(s.Cashier, f.Search) {
		return false
	}
	return f.Date == "" || strings.HasPrefix(s.Date.Format(DateLayout), f.Date)
}

// Apply returns the sales matching f.
func (f Filter) Apply(sales []Sale) []Sale {
	return listing.Filter(sales, f.Match)
}

// Stats are the summary cards above the history table.
type Stats struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Average decimal.Decimal `json:"average"`
}

// Summarize computes Stats over sales.
func Summarize(sales []Sale) Stats {
	st := Stats{Count: len(sales), Revenue: decimal.Zero, Average: decimal.Zero}
	for _, s := range sales {
		st.Revenue = st.Revenue.Add(s.Total)
	}
	if st.Count > 0 {
		st.Average = st.Revenue.Div(decimal.NewFromInt(int64(st.Count))).Round(2)
	}
	return st
}

// DashboardStats are the figures on the landing dashboard.
type DashboardStats struct {
	TodaySales   decimal.Decimal `json:"todaySales"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	Transactions int             `json:"transactions"`
	ProductsSold int             `json:"productsSold"`
	RecentSales  []Sale          `json:"recentSales"`
}

// RecentLimit is how many sales the dashboard lists.
const RecentLimit = 4

// Dashboard computes the dashboard figures. sales must be newest first.
func Dashboard(sales []Sale, now time.Time) DashboardStats {
	d := DashboardStats{TodaySales: decimal.Zero, TotalRevenue: decimal.Zero, RecentSales: []Sale{}}
	y, m, day := now.Date()
	for _, s := range sales {
		d.TotalRevenue = d.TotalRevenue.Add(s.Total)
		d.Transactions++
		for _, it := range s.Items {
			d.ProductsSold += it.Quantity
		}
		sy, sm, sd := s.Date.In(now.Location()).Date()
		if sy == y && sm == m && sd == day {
			d.TodaySales = d.TodaySales.Add(s.Total)
		}
	}
	n := min(len(sales), RecentLimit)
	d.RecentSales = append(d.RecentSales, sales[:n]...)
	return d
}

// WriteCSV exports sales, one row per sale.
func WriteCSV(w io.Writer, sales []Sale) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"number", "id", "date", "customer", "items", "subtotal", "tax", "discount", "total", "payment_method", "cashier"}); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, s := range sales {
		items := 0
		for _, it := range s.Items {
			items += it.Quantity
		}
		row := []string{
			s.Number,
			s.ID,
			s.Date.Format(DateLayout),
			s.Customer,
			strconv.Itoa(items),
			s.Subtotal.StringFixed(2),
			s.Tax.StringFixed(2),
			s.Discount.StringFixed(2),
			s.Total.StringFixed(2),
			string(s.PaymentMethod),
			s.Cashier,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write row")
		}
	}
	cw.Flush()
	return cw.Error()
}

// Seed returns the demo sales history, newest first.
func Seed() []Sale {
	d := decimal.RequireFromString
	at := func(hour, minute int) time.Time { return time.Date(2024, 1, 15, hour, minute, 0, 0, time.UTC) }
	return []Sale{
		{
			ID: "001", Number: FormatNumber(1), Date: at(14, 30), Customer: "John Doe",
			Items: []Item{
				{Name: "Coffee Bean Bag", Quantity: 2, Price: d("12.99")},
				{Name: "Energy Drink", Quantity: 1, Price: d("3.49")},
			},
			Subtotal: d("29.47"), Total: d("29.47"), PaymentMethod: PaymentCard, Cashier: "Admin",
		},
		{
			ID: "002", Number: FormatNumber(2), Date: at(13, 15), Customer: "Jane Smith",
			Items: []Item{
				{Name: "Chocolate Bar", Quantity: 3, Price: d("2.99")},
				{Name: "Water Bottle", Quantity: 2, Price: d("1.49")},
			},
			Subtotal: d("11.95"), Total: d("11.95"), PaymentMethod: PaymentCash, Cashier: "Cashier",
		},
		{
			ID: "003", Number: FormatNumber(3), Date: at(12, 45), Customer: "Mike Johnson",
			Items: []Item{
				{Name: "Protein Bar", Quantity: 1, Price: d("4.99")},
				{Name: "Potato Chips", Quantity: 2, Price: d("1.99")},
			},
			Subtotal: d("8.97"), Total: d("8.97"), PaymentMethod: PaymentCard, Cashier: "Admin",
		},
	}
}
