package product

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"posflow/pkg/listing"
)

// Product represents a catalog item sold at the till.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	SKU      string          `json:"sku"`
	Category string          `json:"category"`
	Stock    int             `json:"stock"`
	Image    string          `json:"image,omitempty"`
}

// Repository defines behavior for persisting products.
type Repository interface {
	Create(ctx context.Context, p Product) error
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
}

// Errors returned by the product package.
var (
	ErrNotFound     = errors.New("product not found")
	ErrNameRequired = errors.New("product name is required")
	ErrSKURequired  = errors.New("product SKU is required")
	ErrInvalidPrice = errors.New("product price must not be negative")
	ErrInvalidStock = errors.New("product stock must not be negative")
)

// Validate checks the fields a product form requires.
func (p Product) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return ErrNameRequired
	case strings.TrimSpace(p.SKU) == "":
		return ErrSKURequired
	case p.Price.IsNegative():
		return ErrInvalidPrice
	case p.Stock < 0:
		return ErrInvalidStock
	}
	return nil
}

// Matches reports whether term occurs in the name, SKU or category.
func (p Product) Matches(term string) bool {
	return listing.ContainsFold(p.Name, term) ||
		listing.ContainsFold(p.SKU, term) ||
		listing.ContainsFold(p.Category, term)
}

// Sort orders ps in place by name, price, sku, category or stock.
// Unknown columns leave the order unchanged.
func Sort(ps []Product, s listing.Sort) {
	var less func(a, b Product) int
	switch s.Column {
	case "name":
		less = func(a, b Product) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
	case "price":
		less = func(a, b Product) int { return a.Price.Cmp(b.Price) }
	case "sku":
		less = func(a, b Product) int { return strings.Compare(a.SKU, b.SKU) }
	case "category":
		less = func(a, b Product) int { return strings.Compare(a.Category, b.Category) }
	case "stock":
		less = func(a, b Product) int { return cmp.Compare(a.Stock, b.Stock) }
	default:
		return
	}
	if s.Order == listing.SortDesc {
		asc := less
		less = func(a, b Product) int { return asc(b, a) }
	}
	slices.SortStableFunc(ps, less)
}

// Seed returns the demo catalog the till starts with.
func Seed() []Product {
	d := decimal.RequireFromString
	return []Product{
		{ID: "1", Name: "Coffee Bean Bag", Price: d("12.99"), SKU: "CB001", Category: "Beverages", Stock: 45},
		{ID: "2", Name: "Energy Drink", Price: d("3.49"), SKU: "ED002", Category: "Beverages", Stock: 120},
		{ID: "3", Name: "Chocolate Bar", Price: d("2.99"), SKU: "CB003", Category: "Snacks", Stock: 78},
		{ID: "4", Name: "Protein Bar", Price: d("4.99"), SKU: "PB004", Category: "Health", Stock: 32},
		{ID: "5", Name: "Potato Chips", Price: d("1.99"), SKU: "PC005", Category: "Snacks", Stock: 95},
		{ID: "6", Name: "Water Bottle", Price: d("1.49"), SKU: "WB006", Category: "Beverages", Stock: 200},
	}
}
