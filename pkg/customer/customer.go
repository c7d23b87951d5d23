package customer

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"posflow/pkg/listing"
)

// Customer is a shopper known to the store.
type Customer struct {
	ID        string    `json:"id"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Repository defines behavior for persisting customers.
type Repository interface {
	Create(ctx context.Context, c Customer) error
	Get(ctx context.Context, id string) (Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, c Customer) error
	Delete(ctx context.Context, id string) error
}

// Errors returned by the customer package.
var (
	ErrNotFound         = errors.New("customer not found")
	ErrFullnameRequired = errors.New("customer name is required")
)

// Validate checks the fields a customer form requires.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.Fullname) == "" {
		return ErrFullnameRequired
	}
	return nil
}

// Matches reports whether term occurs in the name or email, ignoring case,
// or literally in the phone number.
func (c Customer) Matches(term string) bool {
	return listing.ContainsFold(c.Fullname, term) ||
		(c.Email != "" && listing.ContainsFold(c.Email, term)) ||
		(c.Phone != "" && strings.Contains(c.Phone, term))
}

// Seed returns the demo customers.
func Seed(now time.Time) []Customer {
	return []Customer{
		{ID: "1", Fullname: "John Doe", Email: "john@example.com", Phone: "+1234567890", Address: "123 Main St, City, State", CreatedAt: now, UpdatedAt: now},
		{ID: "2", Fullname: "Jane Smith", Email: "jane@example.com", Phone: "+1987654321", Address: "456 Oak Ave, City, State", CreatedAt: now, UpdatedAt: now},
	}
}
