package postgres

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"

	"posflow/pkg/customer"
)

// Schema creates the customers table.
const Schema = `CREATE TABLE IF NOT EXISTS customers (
	id TEXT PRIMARY KEY,
	fullname TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

const columns = "id,fullname,email,phone,address,created_at,updated_at"

// Repository persists customers in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new customer.
func (r *Repository) Create(ctx context.Context, c customer.Customer) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO customers ("+columns+") VALUES ($1,$2,$3,$4,$5,$6,$7)",
		c.ID, c.Fullname, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt)
	return errors.Wrap(err, "insert customer")
}

// Get retrieves a customer by ID.
func (r *Repository) Get(ctx context.Context, id string) (customer.Customer, error) {
	var c customer.Customer
	err := r.db.QueryRowContext(ctx, "SELECT "+columns+" FROM customers WHERE id=$1", id).
		Scan(&c.ID, &c.Fullname, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return customer.Customer{}, customer.ErrNotFound
	}
	return c, err
}

// List fetches all customers, oldest first.
func (r *Repository) List(ctx context.Context) ([]customer.Customer, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+columns+" FROM customers ORDER BY created_at, id")
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	defer rows.Close()
	var customers []customer.Customer
	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(&c.ID, &c.Fullname, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Update updates an existing customer. created_at is never rewritten.
func (r *Repository) Update(ctx context.Context, c customer.Customer) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE customers SET fullname=$2, email=$3, phone=$4, address=$5, updated_at=$6 WHERE id=$1",
		c.ID, c.Fullname, c.Email, c.Phone, c.Address, c.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "update customer")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// Delete removes a customer by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM customers WHERE id=$1", id)
	if err != nil {
		return errors.Wrap(err, "delete customer")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return customer.ErrNotFound
	}
	return nil
}
