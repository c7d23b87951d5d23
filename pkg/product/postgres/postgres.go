package postgres

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"

	"posflow/pkg/product"
)

// Schema creates the products table.
const Schema = `CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	price NUMERIC(12,2) NOT NULL,
	sku TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	stock INT NOT NULL DEFAULT 0,
	image TEXT NOT NULL DEFAULT ''
)`

const columns = "id,name,price,sku,category,stock,image"

// Repository persists products in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, p product.Product) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO products ("+columns+") VALUES ($1,$2,$3,$4,$5,$6,$7)",
		p.ID, p.Name, p.Price, p.SKU, p.Category, p.Stock, p.Image)
	return errors.Wrap(err, "insert product")
}

// Get retrieves a product by ID.
func (r *Repository) Get(ctx context.Context, id string) (product.Product, error) {
	var p product.Product
	err := r.db.QueryRowContext(ctx, "SELECT "+columns+" FROM products WHERE id=$1", id).
		Scan(&p.ID, &p.Name, &p.Price, &p.SKU, &p.Category, &p.Stock, &p.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return product.Product{}, product.ErrNotFound
	}
	return p, err
}

// List fetches all products ordered by name.
func (r *Repository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+columns+" FROM products ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	defer rows.Close()
	var products []product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.SKU, &p.Category, &p.Stock, &p.Image); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Update updates an existing product.
func (r *Repository) Update(ctx context.Context, p product.Product) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET name=$2, price=$3, sku=$4, category=$5, stock=$6, image=$7 WHERE id=$1",
		p.ID, p.Name, p.Price, p.SKU, p.Category, p.Stock, p.Image)
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id=$1", id)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return product.ErrNotFound
	}
	return nil
}
