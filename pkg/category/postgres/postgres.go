package postgres

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"

	"posflow/pkg/category"
)

// Schema creates the categories table. parent_category_id is not a foreign
// key; orphans surface as roots.
const Schema = `CREATE TABLE IF NOT EXISTS categories (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	parent_category_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

const columns = "id,name,description,image_url,parent_category_id,created_at,updated_at"

// Repository persists categories in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (category.Category, error) {
	var c category.Category
	err := s.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.ParentCategoryID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create inserts a new category.
func (r *Repository) Create(ctx context.Context, c category.Category) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO categories ("+columns+") VALUES ($1,$2,$3,$4,$5,$6,$7)",
		c.ID, c.Name, c.Description, c.ImageURL, c.ParentCategoryID, c.CreatedAt, c.UpdatedAt)
	return errors.Wrap(err, "insert category")
}

// Get retrieves a category by ID.
func (r *Repository) Get(ctx context.Context, id string) (category.Category, error) {
	c, err := scan(r.db.QueryRowContext(ctx, "SELECT "+columns+" FROM categories WHERE id=$1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return category.Category{}, category.ErrNotFound
	}
	return c, err
}

// List fetches all categories, oldest first.
func (r *Repository) List(ctx context.Context) ([]category.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+columns+" FROM categories ORDER BY created_at, id")
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	defer rows.Close()
	var categories []category.Category
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Update updates an existing category.
func (r *Repository) Update(ctx context.Context, c category.Category) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name=$2, description=$3, image_url=$4, parent_category_id=$5, updated_at=$6 WHERE id=$1",
		c.ID, c.Name, c.Description, c.ImageURL, c.ParentCategoryID, c.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "update category")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return category.ErrNotFound
	}
	return nil
}

// Delete removes a category by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id=$1", id)
	if err != nil {
		return errors.Wrap(err, "delete category")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return category.ErrNotFound
	}
	return nil
}
