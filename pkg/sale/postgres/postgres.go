package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/go-faster/errors"

	"posflow/pkg/sale"
)

// Schema creates the sales table. Line items are stored as JSONB.
const Schema = `CREATE TABLE IF NOT EXISTS sales (
	id TEXT PRIMARY KEY,
	seq BIGSERIAL UNIQUE,
	sold_at TIMESTAMPTZ NOT NULL,
	customer_id TEXT NOT NULL DEFAULT '',
	customer TEXT NOT NULL DEFAULT '',
	items JSONB NOT NULL,
	subtotal NUMERIC(12,4) NOT NULL,
	tax NUMERIC(12,4) NOT NULL,
	discount NUMERIC(12,4) NOT NULL,
	total NUMERIC(12,4) NOT NULL,
	payment_method TEXT NOT NULL,
	amount_received NUMERIC(12,4) NOT NULL,
	change_due NUMERIC(12,4) NOT NULL,
	cashier TEXT NOT NULL DEFAULT ''
)`

const columns = "id,seq,sold_at,customer_id,customer,items,subtotal,tax,discount,total,payment_method,amount_received,change_due,cashier"

// Repository persists sales in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the sale and assigns its number from the sequence.
func (r *Repository) Create(ctx context.Context, s *sale.Sale) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return errors.Wrap(err, "encode items")
	}
	var seq int
	err = r.db.QueryRowContext(ctx, `INSERT INTO sales
		(id,sold_at,customer_id,customer,items,subtotal,tax,discount,total,payment_method,amount_received,change_due,cashier)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13) RETURNING seq`,
		s.ID, s.Date, s.CustomerID, s.Customer, items, s.Subtotal, s.Tax, s.Discount, s.Total,
		string(s.PaymentMethod), s.AmountReceived, s.Change, s.Cashier,
	).Scan(&seq)
	if err != nil {
		return errors.Wrap(err, "insert sale")
	}
	s.Number = sale.FormatNumber(seq)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(sc scanner) (sale.Sale, error) {
	var (
		s     sale.Sale
		seq   int
		items []byte
		pm    string
	)
	err := sc.Scan(&s.ID, &seq, &s.Date, &s.CustomerID, &s.Customer, &items, &s.Subtotal, &s.Tax,
		&s.Discount, &s.Total, &pm, &s.AmountReceived, &s.Change, &s.Cashier)
	if err != nil {
		return sale.Sale{}, err
	}
	if err := json.Unmarshal(items, &s.Items); err != nil {
		return sale.Sale{}, errors.Wrap(err, "decode items")
	}
	s.Number = sale.FormatNumber(seq)
	s.PaymentMethod = sale.PaymentMethod(pm)
	return s, nil
}

// Get retrieves a sale by ID.
func (r *Repository) Get(ctx context.Context, id string) (sale.Sale, error) {
	s, err := scan(r.db.QueryRowContext(ctx, "SELECT "+columns+" FROM sales WHERE id=$1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return sale.Sale{}, sale.ErrNotFound
	}
	return s, err
}

// List fetches all sales, newest first.
func (r *Repository) List(ctx context.Context) ([]sale.Sale, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+columns+" FROM sales ORDER BY sold_at DESC, seq DESC")
	if err != nil {
		return nil, errors.Wrap(err, "list sales")
	}
	defer rows.Close()
	var sales []sale.Sale
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
