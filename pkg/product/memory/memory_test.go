package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"posflow/pkg/product"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	p := product.Product{ID: "1", Name: "Widget", SKU: "W1", Price: decimal.NewFromInt(2), Stock: 3}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Widget" {
		t.Fatalf("expected Widget, got %s", got.Name)
	}
	p.Name = "Gadget"
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 || list[0].Name != "Gadget" {
		t.Fatalf("list: %v %+v", err, list)
	}
	if err := repo.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "1"); err != product.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Update(ctx, p); err != product.ErrNotFound {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestSeedOrder(t *testing.T) {
	repo := New(product.Seed()...)
	list, _ := repo.List(context.Background())
	if len(list) != 6 {
		t.Fatalf("expected 6 products, got %d", len(list))
	}
	for i, p := range list {
		if p.ID != product.Seed()[i].ID {
			t.Fatalf("unexpected order at %d: %s", i, p.ID)
		}
	}
}
