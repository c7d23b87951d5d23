package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type cartTestContext struct {
	cart *Cart
}

func (c *cartTestContext) anEmptyCart() error {
	c.cart = New()
	return nil
}

func (c *cartTestContext) iAddProductPriced(id, price string) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	c.cart.Add(Item{ID: id, Name: "product " + id, Price: p})
	return nil
}

func (c *cartTestContext) iApplyADiscountOf(amount string) error {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	c.cart.ApplyDiscount(d)
	return nil
}

func (c *cartTestContext) iSetTheQuantityOfTo(id string, q int) error {
	c.cart.SetQuantity(id, q)
	return nil
}

func (c *cartTestContext) iRemoveProduct(id string) error {
	c.cart.Remove(id)
	return nil
}

func (c *cartTestContext) iClearTheCart() error {
	c.cart.Clear()
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if got := len(c.cart.Items()); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) lineHasQuantity(id string, q int) error {
	for _, it := range c.cart.Items() {
		if it.ID == id {
			if it.Quantity != q {
				return fmt.Errorf("expected quantity %d, got %d", q, it.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("line %q not found", id)
}

func equalAmount(label string, got decimal.Decimal, want string) error {
	w, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if !got.Equal(w) {
		return fmt.Errorf("expected %s %s, got %s", label, w, got)
	}
	return nil
}

func (c *cartTestContext) theSubtotalIs(want string) error {
	return equalAmount("subtotal", c.cart.Subtotal(), want)
}

func (c *cartTestContext) theFinalTotalIs(want string) error {
	return equalAmount("final total", c.cart.FinalTotal(), want)
}

func (c *cartTestContext) theDiscountIs(want string) error {
	return equalAmount("discount", c.cart.State().Discount, want)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.cart = New()
		return ctx, nil
	})

	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^I add product "([^"]*)" priced (-?[\d.]+)$`, tc.iAddProductPriced)
	ctx.Step(`^I apply a discount of (-?[\d.]+)$`, tc.iApplyADiscountOf)
	ctx.Step(`^I set the quantity of "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfTo)
	ctx.Step(`^I remove product "([^"]*)"$`, tc.iRemoveProduct)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)

	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^line "([^"]*)" has quantity (\d+)$`, tc.lineHasQuantity)
	ctx.Step(`^the subtotal is (-?[\d.]+)$`, tc.theSubtotalIs)
	ctx.Step(`^the final total is (-?[\d.]+)$`, tc.theFinalTotalIs)
	ctx.Step(`^the discount is (-?[\d.]+)$`, tc.theDiscountIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
