package main

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"posflow/pkg/auth"
	"posflow/pkg/cart"
	"posflow/pkg/checkout"
	"posflow/pkg/otel"
)

// cartResponse is the cart summary plus the cash presets for its total.
type cartResponse struct {
	cart.Summary
	QuickAmounts []checkout.QuickAmount `json:"quickAmounts"`
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type discountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func newCartResponse(st cart.State) cartResponse {
	sum := st.Summarize()
	return cartResponse{Summary: sum, QuickAmounts: checkout.QuickAmounts(sum.Total)}
}

// updateCart applies fn to the caller's cart and writes the result.
func (a *api) updateCart(ctx context.Context, w http.ResponseWriter, r *http.Request, fn func(*cart.Cart) error) {
	s, _ := auth.FromContext(ctx)
	st, err := a.carts.Update(ctx, s.ID, fn)
	if err != nil {
		a.fail(w, r, "update cart", err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(st))
}

// getCartHandler returns the session's cart.
// @Summary Get cart
// @Produce json
// @Success 200 {object} cartResponse
// @Security ApiKeyAuth
// @Router /cart [get]
func (a *api) getCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getCartHandler")
	defer span.End()

	s, _ := auth.FromContext(ctx)
	st, err := a.carts.Get(ctx, s.ID)
	if err != nil {
		a.fail(w, r, "get cart", err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(st))
}

// clearCartHandler empties the cart and resets the discount.
// @Summary Clear cart
// @Produce json
// @Success 200 {object} cartResponse
// @Security ApiKeyAuth
// @Router /cart [delete]
func (a *api) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "clearCartHandler")
	defer span.End()

	a.updateCart(ctx, w, r, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// addCartItemHandler adds one unit of a catalog product.
// @Summary Add to cart
// @Accept json
// @Produce json
// @Param item body addItemRequest true "Product"
// @Success 200 {object} cartResponse
// @Failure 404 {object} errorResponse
// @Security ApiKeyAuth
// @Router /cart/items [post]
func (a *api) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addCartItemHandler")
	defer span.End()

	var req addItemRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, "decode cart item", err)
		return
	}
	p, err := a.products.Get(ctx, req.ProductID)
	if err != nil {
		a.fail(w, r, "lookup product", err)
		return
	}
	a.updateCart(ctx, w, r, func(c *cart.Cart) error {
		c.Add(cart.Item{ID: p.ID, Name: p.Name, Price: p.Price, SKU: p.SKU, Image: p.Image})
		return nil
	})
}

// setCartQuantityHandler sets a line's quantity. Zero or less removes it.
// @Summary Set quantity
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param quantity body quantityRequest true "Quantity"
// @Success 200 {object} cartResponse
// @Security ApiKeyAuth
// @Router /cart/items/{id} [put]
func (a *api) setCartQuantityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "setCartQuantityHandler")
	defer span.End()

	var req quantityRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, "decode quantity", err)
		return
	}
	id := mux.Vars(r)["id"]
	a.updateCart(ctx, w, r, func(c *cart.Cart) error {
		c.SetQuantity(id, req.Quantity)
		return nil
	})
}

// removeCartItemHandler drops a line from the cart.
// @Summary Remove from cart
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} cartResponse
// @Security ApiKeyAuth
// @Router /cart/items/{id} [delete]
func (a *api) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeCartItemHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	a.updateCart(ctx, w, r, func(c *cart.Cart) error {
		c.Remove(id)
		return nil
	})
}

// applyDiscountHandler sets the flat cart discount.
// @Summary Apply discount
// @Accept json
// @Produce json
// @Param discount body discountRequest true "Discount"
// @Success 200 {object} cartResponse
// @Failure 400 {object} errorResponse
// @Security ApiKeyAuth
// @Router /cart/discount [put]
func (a *api) applyDiscountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "applyDiscountHandler")
	defer span.End()

	var req discountRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, "decode discount", err)
		return
	}
	if req.Amount.IsNegative() {
		a.fail(w, r, "apply discount", errors.Wrap(errBadRequest, "discount must not be negative"))
		return
	}
	a.updateCart(ctx, w, r, func(c *cart.Cart) error {
		c.ApplyDiscount(req.Amount)
		return nil
	})
}
