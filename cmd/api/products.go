package main

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"posflow/pkg/listing"
	"posflow/pkg/otel"
	"posflow/pkg/product"
)

// listProductsHandler lists the catalog.
// @Summary List products
// @Produce json
// @Param q query string false "Search name, SKU or category"
// @Param category query string false "Exact category"
// @Param sort query string false "name, price, sku, category or stock"
// @Param order query string false "asc or desc"
// @Param page query int false "Page number"
// @Param perPage query int false "Page size"
// @Success 200 {object} listing.PageResult[product.Product]
// @Security ApiKeyAuth
// @Router /products [get]
func (a *api) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listProductsHandler")
	defer span.End()

	q := listing.ParseQuery(r.URL.Query())
	ps, err := a.products.List(ctx)
	if err != nil {
		a.fail(w, r, "list products", err)
		return
	}
	cat := r.URL.Query().Get("category")
	ps = listing.Filter(ps, func(p product.Product) bool {
		return (q.Search == "" || p.Matches(q.Search)) && (cat == "" || p.Category == cat)
	})
	product.Sort(ps, q.Sort)
	writeJSON(w, http.StatusOK, listing.Paginate(ps, q.Page))
}

// createProductHandler adds a product.
// @Summary Create product
// @Accept json
// @Produce json
// @Param product body product.Product true "Product"
// @Success 201 {object} product.Product
// @Failure 400 {object} errorResponse
// @Security ApiKeyAuth
// @Router /products [post]
func (a *api) createProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createProductHandler")
	defer span.End()

	var p product.Product
	if err := decode(r, &p); err != nil {
		a.fail(w, r, "decode product", err)
		return
	}
	if err := p.Validate(); err != nil {
		a.fail(w, r, "validate product", err)
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := a.products.Create(ctx, p); err != nil {
		a.fail(w, r, "create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// getProductHandler retrieves a product by ID.
// @Summary Get product
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} product.Product
// @Failure 404 {object} errorResponse
// @Security ApiKeyAuth
// @Router /products/{id} [get]
func (a *api) getProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getProductHandler")
	defer span.End()

	p, err := a.products.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, "get product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// updateProductHandler replaces a product.
// @Summary Update product
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body product.Product true "Product"
// @Success 200 {object} product.Product
// @Security ApiKeyAuth
// @Router /products/{id} [put]
func (a *api) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateProductHandler")
	defer span.End()

	var p product.Product
	if err := decode(r, &p); err != nil {
		a.fail(w, r, "decode product", err)
		return
	}
	p.ID = mux.Vars(r)["id"]
	if err := p.Validate(); err != nil {
		a.fail(w, r, "validate product", err)
		return
	}
	if err := a.products.Update(ctx, p); err != nil {
		a.fail(w, r, "update product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// deleteProductHandler removes a product.
// @Summary Delete product
// @Param id path string true "Product ID"
// @Success 204
// @Security ApiKeyAuth
// @Router /products/{id} [delete]
func (a *api) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteProductHandler")
	defer span.End()

	if err := a.products.Delete(ctx, mux.Vars(r)["id"]); err != nil {
		a.fail(w, r, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
