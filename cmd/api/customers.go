package main

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"posflow/pkg/customer"
	"posflow/pkg/listing"
	"posflow/pkg/otel"
)

// listCustomersHandler lists customers.
// @Summary List customers
// @Produce json
// @Param q query string false "Search name, email or phone"
// @Param page query int false "Page number"
// @Param perPage query int false "Page size"
// @Success 200 {object} listing.PageResult[customer.Customer]
// @Security ApiKeyAuth
// @Router /customers [get]
func (a *api) listCustomersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listCustomersHandler")
	defer span.End()

	q := listing.ParseQuery(r.URL.Query())
	cs, err := a.customers.List(ctx)
	if err != nil {
		a.fail(w, r, "list customers", err)
		return
	}
	if q.Search != "" {
		cs = listing.Filter(cs, func(c customer.Customer) bool { return c.Matches(q.Search) })
	}
	writeJSON(w, http.StatusOK, listing.Paginate(cs, q.Page))
}

// createCustomerHandler adds a customer.
// @Summary Create customer
// @Accept json
// @Produce json
// @Param customer body customer.Customer true "Customer"
// @Success 201 {object} customer.Customer
// @Failure 400 {object} errorResponse
// @Security ApiKeyAuth
// @Router /customers [post]
func (a *api) createCustomerHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createCustomerHandler")
	defer span.End()

	var c customer.Customer
	if err := decode(r, &c); err != nil {
		a.fail(w, r, "decode customer", err)
		return
	}
	if err := c.Validate(); err != nil {
		a.fail(w, r, "validate customer", err)
		return
	}
	c.ID = uuid.NewString()
	c.CreatedAt = a.clock()
	c.UpdatedAt = c.CreatedAt
	if err := a.customers.Create(ctx, c); err != nil {
		a.fail(w, r, "create customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// getCustomerHandler retrieves a customer by ID.
// @Summary Get customer
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} customer.Customer
// @Failure 404 {object} errorResponse
// @Security ApiKeyAuth
// @Router /customers/{id} [get]
func (a *api) getCustomerHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getCustomerHandler")
	defer span.End()

	c, err := a.customers.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, "get customer", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// updateCustomerHandler edits a customer.
// @Summary Update customer
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param customer body customer.Customer true "Customer"
// @Success 200 {object} customer.Customer
// @Security ApiKeyAuth
// @Router /customers/{id} [put]
func (a *api) updateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateCustomerHandler")
	defer span.End()

	var in customer.Customer
	if err := decode(r, &in); err != nil {
		a.fail(w, r, "decode customer", err)
		return
	}
	if err := in.Validate(); err != nil {
		a.fail(w, r, "validate customer", err)
		return
	}
	c, err := a.customers.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, "get customer", err)
		return
	}
	c.Fullname = in.Fullname
	c.Email = in.Email
	c.Phone = in.Phone
	c.Address = in.Address
	c.UpdatedAt = a.clock()
	if err := a.customers.Update(ctx, c); err != nil {
		a.fail(w, r, "update customer", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// deleteCustomerHandler removes a customer.
// @Summary Delete customer
// @Param id path string true "Customer ID"
// @Success 204
// @Security ApiKeyAuth
// @Router /customers/{id} [delete]
func (a *api) deleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteCustomerHandler")
	defer span.End()

	if err := a.customers.Delete(ctx, mux.Vars(r)["id"]); err != nil {
		a.fail(w, r, "delete customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
