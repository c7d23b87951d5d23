package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"posflow/pkg/auth"
	"posflow/pkg/checkout"
	"posflow/pkg/listing"
	"posflow/pkg/otel"
	"posflow/pkg/sale"
)

// salesResponse is one page of history with stats over the whole filter.
type salesResponse struct {
	Stats sale.Stats                    `json:"stats"`
	Sales listing.PageResult[sale.Sale] `json:"sales"`
}

// checkoutHandler charges the session's cart and records the sale.
// @Summary Checkout
// @Accept json
// @Produce json
// @Param payment body checkout.Request true "Payment"
// @Success 201 {object} checkout.Receipt
// @Failure 400 {object} errorResponse
// @Security ApiKeyAuth
// @Router /checkout [post]
func (a *api) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "checkoutHandler")
	defer span.End()

	var req checkout.Request
	if err := decode(r, &req); err != nil {
		a.fail(w, r, "decode checkout", err)
		return
	}
	s, _ := auth.FromContext(ctx)
	receipt, err := a.checkout.Checkout(ctx, s.ID, s.User.Username, req)
	if err != nil {
		a.fail(w, r, "checkout", err)
		return
	}
	a.log.Info(ctx, "sale recorded", "sale", receipt.Sale.Number, "total", receipt.Sale.Total.StringFixed(2), "cashier", s.User.Username)
	writeJSON(w, http.StatusCreated, receipt)
}

func (a *api) filteredSales(ctx context.Context, r *http.Request) ([]sale.Sale, error) {
	all, err := a.sales.List(ctx)
	if err != nil {
		return nil, err
	}
	v := r.URL.Query()
	return sale.Filter{Search: v.Get("q"), Date: v.Get("date")}.Apply(all), nil
}

// listSalesHandler lists sales history, newest first.
// @Summary List sales
// @Produce json
// @Param q query string false "Search number, customer or cashier"
// @Param date query string false "Date prefix, e.g. 2024-01-15"
// @Param page query int false "Page number"
// @Param perPage query int false "Page size"
// @Success 200 {object} salesResponse
// @Security ApiKeyAuth
// @Router /sales [get]
func (a *api) listSalesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listSalesHandler")
	defer span.End()

	sales, err := a.filteredSales(ctx, r)
	if err != nil {
		a.fail(w, r, "list sales", err)
		return
	}
	q := listing.ParseQuery(r.URL.Query())
	writeJSON(w, http.StatusOK, salesResponse{Stats: sale.Summarize(sales), Sales: listing.Paginate(sales, q.Page)})
}

// exportSalesHandler downloads the filtered history as CSV.
// @Summary Export sales
// @Produce text/csv
// @Param q query string false "Search number, customer or cashier"
// @Param date query string false "Date prefix"
// @Success 200
// @Security ApiKeyAuth
// @Router /sales/export [get]
func (a *api) exportSalesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "exportSalesHandler")
	defer span.End()

	sales, err := a.filteredSales(ctx, r)
	if err != nil {
		a.fail(w, r, "export sales", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sales.csv"`)
	if err := sale.WriteCSV(w, sales); err != nil {
		a.log.Error(ctx, "write csv", "error", err)
	}
}

// getSaleHandler retrieves a sale by ID.
// @Summary Get sale
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} sale.Sale
// @Failure 404 {object} errorResponse
// @Security ApiKeyAuth
// @Router /sales/{id} [get]
func (a *api) getSaleHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getSaleHandler")
	defer span.End()

	s, err := a.sales.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, "get sale", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// dashboardHandler returns the landing page figures.
// @Summary Dashboard
// @Produce json
// @Success 200 {object} sale.DashboardStats
// @Security ApiKeyAuth
// @Router /dashboard [get]
func (a *api) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "dashboardHandler")
	defer span.End()

	sales, err := a.sales.List(ctx)
	if err != nil {
		a.fail(w, r, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, sale.Dashboard(sales, a.clock()))
}
