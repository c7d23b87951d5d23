package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"posflow/pkg/category"
	"posflow/pkg/listing"
	"posflow/pkg/otel"
)

// listCategoriesHandler lists categories as a flat list.
// @Summary List categories
// @Produce json
// @Param q query string false "Search name or description"
// @Param page query int false "Page number"
// @Param perPage query int false "Page size"
// @Success 200 {object} listing.PageResult[category.Category]
// @Security ApiKeyAuth
// @Router /categories [get]
func (a *api) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listCategoriesHandler")
	defer span.End()

	q := listing.ParseQuery(r.URL.Query())
	cs, err := a.categories.List(ctx, q.Search)
	if err != nil {
		a.fail(w, r, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, listing.Paginate(cs, q.Page))
}

// categoryHierarchyHandler returns the category tree.
// @Summary Category hierarchy
// @Produce json
// @Success 200 {array} category.Category
// @Security ApiKeyAuth
// @Router /categories/hierarchy [get]
func (a *api) categoryHierarchyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "categoryHierarchyHandler")
	defer span.End()

	tree, err := a.categories.Hierarchy(ctx)
	if err != nil {
		a.fail(w, r, "category hierarchy", err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// createCategoryHandler adds a category.
// @Summary Create category
// @Accept json
// @Produce json
// @Param category body category.Input true "Category"
// @Success 201 {object} category.Category
// @Failure 400 {object} errorResponse
// @Security ApiKeyAuth
// @Router /categories [post]
func (a *api) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createCategoryHandler")
	defer span.End()

	var in category.Input
	if err := decode(r, &in); err != nil {
		a.fail(w, r, "decode category", err)
		return
	}
	c, err := a.categories.Create(ctx, in)
	if err != nil {
		a.fail(w, r, "create category", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// getCategoryHandler retrieves a category by ID.
// @Summary Get category
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} category.Category
// @Security ApiKeyAuth
// @Router /categories/{id} [get]
func (a *api) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getCategoryHandler")
	defer span.End()

	c, err := a.categories.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, "get category", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// updateCategoryHandler edits a category.
// @Summary Update category
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body category.Input true "Category"
// @Success 200 {object} category.Category
// @Security ApiKeyAuth
// @Router /categories/{id} [put]
func (a *api) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateCategoryHandler")
	defer span.End()

	var in category.Input
	if err := decode(r, &in); err != nil {
		a.fail(w, r, "decode category", err)
		return
	}
	c, err := a.categories.Update(ctx, mux.Vars(r)["id"], in)
	if err != nil {
		a.fail(w, r, "update category", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// deleteCategoryHandler removes a category that has no subcategories.
// @Summary Delete category
// @Param id path string true "Category ID"
// @Success 204
// @Failure 409 {object} errorResponse
// @Security ApiKeyAuth
// @Router /categories/{id} [delete]
func (a *api) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteCategoryHandler")
	defer span.End()

	if err := a.categories.Delete(ctx, mux.Vars(r)["id"]); err != nil {
		a.fail(w, r, "delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
