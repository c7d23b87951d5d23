package main

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-faster/errors"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	"posflow/pkg/auth"
	"posflow/pkg/cart"
	"posflow/pkg/category"
	"posflow/pkg/checkout"
	"posflow/pkg/customer"
	"posflow/pkg/logger"
	"posflow/pkg/otel"
	"posflow/pkg/product"
	"posflow/pkg/sale"
	"posflow/pkg/userapi"
)

const sessionCookie = "session_id"

// api holds the handler dependencies.
type api struct {
	log    *logger.Logger
	tracer trace.Tracer

	products   product.Repository
	customers  customer.Repository
	categories *category.Service
	sales      sale.Repository
	carts      cart.Repository
	checkout   *checkout.Service

	authenticator auth.Authenticator
	sessions      auth.SessionStore
	sessionTTL    time.Duration
	// users is nil when no user service is configured.
	users *userapi.Client

	corsOrigins []string
	now         func() time.Time
}

func (a *api) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(a.traceMiddleware)
	r.HandleFunc("/auth/login", a.loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/user/create", a.registerUserHandler).Methods(http.MethodPost)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	p := r.NewRoute().Subrouter()
	p.Use(a.authMiddleware)
	p.HandleFunc("/logout", a.logoutHandler).Methods(http.MethodPost)

	p.HandleFunc("/user", a.listUsersHandler).Methods(http.MethodGet)
	p.HandleFunc("/user/{id}", a.updateUserHandler).Methods(http.MethodPatch)
	p.HandleFunc("/user/{id}", a.deleteUserHandler).Methods(http.MethodDelete)

	p.HandleFunc("/products", a.listProductsHandler).Methods(http.MethodGet)
	p.HandleFunc("/products", a.createProductHandler).Methods(http.MethodPost)
	p.HandleFunc("/products/{id}", a.getProductHandler).Methods(http.MethodGet)
	p.HandleFunc("/products/{id}", a.updateProductHandler).Methods(http.MethodPut)
	p.HandleFunc("/products/{id}", a.deleteProductHandler).Methods(http.MethodDelete)

	p.HandleFunc("/customers", a.listCustomersHandler).Methods(http.MethodGet)
	p.HandleFunc("/customers", a.createCustomerHandler).Methods(http.MethodPost)
	p.HandleFunc("/customers/{id}", a.getCustomerHandler).Methods(http.MethodGet)
	p.HandleFunc("/customers/{id}", a.updateCustomerHandler).Methods(http.MethodPut)
	p.HandleFunc("/customers/{id}", a.deleteCustomerHandler).Methods(http.MethodDelete)

	p.HandleFunc("/categories", a.listCategoriesHandler).Methods(http.MethodGet)
	p.HandleFunc("/categories", a.createCategoryHandler).Methods(http.MethodPost)
	p.HandleFunc("/categories/hierarchy", a.categoryHierarchyHandler).Methods(http.MethodGet)
	p.HandleFunc("/categories/{id}", a.getCategoryHandler).Methods(http.MethodGet)
	p.HandleFunc("/categories/{id}", a.updateCategoryHandler).Methods(http.MethodPut)
	p.HandleFunc("/categories/{id}", a.deleteCategoryHandler).Methods(http.MethodDelete)

	p.HandleFunc("/cart", a.getCartHandler).Methods(http.MethodGet)
	p.HandleFunc("/cart", a.clearCartHandler).Methods(http.MethodDelete)
	p.HandleFunc("/cart/items", a.addCartItemHandler).Methods(http.MethodPost)
	p.HandleFunc("/cart/items/{id}", a.setCartQuantityHandler).Methods(http.MethodPut)
	p.HandleFunc("/cart/items/{id}", a.removeCartItemHandler).Methods(http.MethodDelete)
	p.HandleFunc("/cart/discount", a.applyDiscountHandler).Methods(http.MethodPut)

	p.HandleFunc("/checkout", a.checkoutHandler).Methods(http.MethodPost)

	p.HandleFunc("/sales", a.listSalesHandler).Methods(http.MethodGet)
	p.HandleFunc("/sales/export", a.exportSalesHandler).Methods(http.MethodGet)
	p.HandleFunc("/sales/{id}", a.getSaleHandler).Methods(http.MethodGet)
	p.HandleFunc("/dashboard", a.dashboardHandler).Methods(http.MethodGet)

	// Cookies are only allowed cross-origin for an explicit origin list.
	origins := a.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	})(r)
}

func (a *api) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if a.tracer != nil {
			ctx = otel.InjectTracing(ctx, a.tracer)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authMiddleware ensures a valid session exists. The session ID comes from
// the session cookie or a bearer token.
func (a *api) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := sessionID(r)
		if sid == "" {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		s, err := a.sessions.Get(r.Context(), sid)
		if err != nil {
			if !errors.Is(err, auth.ErrSessionNotFound) {
				a.log.Error(r.Context(), "load session", "error", err)
			}
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), s)))
	})
}

func sessionID(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func (a *api) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

var errBadRequest = errors.New("malformed request body")

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, product.ErrNameRequired),
		errors.Is(err, product.ErrSKURequired),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStock),
		errors.Is(err, customer.ErrFullnameRequired),
		errors.Is(err, category.ErrNameRequired),
		errors.Is(err, category.ErrParentNotFound),
		errors.Is(err, category.ErrSelfParent),
		errors.Is(err, category.ErrCycle),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInsufficientPayment),
		errors.Is(err, checkout.ErrNegativeTotal),
		errors.Is(err, checkout.ErrInvalidPaymentMethod):
		return http.StatusBadRequest
	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, category.ErrNotFound),
		errors.Is(err, sale.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, category.ErrHasSubcategories),
		errors.Is(err, cart.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrSessionNotFound):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error. Upstream user service errors are passed
// through with their own status and body.
func (a *api) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var apiErr *userapi.APIError
	if errors.As(err, &apiErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(apiErr.StatusCode)
		w.Write(apiErr.Body)
		return
	}
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		a.log.Error(r.Context(), msg, "error", err)
		writeJSONError(w, code, http.StatusText(code))
		return
	}
	writeJSONError(w, code, err.Error())
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}
	return nil
}
