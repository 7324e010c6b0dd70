package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mercadito-pos/mercadito-pos/internal/catalog/categories"
	"github.com/mercadito-pos/mercadito-pos/internal/catalog/products"
	"github.com/mercadito-pos/mercadito-pos/internal/inventory"
	"github.com/mercadito-pos/mercadito-pos/internal/pos/cashclose"
	"github.com/mercadito-pos/mercadito-pos/internal/sales"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	ProductsHandler   *products.Handler
	CategoriesHandler *categories.Handler
	InventoryHandler  *inventory.Handler
	SalesHandler      *sales.Handler
	CashCloseHandler  *cashclose.Handler
}

// NewRouter constructs the chi.Router with gateway defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(params.Config) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", params.ProductsHandler.MountRoutes)
		r.Route("/categories", params.CategoriesHandler.MountRoutes)
		r.Route("/inventory", params.InventoryHandler.MountRoutes)
		r.Route("/sales", params.SalesHandler.MountRoutes)
		r.Route("/cashclose", params.CashCloseHandler.MountRoutes)
	})

	return r
}
