package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted. events, if
// non-nil, is served at GET /events.
func NewRouter(h *Handler, events http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/reps", func(r chi.Router) {
		r.Get("/", h.ListReps)
		r.Get("/{id}", h.GetRep)
		r.Post("/{id}/products", h.AttachProduct)
		r.Post("/{id}/clients", h.AttachClient)
	})

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", h.ListClients)
		r.Post("/", h.CreateClient)
		r.Post("/import", h.ImportClients)
		r.Get("/{id}", h.GetClient)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Post("/import", h.ImportProducts)
		r.Get("/{id}", h.GetProduct)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/today", h.TodaysOrders)
		r.Get("/{id}", h.GetOrder)
		r.Get("/{id}/items", h.OrderItems)
		r.Put("/{id}/items/{productID}/confirmed", h.ConfirmItem)
	})

	r.Get("/pending-orders", h.PendingOrders)
	r.Get("/snapshot", h.Snapshot)

	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}

	return r
}
