package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/salesdesk/internal/crm"
	"github.com/starford/salesdesk/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	store   *crm.Store
	perPage int
}

// NewHandler creates a Handler serving store. perPage is the default
// catalog page size; zero selects crm.DefaultProductsPerPage.
func NewHandler(store *crm.Store, perPage int) *Handler {
	if perPage <= 0 {
		perPage = crm.DefaultProductsPerPage
	}
	return &Handler{store: store, perPage: perPage}
}

// ListReps handles GET /api/reps.
//
//	@Summary		List sales reps
//	@Tags			reps
//	@Produce		json
//	@Success		200	{array}	models.SalesRep
//	@Router			/reps [get]
func (h *Handler) ListReps(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Reps())
}

// GetRep handles GET /api/reps/{id}.
//
//	@Summary		Get a sales rep with clients and products resolved
//	@Tags			reps
//	@Produce		json
//	@Param			id	path		string	true	"Rep id"
//	@Success		200	{object}	crm.RepDetail
//	@Failure		404	{object}	errResponse
//	@Router			/reps/{id} [get]
func (h *Handler) GetRep(w http.ResponseWriter, r *http.Request) {
	d, ok := h.store.RepDetail(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("sales rep not found"))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// AttachProduct handles POST /api/reps/{id}/products.
//
//	@Summary		Attach an existing or new product to a rep
//	@Tags			reps
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Rep id"
//	@Param			body	body		AttachProductRequest	true	"Existing id or new product fields"
//	@Success		200		{object}	models.Product
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/reps/{id}/products [post]
func (h *Handler) AttachProduct(w http.ResponseWriter, r *http.Request) {
	var req AttachProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.store.AttachProductToRep(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, "attach product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// AttachClient handles POST /api/reps/{id}/clients.
//
//	@Summary		Attach an existing client to a rep
//	@Tags			reps
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Rep id"
//	@Param			body	body		AttachClientRequest	true	"Client id"
//	@Success		200		{object}	crm.RepDetail
//	@Failure		404		{object}	errResponse
//	@Router			/reps/{id}/clients [post]
func (h *Handler) AttachClient(w http.ResponseWriter, r *http.Request) {
	var req AttachClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	repID := chi.URLParam(r, "id")
	if err := h.store.AttachClientToRep(r.Context(), repID, req.ClientID); err != nil {
		writeError(w, "attach client", err)
		return
	}
	d, _ := h.store.RepDetail(repID)
	writeJSON(w, http.StatusOK, d)
}

// ListClients handles GET /api/clients.
//
//	@Summary		Search clients by name
//	@Tags			clients
//	@Produce		json
//	@Param			q	query		string	false	"Case-insensitive name fragment"
//	@Success		200	{object}	ClientListResponse
//	@Router			/clients [get]
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients := h.store.SearchClients(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, ClientListResponse{Clients: clients, Total: len(clients)})
}

// GetClient handles GET /api/clients/{id}.
//
//	@Summary		Get a client
//	@Tags			clients
//	@Produce		json
//	@Param			id	path		string	true	"Client id"
//	@Success		200	{object}	models.Client
//	@Failure		404	{object}	errResponse
//	@Router			/clients/{id} [get]
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	c, ok := h.store.Client(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("client not found"))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateClient handles POST /api/clients.
//
//	@Summary		Create a client
//	@Tags			clients
//	@Accept			json
//	@Produce		json
//	@Param			body	body		crm.ClientFields	true	"Client to create"
//	@Success		201		{object}	models.Client
//	@Failure		400		{object}	errResponse
//	@Router			/clients [post]
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req crm.ClientFields
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.store.AddClient(r.Context(), req)
	if err != nil {
		writeError(w, "create client", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ListProducts handles GET /api/products.
//
//	@Summary		Search the catalog with pagination
//	@Tags			products
//	@Produce		json
//	@Param			q			query		string	false	"Name or description fragment"
//	@Param			page		query		int		false	"1-based page"
//	@Param			per_page	query		int		false	"Page size"
//	@Success		200			{object}	crm.ProductPage
//	@Router			/products [get]
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage <= 0 {
		perPage = h.perPage
	}
	writeJSON(w, http.StatusOK, h.store.SearchProducts(q.Get("q"), page, perPage))
}

// GetProduct handles GET /api/products/{id}.
//
//	@Summary		Get a product
//	@Tags			products
//	@Produce		json
//	@Param			id	path		string	true	"Product id"
//	@Success		200	{object}	models.Product
//	@Failure		404	{object}	errResponse
//	@Router			/products/{id} [get]
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.store.Product(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("product not found"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProduct handles POST /api/products.
//
//	@Summary		Create a catalog product
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			body	body		crm.ProductFields	true	"Product to create"
//	@Success		201		{object}	models.Product
//	@Failure		400		{object}	errResponse
//	@Router			/products [post]
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req crm.ProductFields
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.store.AddProduct(r.Context(), req)
	if err != nil {
		writeError(w, "create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) orderView(o models.Order) OrderView {
	return OrderView{
		Order:      o,
		ClientName: h.store.ClientName(o.ClientID),
		Summary:    h.store.OrderSummary(o),
	}
}

func (h *Handler) orderViews(orders []models.Order) []OrderView {
	out := make([]OrderView, len(orders))
	for i, o := range orders {
		out[i] = h.orderView(o)
	}
	return out
}

// ListOrders handles GET /api/orders.
//
//	@Summary		List all orders
//	@Tags			orders
//	@Produce		json
//	@Success		200	{object}	OrderListResponse
//	@Router			/orders [get]
func (h *Handler) ListOrders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, OrderListResponse{Orders: h.orderViews(h.store.Orders())})
}

// TodaysOrders handles GET /api/orders/today.
//
//	@Summary		Orders created on the current calendar date
//	@Tags			orders
//	@Produce		json
//	@Success		200	{object}	OrderListResponse
//	@Router			/orders/today [get]
func (h *Handler) TodaysOrders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, OrderListResponse{Orders: h.orderViews(h.store.TodaysOrders())})
}

// GetOrder handles GET /api/orders/{id}.
//
//	@Summary		Get an order with its lines resolved
//	@Tags			orders
//	@Produce		json
//	@Param			id	path		string	true	"Order id"
//	@Success		200	{object}	OrderDetail
//	@Failure		404	{object}	errResponse
//	@Router			/orders/{id} [get]
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, ok := h.store.Order(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("order not found"))
		return
	}
	lines, _ := h.store.SearchOrderItems(id, "")
	writeJSON(w, http.StatusOK, OrderDetail{OrderView: h.orderView(o), Lines: lines})
}

// OrderItems handles GET /api/orders/{id}/items.
//
//	@Summary		Search an order's lines by product name
//	@Tags			orders
//	@Produce		json
//	@Param			id	path		string	true	"Order id"
//	@Param			q	query		string	false	"Product name fragment"
//	@Success		200	{object}	OrderLinesResponse
//	@Failure		404	{object}	errResponse
//	@Router			/orders/{id}/items [get]
func (h *Handler) OrderItems(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	lines, ok := h.store.SearchOrderItems(id, r.URL.Query().Get("q"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("order not found"))
		return
	}
	writeJSON(w, http.StatusOK, OrderLinesResponse{OrderID: id, Lines: lines})
}

// ConfirmItem handles PUT /api/orders/{id}/items/{productID}/confirmed.
//
//	@Summary		Set the confirmed flag of an order line
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string			true	"Order id"
//	@Param			productID	path		string			true	"Product id"
//	@Param			body		body		ConfirmRequest	true	"Flag value"
//	@Success		200			{object}	crm.OrderLine
//	@Failure		404			{object}	errResponse
//	@Router			/orders/{id}/items/{productID}/confirmed [put]
func (h *Handler) ConfirmItem(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	orderID := chi.URLParam(r, "id")
	productID := chi.URLParam(r, "productID")
	if !h.store.SetOrderItemConfirmed(r.Context(), orderID, productID, req.Confirmed) {
		writeJSON(w, http.StatusNotFound, errorBody("order line not found"))
		return
	}
	o, _ := h.store.Order(orderID)
	it, _ := o.Item(productID)
	writeJSON(w, http.StatusOK, crm.OrderLine{OrderItem: it, Product: h.store.ProductDetails(productID)})
}

// PendingOrders handles GET /api/pending-orders.
//
//	@Summary		List pending order notes
//	@Tags			orders
//	@Produce		json
//	@Success		200	{array}	models.PendingOrderNote
//	@Router			/pending-orders [get]
func (h *Handler) PendingOrders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.PendingNotes())
}
