package api

import (
	"github.com/starford/salesdesk/internal/crm"
	"github.com/starford/salesdesk/internal/models"
)

// AttachClientRequest is the request body for POST /reps/{id}/clients.
type AttachClientRequest struct {
	ClientID string `json:"clientId" example:"client-3" validate:"required"`
}

// AttachProductRequest is the request body for POST /reps/{id}/products.
// Either ExistingID or Fields is used.
type AttachProductRequest = crm.ProductSelection

// ConfirmRequest is the request body for PUT .../confirmed.
type ConfirmRequest struct {
	Confirmed bool `json:"confirmed" example:"true"`
}

// OrderView is an order with its client name and item summary resolved.
type OrderView struct {
	models.Order
	ClientName string `json:"clientName" example:"Mario's Trattoria"`
	Summary    string `json:"summary" example:"Tomatoes, Mozzarella"`
}

// OrderDetail adds resolved lines to OrderView.
type OrderDetail struct {
	OrderView
	Lines []crm.OrderLine `json:"lines"`
}

// ClientListResponse wraps client search results.
type ClientListResponse struct {
	Clients []models.Client `json:"clients" validate:"required"`
	Total   int             `json:"total" example:"5"`
}

// OrderListResponse wraps order listings.
type OrderListResponse struct {
	Orders []OrderView `json:"orders" validate:"required"`
}

// OrderLinesResponse wraps order line search results.
type OrderLinesResponse struct {
	OrderID string          `json:"orderId" example:"ord-1"`
	Lines   []crm.OrderLine `json:"lines" validate:"required"`
}

// ImportResponse reports a CSV merge.
type ImportResponse struct {
	Kind string `json:"kind" example:"clients"`
	crm.ImportResult
}
