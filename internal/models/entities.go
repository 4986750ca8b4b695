// Package models defines the domain types for the sales desk.
package models

import (
	"strings"
	"time"
)

// Unit is the packaging unit a product is sold in.
type Unit string

// Known units.
const (
	UnitCase Unit = "case"
	UnitPack Unit = "pk"
)

// ParseUnit normalizes raw input (case and surrounding whitespace are
// ignored) and reports whether it names a known unit.
func ParseUnit(raw string) (Unit, bool) {
	switch u := Unit(strings.ToLower(strings.TrimSpace(raw))); u {
	case UnitCase, UnitPack:
		return u, true
	default:
		return u, false
	}
}

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	return u == UnitCase || u == UnitPack
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// Order statuses.
const (
	OrderPlaced    OrderStatus = "placed"
	OrderSubmitted OrderStatus = "submitted"
	OrderConfirmed OrderStatus = "confirmed"
)

// SalesRep owns references to the clients and products they handle.
type SalesRep struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Clients  IDSet  `json:"clients"`
	Products IDSet  `json:"products"`
}

// Client is a customer account.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Product is a catalog entry.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        Unit   `json:"unit"`
}

// OrderItem is one line of an order. ProductID is unique within its order.
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Confirmed bool   `json:"confirmed"`
}

// Order is a client's order.
type Order struct {
	ID        string      `json:"id"`
	ClientID  string      `json:"clientId"`
	Status    OrderStatus `json:"status"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Item returns the line for productID.
func (o Order) Item(productID string) (OrderItem, bool) {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return OrderItem{}, false
}

// PendingOrderNote is a free-form follow-up about a client, not a real order.
type PendingOrderNote struct {
	ClientID string `json:"clientId"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

// UnknownClientName is the name resolved for a dangling client reference.
const UnknownClientName = "Unknown Client"

// UnknownProduct is the placeholder for a dangling product reference.
var UnknownProduct = Product{Name: "Unknown"}
