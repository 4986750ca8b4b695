package crm

import (
	"strings"
	"time"

	"github.com/starford/salesdesk/internal/models"
)

// DefaultProductsPerPage is the catalog page size.
const DefaultProductsPerPage = 10

// ProductPage is one page of a product search. Page numbering starts at 1.
type ProductPage struct {
	Items      []models.Product `json:"items"`
	Page       int              `json:"page"`
	PerPage    int              `json:"perPage"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
	HasPrev    bool             `json:"hasPrev"`
	HasNext    bool             `json:"hasNext"`
}

// OrderLine is an order item with its product resolved.
type OrderLine struct {
	models.OrderItem
	Product models.Product `json:"product"`
}

// RepDetail is a sales rep with its references resolved.
type RepDetail struct {
	models.SalesRep
	ClientList  []models.Client  `json:"clientList"`
	ProductList []models.Product `json:"productList"`
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SearchClients returns clients whose name contains query, ignoring case.
// An empty query matches every client.
func (s *Store) SearchClients(query string) []models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Client{}
	for _, c := range s.data.Clients {
		if containsFold(c.Name, query) {
			out = append(out, c)
		}
	}
	return out
}

// SearchProducts returns page (1-based) of the products whose name or
// description contains query. Pages before the first are treated as the
// first; pages past the last are empty.
func (s *Store) SearchProducts(query string, page, perPage int) ProductPage {
	if perPage <= 0 {
		perPage = DefaultProductsPerPage
	}
	if page < 1 {
		page = 1
	}

	s.mu.RLock()
	var matched []models.Product
	for _, p := range s.data.Products {
		if containsFold(p.Name, query) || containsFold(p.Description, query) {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	total := len(matched)
	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}
	items := []models.Product{}
	// Compare page numbers before multiplying so huge pages cannot overflow.
	if page <= totalPages {
		start := (page - 1) * perPage
		end := min(start+perPage, total)
		items = matched[start:end]
	}
	return ProductPage{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

// TodaysOrders returns orders created on the store clock's current date in
// the store's location. Time of day is ignored.
func (s *Store) TodaysOrders() []models.Order {
	today := dateOf(s.now(), s.loc)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Order{}
	for _, o := range s.data.Orders {
		if dateOf(o.CreatedAt, s.loc) == today {
			out = append(out, o)
		}
	}
	return out
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func dateOf(t time.Time, loc *time.Location) civilDate {
	y, m, d := t.In(loc).Date()
	return civilDate{y, m, d}
}

// SearchOrderItems returns the lines of an order whose resolved product name
// contains query. It reports false when the order does not exist.
func (s *Store) SearchOrderItems(orderID, query string) ([]OrderLine, bool) {
	o, ok := s.Order(orderID)
	if !ok {
		return nil, false
	}
	out := []OrderLine{}
	for _, it := range o.Items {
		p := s.ProductDetails(it.ProductID)
		if containsFold(p.Name, query) {
			out = append(out, OrderLine{OrderItem: it, Product: p})
		}
	}
	return out, true
}

// OrderSummary joins the resolved product names of an order's lines.
func (s *Store) OrderSummary(o models.Order) string {
	names := make([]string, len(o.Items))
	for i, it := range o.Items {
		names[i] = s.ProductDetails(it.ProductID).Name
	}
	return strings.Join(names, ", ")
}

// RepDetail resolves a rep's clients and products. Dangling client ids are
// skipped; dangling product ids resolve to models.UnknownProduct.
func (s *Store) RepDetail(id string) (RepDetail, bool) {
	rep, ok := s.Rep(id)
	if !ok {
		return RepDetail{}, false
	}
	d := RepDetail{SalesRep: rep, ClientList: []models.Client{}, ProductList: []models.Product{}}
	for _, cid := range rep.Clients.IDs() {
		if c, ok := s.Client(cid); ok {
			d.ClientList = append(d.ClientList, c)
		}
	}
	for _, pid := range rep.Products.IDs() {
		d.ProductList = append(d.ProductList, s.ProductDetails(pid))
	}
	return d, true
}
