package crm

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/starford/salesdesk/internal/models"
	"github.com/starford/salesdesk/internal/storage"
)

func TestSearchClients(t *testing.T) {
	s, _ := testStore(t)
	got := s.SearchClients("EAT")
	if len(got) != 1 || got[0].ID != "client-4" {
		t.Errorf("SearchClients(EAT) = %+v", got)
	}
	// Address is not searched.
	if got := s.SearchClients("Market"); len(got) != 0 {
		t.Errorf("address matched: %+v", got)
	}
	if got := s.SearchClients(""); len(got) != 5 {
		t.Errorf("empty query = %d clients, want 5", len(got))
	}
}

func TestSearchProducts_NameOrDescription(t *testing.T) {
	s, _ := testStore(t)
	page := s.SearchProducts("ITALIAN", 1, 10)
	ids := make([]string, len(page.Items))
	for i, p := range page.Items {
		ids[i] = p.ID
	}
	// Mozzarella and Spaghetti match on description, Italian Sausage on
	// name. Insertion order is kept.
	want := []string{"prod-2", "prod-3", "prod-10"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func pagingStore(t *testing.T, n int) *Store {
	t.Helper()
	d := models.Dataset{}
	for i := 1; i <= n; i++ {
		d.Products = append(d.Products, models.Product{
			ID: fmt.Sprintf("p-%d", i), Name: fmt.Sprintf("Widget %d", i), Description: "d", Unit: models.UnitCase,
		})
	}
	raw, err := models.EncodeDataset(d)
	if err != nil {
		t.Fatal(err)
	}
	mem := storage.NewMemory()
	_ = mem.Put(context.Background(), DefaultSnapshotKey, raw)
	s, err := Open(context.Background(), mem, WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSearchProducts_HugePage(t *testing.T) {
	s := pagingStore(t, 25)
	for _, page := range []int{math.MaxInt/10 + 1, math.MaxInt} {
		got := s.SearchProducts("widget", page, 10)
		if len(got.Items) != 0 || got.HasNext || got.Page != page {
			t.Errorf("page %d = %+v", page, got)
		}
	}
	if got := s.SearchProducts("widget", 2, math.MaxInt); len(got.Items) != 0 || got.TotalPages != 1 {
		t.Errorf("huge per page = %+v", got)
	}
}

func TestSearchProducts_Pagination(t *testing.T) {
	s := pagingStore(t, 25)

	p1 := s.SearchProducts("widget", 1, 10)
	if len(p1.Items) != 10 || p1.HasPrev || !p1.HasNext || p1.TotalPages != 3 {
		t.Errorf("page 1 = %+v", p1)
	}
	p3 := s.SearchProducts("widget", 3, 10)
	if len(p3.Items) != 5 {
		t.Errorf("page 3 items = %d, want 5", len(p3.Items))
	}
	if p3.HasNext {
		t.Error("page 3 should be the last page")
	}
	if p3.Items[0].ID != "p-21" {
		t.Errorf("page 3 starts at %s", p3.Items[0].ID)
	}
	if p4 := s.SearchProducts("widget", 4, 10); len(p4.Items) != 0 || p4.HasNext {
		t.Errorf("page 4 = %+v", p4)
	}
	if past := s.SearchProducts("widget", p1.TotalPages+1, 10); len(past.Items) != 0 || past.HasNext || !past.HasPrev {
		t.Errorf("page past the end = %+v", past)
	}
	if p0 := s.SearchProducts("widget", 0, 10); p0.Page != 1 || len(p0.Items) != 10 {
		t.Errorf("page 0 = %+v", p0)
	}
	if pd := s.SearchProducts("widget", 1, 0); pd.PerPage != DefaultProductsPerPage {
		t.Errorf("default per page = %d", pd.PerPage)
	}
}

func TestSearchProducts_Deterministic(t *testing.T) {
	s, _ := testStore(t)
	a := s.SearchProducts("fresh", 1, 10)
	b := s.SearchProducts("fresh", 1, 10)
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated view calls differ")
	}
}

func TestTodaysOrders(t *testing.T) {
	s, _ := testStore(t) // clock: 2025-09-01 15:30 UTC
	got := s.TodaysOrders()
	if len(got) != 2 || got[0].ID != "ord-1" || got[1].ID != "ord-4" {
		t.Errorf("today = %+v", got)
	}
}

func TestTodaysOrders_UsesLocalDate(t *testing.T) {
	// 2025-09-01 01:00 at UTC+5 is still 2025-08-31 in UTC, so the set of
	// "today" orders depends on the store's location.
	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2025, 9, 1, 1, 0, 0, 0, loc)

	s, _ := testStore(t, WithClock(func() time.Time { return now }), WithLocation(time.UTC))
	if got := s.TodaysOrders(); len(got) != 1 || got[0].ID != "ord-2" {
		t.Errorf("UTC today = %+v", got)
	}

	s, _ = testStore(t, WithClock(func() time.Time { return now }), WithLocation(loc))
	ids := []string{}
	for _, o := range s.TodaysOrders() {
		ids = append(ids, o.ID)
	}
	if !reflect.DeepEqual(ids, []string{"ord-1", "ord-4"}) {
		t.Errorf("UTC+5 today = %v", ids)
	}
}

func TestSearchOrderItems(t *testing.T) {
	s, _ := testStore(t)
	lines, ok := s.SearchOrderItems("ord-1", "sa")
	if !ok {
		t.Fatal("ord-1 should exist")
	}
	// Salted Butter only; "Sausage" is not in ord-1.
	if len(lines) != 1 || lines[0].ProductID != "prod-26" || lines[0].Product.Name != "Salted Butter" {
		t.Errorf("lines = %+v", lines)
	}
	if _, ok := s.SearchOrderItems("ord-404", ""); ok {
		t.Error("missing order should report false")
	}
}

func TestOrderSummaryResolvesUnknown(t *testing.T) {
	s, _ := testStore(t)
	o := models.Order{Items: []models.OrderItem{{ProductID: "prod-1"}, {ProductID: "gone"}}}
	if got := s.OrderSummary(o); got != "Tomatoes, Unknown" {
		t.Errorf("summary = %q", got)
	}
}

func TestRepDetail(t *testing.T) {
	s, _ := testStore(t)
	d, ok := s.RepDetail("rep-2")
	if !ok {
		t.Fatal("rep-2 missing")
	}
	if len(d.ClientList) != 2 || d.ClientList[0].Name != "Pizza Palace" {
		t.Errorf("clients = %+v", d.ClientList)
	}
	if len(d.ProductList) != 3 || d.ProductList[2].Name != "Portobello Mushrooms" {
		t.Errorf("products = %+v", d.ProductList)
	}
}
