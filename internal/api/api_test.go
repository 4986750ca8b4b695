package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/salesdesk/internal/crm"
	"github.com/starford/salesdesk/internal/models"
	"github.com/starford/salesdesk/internal/storage"
	"github.com/starford/salesdesk/internal/testutil"
)

func testEnv(t *testing.T) (*crm.Store, *storage.Memory, http.Handler) {
	t.Helper()
	store, mem := testutil.Store(t)

	// Minimal SSE stub: writes headers and blocks until the request ends.
	events := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})
	return store, mem, NewRouter(NewHandler(store, 0), events)
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body %s)", v, err, w.Body.String())
	}
	return v
}

func TestListReps(t *testing.T) {
	_, _, router := testEnv(t)
	w := do(t, router, http.MethodGet, "/reps", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	reps := decode[[]models.SalesRep](t, w)
	if len(reps) != 2 {
		t.Errorf("len(reps) = %d, want 2", len(reps))
	}
}

func TestGetRep(t *testing.T) {
	_, _, router := testEnv(t)
	w := do(t, router, http.MethodGet, "/reps/rep-2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	d := decode[crm.RepDetail](t, w)
	if len(d.ClientList) != 2 || len(d.ProductList) != 3 {
		t.Errorf("clients = %d, products = %d", len(d.ClientList), len(d.ProductList))
	}

	if w := do(t, router, http.MethodGet, "/reps/rep-9", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown rep = %d, want 404", w.Code)
	}
}

func TestCreateClient(t *testing.T) {
	store, mem, router := testEnv(t)
	before := mem.Puts()

	w := do(t, router, http.MethodPost, "/clients", map[string]string{
		"name": "Blue Door Cafe", "address": "1 Elm St", "phone": "555-0100", "email": "hi@bluedoor.test",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	c := decode[models.Client](t, w)
	if !strings.HasPrefix(c.ID, "client-") {
		t.Errorf("id = %q", c.ID)
	}
	if _, ok := store.Client(c.ID); !ok {
		t.Error("client not in store")
	}
	if mem.Puts() != before+1 {
		t.Errorf("snapshot writes = %d, want %d", mem.Puts(), before+1)
	}
}

func TestCreateClient_MissingFieldNamed(t *testing.T) {
	store, _, router := testEnv(t)
	n := len(store.Clients())

	w := do(t, router, http.MethodPost, "/clients", map[string]string{"name": "X", "address": "Y", "phone": "Z"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := decode[errResponse](t, w)
	if resp.Field != "email" {
		t.Errorf("field = %q, want email", resp.Field)
	}
	if len(store.Clients()) != n {
		t.Error("invalid client was stored")
	}
}

func TestCreateClient_InvalidJSON(t *testing.T) {
	_, _, router := testEnv(t)
	if w := do(t, router, http.MethodPost, "/clients", "{nope"); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListClients_Query(t *testing.T) {
	_, _, router := testEnv(t)
	w := do(t, router, http.MethodGet, "/clients?q=PIZZA", nil)
	resp := decode[ClientListResponse](t, w)
	if resp.Total != 1 || resp.Clients[0].ID != "client-3" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestListProducts_Pagination(t *testing.T) {
	_, _, router := testEnv(t)

	page := decode[crm.ProductPage](t, do(t, router, http.MethodGet, "/products", nil))
	if page.Page != 1 || page.PerPage != crm.DefaultProductsPerPage || page.Total != 30 {
		t.Errorf("default page = %+v", page)
	}

	page = decode[crm.ProductPage](t, do(t, router, http.MethodGet, "/products?page=4&per_page=8", nil))
	if len(page.Items) != 6 || page.HasNext || !page.HasPrev {
		t.Errorf("last page: items=%d hasNext=%v hasPrev=%v", len(page.Items), page.HasNext, page.HasPrev)
	}

	w := do(t, router, http.MethodGet, "/products?page=922337203685477582&per_page=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("huge page status = %d", w.Code)
	}
	if page = decode[crm.ProductPage](t, w); len(page.Items) != 0 || page.HasNext {
		t.Errorf("huge page = %+v", page)
	}
}

func TestCreateProduct_UnknownUnit(t *testing.T) {
	_, _, router := testEnv(t)
	w := do(t, router, http.MethodPost, "/products", map[string]string{"name": "Crate", "description": "Wood", "unit": "crate"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp := decode[errResponse](t, w); resp.Field != "unit" {
		t.Errorf("field = %q, want unit", resp.Field)
	}
}

func TestAttachProduct(t *testing.T) {
	store, _, router := testEnv(t)

	w := do(t, router, http.MethodPost, "/reps/rep-1/products", map[string]any{"existingId": "prod-20"})
	if w.Code != http.StatusOK {
		t.Fatalf("attach existing = %d, body = %s", w.Code, w.Body.String())
	}
	rep, _ := store.Rep("rep-1")
	if !rep.Products.Contains("prod-20") {
		t.Error("prod-20 not attached")
	}

	w = do(t, router, http.MethodPost, "/reps/rep-1/products", map[string]any{
		"fields": map[string]string{"name": "Capers", "description": "Brined", "unit": "Case"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("attach new = %d, body = %s", w.Code, w.Body.String())
	}
	p := decode[models.Product](t, w)
	if p.Unit != models.UnitCase {
		t.Errorf("unit = %q, want case", p.Unit)
	}

	if w := do(t, router, http.MethodPost, "/reps/rep-7/products", map[string]any{"existingId": "prod-1"}); w.Code != http.StatusNotFound {
		t.Errorf("unknown rep = %d, want 404", w.Code)
	}
}

func TestAttachClient(t *testing.T) {
	_, _, router := testEnv(t)
	w := do(t, router, http.MethodPost, "/reps/rep-1/clients", AttachClientRequest{ClientID: "client-5"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	d := decode[crm.RepDetail](t, w)
	if !d.Clients.Contains("client-5") {
		t.Errorf("clients = %v", d.Clients.IDs())
	}

	if w := do(t, router, http.MethodPost, "/reps/rep-1/clients", AttachClientRequest{ClientID: "client-404"}); w.Code != http.StatusNotFound {
		t.Errorf("unknown client = %d, want 404", w.Code)
	}
}

func TestOrders(t *testing.T) {
	_, _, router := testEnv(t)

	all := decode[OrderListResponse](t, do(t, router, http.MethodGet, "/orders", nil))
	if len(all.Orders) != 4 {
		t.Fatalf("orders = %d, want 4", len(all.Orders))
	}
	if all.Orders[0].ClientName == "" || all.Orders[0].Summary == "" {
		t.Errorf("order view not resolved: %+v", all.Orders[0])
	}

	today := decode[OrderListResponse](t, do(t, router, http.MethodGet, "/orders/today", nil))
	if len(today.Orders) != 2 {
		t.Errorf("today = %d, want 2", len(today.Orders))
	}

	detail := decode[OrderDetail](t, do(t, router, http.MethodGet, "/orders/ord-1", nil))
	if len(detail.Lines) != 12 {
		t.Errorf("lines = %d, want 12", len(detail.Lines))
	}

	if w := do(t, router, http.MethodGet, "/orders/ord-99", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown order = %d, want 404", w.Code)
	}
}

func TestOrderItems_Search(t *testing.T) {
	_, _, router := testEnv(t)
	resp := decode[OrderLinesResponse](t, do(t, router, http.MethodGet, "/orders/ord-1/items?q=sa", nil))
	if len(resp.Lines) != 1 || resp.Lines[0].ProductID != "prod-26" {
		t.Errorf("lines = %+v", resp.Lines)
	}
	if w := do(t, router, http.MethodGet, "/orders/none/items", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown order = %d, want 404", w.Code)
	}
}

func TestConfirmItem(t *testing.T) {
	store, mem, router := testEnv(t)

	w := do(t, router, http.MethodPut, "/orders/ord-1/items/prod-1/confirmed", ConfirmRequest{Confirmed: true})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	line := decode[crm.OrderLine](t, w)
	if !line.Confirmed || line.Product.ID != "prod-1" {
		t.Errorf("line = %+v", line)
	}
	o, _ := store.Order("ord-1")
	if it, _ := o.Item("prod-1"); !it.Confirmed {
		t.Error("store not updated")
	}

	puts := mem.Puts()
	if w := do(t, router, http.MethodPut, "/orders/ord-1/items/prod-30/confirmed", ConfirmRequest{Confirmed: true}); w.Code != http.StatusNotFound {
		t.Errorf("missing line = %d, want 404", w.Code)
	}
	if mem.Puts() != puts {
		t.Error("no-op confirm wrote a snapshot")
	}
}

func TestPendingOrders(t *testing.T) {
	_, _, router := testEnv(t)
	notes := decode[[]models.PendingOrderNote](t, do(t, router, http.MethodGet, "/pending-orders", nil))
	if len(notes) != 2 {
		t.Errorf("notes = %d, want 2", len(notes))
	}
}

func TestImportClients_RawBody(t *testing.T) {
	store, _, router := testEnv(t)
	n := len(store.Clients())

	// The trailing newline adds an empty row; it is dropped like the
	// nameless one.
	csv := "name,address,phone,email\nA,B,C,D\n,x,y,z\n"
	w := do(t, router, http.MethodPost, "/clients/import", csv)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decode[ImportResponse](t, w)
	if resp.Merged != 1 || resp.Dropped != 2 {
		t.Errorf("resp = %+v, want merged 1 dropped 2", resp)
	}
	if len(store.Clients()) != n+1 {
		t.Errorf("clients = %d, want %d", len(store.Clients()), n+1)
	}
}

func TestImportProducts_Multipart(t *testing.T) {
	store, _, router := testEnv(t)
	n := len(store.Products())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "products.csv")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = io.WriteString(part, "name,description,unit\nCapers,Brined,case\nSaffron,Threads,gram\n")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/products/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decode[ImportResponse](t, w)
	// The trailing newline yields an empty row, dropped with the bad unit.
	if resp.Kind != "products" || resp.Merged != 1 || resp.Dropped != 2 {
		t.Errorf("resp = %+v", resp)
	}
	if len(store.Products()) != n+1 {
		t.Errorf("products = %d, want %d", len(store.Products()), n+1)
	}
}

func TestImport_MissingFileField(t *testing.T) {
	_, _, router := testEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("wrong", "data")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/clients/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing field = %d, want 400", w.Code)
	}
}

func TestSnapshot_ETag(t *testing.T) {
	store, mem, router := testEnv(t)

	w := do(t, router, http.MethodGet, "/snapshot", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	stored, err := mem.Get(context.Background(), crm.DefaultSnapshotKey)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(w.Body.Bytes(), stored) {
		t.Error("snapshot body differs from persisted blob")
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Errorf("matching If-None-Match = %d, want 304", w.Code)
	}

	store.SetOrderItemConfirmed(context.Background(), "ord-4", "prod-15", true)
	w = do(t, router, http.MethodGet, "/snapshot", nil)
	if w.Header().Get("ETag") == etag {
		t.Error("ETag unchanged after mutation")
	}
}

func TestEventsRouteMounted(t *testing.T) {
	_, _, router := testEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/reps", nil))
	if !strings.Contains(buf.String(), `"status":418`) || !strings.Contains(buf.String(), `"path":"/reps"`) {
		t.Errorf("log line = %s", buf.String())
	}
}
