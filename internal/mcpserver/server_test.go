package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/salesdesk/internal/crm"
	"github.com/starford/salesdesk/internal/models"
	"github.com/starford/salesdesk/internal/testutil"
)

func testServer(t *testing.T) (*Server, *crm.Store) {
	t.Helper()
	store, _ := testutil.Store(t)
	return New(store, "test"), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no in-process call helper, so handlers are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_clients":
		result, err = srv.searchClients(ctx, req)
	case "search_products":
		result, err = srv.searchProducts(ctx, req)
	case "todays_orders":
		result, err = srv.todaysOrders(ctx, req)
	case "add_client":
		result, err = srv.addClient(ctx, req)
	case "confirm_order_item":
		result, err = srv.confirmOrderItem(ctx, req)
	case "import_csv":
		result, err = srv.importCSV(ctx, req)
	case "get_csv_format":
		result, err = srv.getCSVFormat(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSearchClients(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "search_clients", map[string]any{"query": "pizza"})
	var clients []models.Client
	if err := json.Unmarshal([]byte(resultText(r)), &clients); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(clients) != 1 || clients[0].ID != "client-3" {
		t.Errorf("clients = %+v", clients)
	}
}

func TestSearchProducts_Page(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "search_products", map[string]any{"page": float64(3)})
	var page crm.ProductPage
	if err := json.Unmarshal([]byte(resultText(r)), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Page != 3 || len(page.Items) != 10 || page.HasNext {
		t.Errorf("page = %d items = %d hasNext = %v", page.Page, len(page.Items), page.HasNext)
	}
}

func TestSearchProducts_HugePage(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "search_products", map[string]any{"page": float64(922337203685477582)})
	var page crm.ProductPage
	if err := json.Unmarshal([]byte(resultText(r)), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Items) != 0 || page.HasNext {
		t.Errorf("items = %d hasNext = %v", len(page.Items), page.HasNext)
	}
}

func TestTodaysOrders(t *testing.T) {
	srv, _ := testServer(t)
	text := resultText(callTool(t, srv, "todays_orders", nil))
	if !strings.Contains(text, `"id": "ord-1"`) || !strings.Contains(text, `"id": "ord-4"`) {
		t.Errorf("today = %s", text)
	}
	if strings.Contains(text, "ord-2") {
		t.Errorf("ord-2 is not from today: %s", text)
	}
}

func TestAddClient(t *testing.T) {
	srv, store := testServer(t)
	n := len(store.Clients())

	r := callTool(t, srv, "add_client", map[string]any{
		"name": "Blue Door Cafe", "address": "1 Elm St", "phone": "555-0100", "email": "hi@bluedoor.test",
	})
	if r.IsError {
		t.Fatalf("add_client error: %s", resultText(r))
	}
	if len(store.Clients()) != n+1 {
		t.Errorf("clients = %d, want %d", len(store.Clients()), n+1)
	}

	r = callTool(t, srv, "add_client", map[string]any{"name": "No Email", "address": "x", "phone": "y"})
	if !r.IsError || !strings.Contains(resultText(r), "email") {
		t.Errorf("missing email: error=%v text=%q", r.IsError, resultText(r))
	}
}

func TestConfirmOrderItem(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "confirm_order_item", map[string]any{
		"order_id": "ord-1", "product_id": "prod-2", "confirmed": false,
	})
	if r.IsError {
		t.Fatalf("confirm error: %s", resultText(r))
	}
	o, _ := store.Order("ord-1")
	if it, _ := o.Item("prod-2"); it.Confirmed {
		t.Error("prod-2 still confirmed")
	}

	r = callTool(t, srv, "confirm_order_item", map[string]any{
		"order_id": "ord-9", "product_id": "prod-2", "confirmed": true,
	})
	if !r.IsError {
		t.Error("expected error for unknown order")
	}
}

func TestImportCSV(t *testing.T) {
	srv, store := testServer(t)
	n := len(store.Products())

	r := callTool(t, srv, "import_csv", map[string]any{
		"kind": "products",
		"csv":  "name,description,unit\nCapers,Brined, PK \nSaffron,Threads,gram",
	})
	var res crm.ImportResult
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	if res.Merged != 1 || res.Dropped != 1 {
		t.Errorf("res = %+v", res)
	}
	if len(store.Products()) != n+1 {
		t.Errorf("products = %d, want %d", len(store.Products()), n+1)
	}

	r = callTool(t, srv, "import_csv", map[string]any{"kind": "orders", "csv": "h\nx"})
	if !r.IsError {
		t.Error("expected error for unknown kind")
	}
}

func TestCSVFormatContract(t *testing.T) {
	srv, _ := testServer(t)
	text := resultText(callTool(t, srv, "get_csv_format", nil))
	if text != CSVFormatContract {
		t.Error("tool and constant differ")
	}

	contents, err := srv.readCSVFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource: %v, %d contents", err, len(contents))
	}
	if tc, ok := contents[0].(mcp.TextResourceContents); !ok || tc.URI != csvFormatURI {
		t.Errorf("resource = %+v", contents[0])
	}
}
