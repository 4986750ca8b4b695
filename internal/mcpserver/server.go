// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the sales desk to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/salesdesk/internal/apperr"
	"github.com/starford/salesdesk/internal/crm"
)

const csvFormatURI = "salesdesk://csv-format"

// Server wraps the MCP server with sales desk tools.
type Server struct {
	mcp   *server.MCPServer
	store *crm.Store
}

// New creates a new MCP server with all tools registered.
func New(store *crm.Store, version string) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"Salesdesk",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	s.mcp.AddTool(mcp.NewTool("search_clients",
		mcp.WithDescription("Find clients whose name contains the query (case-insensitive). An empty query lists every client."),
		mcp.WithString("query", mcp.Description("Name fragment")),
	), s.searchClients)

	s.mcp.AddTool(mcp.NewTool("search_products",
		mcp.WithDescription("Search the product catalog by name or description, one page at a time."),
		mcp.WithString("query", mcp.Description("Name or description fragment")),
		mcp.WithNumber("page", mcp.Description("1-based page number (default 1)")),
	), s.searchProducts)

	s.mcp.AddTool(mcp.NewTool("todays_orders",
		mcp.WithDescription("List orders created today, with client names and item summaries."),
	), s.todaysOrders)

	s.mcp.AddTool(mcp.NewTool("add_client",
		mcp.WithDescription("Create a client. All fields are required."),
		mcp.WithString("name", mcp.Required()),
		mcp.WithString("address", mcp.Required()),
		mcp.WithString("phone", mcp.Required()),
		mcp.WithString("email", mcp.Required()),
	), s.addClient)

	s.mcp.AddTool(mcp.NewTool("confirm_order_item",
		mcp.WithDescription("Set or clear the confirmed flag on one line of an order."),
		mcp.WithString("order_id", mcp.Required(), mcp.Description("Order id, e.g. ord-1")),
		mcp.WithString("product_id", mcp.Required(), mcp.Description("Product id of the line")),
		mcp.WithBoolean("confirmed", mcp.Required()),
	), s.confirmOrderItem)

	s.mcp.AddTool(mcp.NewTool("import_csv",
		mcp.WithDescription("Merge CSV text into clients or products. Read the salesdesk://csv-format "+
			"resource or call get_csv_format first: the first line is always skipped and quoting is not supported."),
		mcp.WithString("kind", mcp.Required(), mcp.Enum("clients", "products")),
		mcp.WithString("csv", mcp.Required(), mcp.Description("CSV text including a header line")),
	), s.importCSV)

	s.mcp.AddTool(mcp.NewTool("get_csv_format",
		mcp.WithDescription("Returns the CSV import format accepted by import_csv."),
	), s.getCSVFormat)

	s.mcp.AddResource(
		mcp.NewResource(csvFormatURI, "CSV Import Format",
			mcp.WithResourceDescription("Column layout and parsing rules for client and product CSV imports."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCSVFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchClients(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.store.SearchClients(req.GetString("query", "")))
}

func (s *Server) searchProducts(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page := req.GetInt("page", 1)
	return jsonResult(s.store.SearchProducts(req.GetString("query", ""), page, crm.DefaultProductsPerPage))
}

type orderSummary struct {
	ID         string `json:"id"`
	ClientName string `json:"clientName"`
	Status     string `json:"status"`
	Items      string `json:"items"`
}

func (s *Server) todaysOrders(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orders := s.store.TodaysOrders()
	if len(orders) == 0 {
		return mcp.NewToolResultText("no orders today"), nil
	}
	out := make([]orderSummary, len(orders))
	for i, o := range orders {
		out[i] = orderSummary{
			ID:         o.ID,
			ClientName: s.store.ClientName(o.ClientID),
			Status:     string(o.Status),
			Items:      s.store.OrderSummary(o),
		}
	}
	return jsonResult(out)
}

func (s *Server) addClient(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := crm.ClientFields{
		Name:    req.GetString("name", ""),
		Address: req.GetString("address", ""),
		Phone:   req.GetString("phone", ""),
		Email:   req.GetString("email", ""),
	}
	c, err := s.store.AddClient(ctx, f)
	if err != nil {
		var verr *apperr.ValidationError
		if errors.As(err, &verr) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid client: %s", verr.Error())), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(c)
}

func (s *Server) confirmOrderItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orderID, err := req.RequireString("order_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	productID, err := req.RequireString("product_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	confirmed, err := req.RequireBool("confirmed")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !s.store.SetOrderItemConfirmed(ctx, orderID, productID, confirmed) {
		return mcp.NewToolResultError(fmt.Sprintf("order line not found: %s / %s", orderID, productID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s %s confirmed=%t", orderID, productID, confirmed)), nil
}

func (s *Server) importCSV(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("csv")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var res crm.ImportResult
	switch kind {
	case "clients":
		res, err = s.store.MergeClients(ctx, text)
	case "products":
		res, err = s.store.MergeProducts(ctx, text)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind %q (want clients or products)", kind)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) getCSVFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(CSVFormatContract), nil
}

func (s *Server) readCSVFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      csvFormatURI,
			MIMEType: "text/markdown",
			Text:     CSVFormatContract,
		},
	}, nil
}
