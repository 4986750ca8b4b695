package crm

// ChangeKind names a committed mutation.
type ChangeKind string

// Change kinds.
const (
	ChangeClientCreated    ChangeKind = "client.created"
	ChangeProductCreated   ChangeKind = "product.created"
	ChangeRepUpdated       ChangeKind = "rep.updated"
	ChangeOrderUpdated     ChangeKind = "order.updated"
	ChangeClientsImported  ChangeKind = "clients.imported"
	ChangeProductsImported ChangeKind = "products.imported"
)

// Change describes one committed mutation.
type Change struct {
	Kind ChangeKind `json:"kind"`
	// ID is the primary entity touched (empty for imports).
	ID string `json:"id,omitempty"`
	// Related is a secondary entity, e.g. the product attached to a rep.
	Related string `json:"related,omitempty"`
	// Merged and Dropped count import rows.
	Merged  int `json:"merged,omitempty"`
	Dropped int `json:"dropped,omitempty"`
}
