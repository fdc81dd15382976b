package docstore

import "context"

// Collection names used by the storefront.
const (
	Products = "products"
	Orders   = "orders"
	Users    = "users"
	Accounts = "accounts"
	Tokens   = "tokens"
)

// Record is one document: an opaque id plus free-form fields.
type Record struct {
	ID     string
	Fields map[string]interface{}
}

// Store is the document-store capability, parameterized by collection name.
// Absent records surface as domain.ErrNotFound.
type Store interface {
	ListAll(ctx context.Context, collection string) ([]Record, error)
	GetByID(ctx context.Context, collection, id string) (*Record, error)
	Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	Update(ctx context.Context, collection, id string, partial map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	QueryByField(ctx context.Context, collection, field string, value interface{}) ([]Record, error)
}
