package cart

import (
	"context"

	"github.com/ayebare/dukapos/internal/catalog"
)

// Storage persists the serialized cart between sessions.
type Storage interface {
	ReadValue(ctx context.Context, key string) (string, bool, error)
	WriteValue(ctx context.Context, key, value string) error
}

// ProductLoader resolves authoritative product data for reconciliation and
// checkout revalidation. *catalog.Cache satisfies it.
type ProductLoader interface {
	GetProduct(ctx context.Context, id int) (*catalog.Product, error)
}

// OrderSubmitter creates the remote order from a validated cart.
type OrderSubmitter interface {
	CreateOrder(ctx context.Context, input catalog.CreateOrderInput) (*catalog.Order, error)
}
