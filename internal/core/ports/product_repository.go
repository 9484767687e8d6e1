package ports

import (
	"context"

	"github.com/strumline/catalog-api/internal/core/domain"
)

// ListProductsFilter carries all query parameters for listing products.
// Zero values mean "no constraint"; a MaxPrice of 0 is ignored rather than
// matching only free items.
type ListProductsFilter struct {
	Query    string  // optional: partial match on name or brand
	Category string  // optional: exact category
	MinPrice float64 // optional: price >= MinPrice
	MaxPrice float64 // optional: price <= MaxPrice
	Page     int     // 1-based
	Limit    int     // max rows per page (capped at 100 by service)
}

// ProductRepository defines persistence operations for catalog entries.
type ProductRepository interface {
	// Create persists a new product. An SKU collision returns
	// domain.ErrDuplicateIdentity wrapped with context.
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	// List returns a page of products matching filter and the total count.
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
}
