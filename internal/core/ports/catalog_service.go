package ports

import (
	"context"

	"github.com/strumline/catalog-api/internal/core/domain"
)

// CreateProductInput carries raw product fields from the transport layer.
type CreateProductInput struct {
	SKU         string
	Name        string
	Description string
	Category    string
	Brand       string
	Price       float64
	Stock       int
}

// UpdateProductInput is a full-field update; the SKU is immutable after
// creation and therefore absent here.
type UpdateProductInput struct {
	Name        string
	Description string
	Category    string
	Brand       string
	Price       float64
	Stock       int
	Status      string
}

// ListProductsInput carries all parameters for the list endpoint.
type ListProductsInput struct {
	Query    string
	Category string
	MinPrice float64
	MaxPrice float64
	Page     int
	Limit    int
}

// ListProductsResult is returned by ListProducts.
type ListProductsResult struct {
	Items      []*domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CatalogService defines use-case operations for the product catalog. All
// free-text inputs pass through the injection guard before touching the
// repository.
type CatalogService interface {
	CreateProduct(ctx context.Context, in CreateProductInput, createdBy string) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, in ListProductsInput) (*ListProductsResult, error)
}
