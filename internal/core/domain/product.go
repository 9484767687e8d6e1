package domain

import "time"

// ProductStatus represents the catalog visibility of a product.
type ProductStatus string

const (
	ProductActive       ProductStatus = "active"
	ProductDiscontinued ProductStatus = "discontinued"
)

// Product is a catalog entry: an instrument, accessory, or bundle offered by
// the store.
type Product struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	SKU         string        `json:"sku" bson:"sku"`
	Name        string        `json:"name" bson:"name"`
	Description string        `json:"description,omitempty" bson:"description,omitempty"`
	Category    string        `json:"category" bson:"category"`
	Brand       string        `json:"brand,omitempty" bson:"brand,omitempty"`
	Price       float64       `json:"price" bson:"price"`
	Stock       int           `json:"stock" bson:"stock"`
	Status      ProductStatus `json:"status" bson:"status"`
	CreatedBy   string        `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}
