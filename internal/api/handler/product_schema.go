package handler

import "time"

// --- Request types ---

type createProductRequest struct {
	SKU         string  `json:"sku"         validate:"required,max=50"`
	Name        string  `json:"name"        validate:"required,max=100"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Category    string  `json:"category"    validate:"required,max=50"`
	Brand       string  `json:"brand"       validate:"omitempty,max=100"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
}

type updateProductRequest struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Category    string  `json:"category"    validate:"required,max=50"`
	Brand       string  `json:"brand"       validate:"omitempty,max=100"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	Status      string  `json:"status"      validate:"omitempty,oneof=active discontinued"`
}

// --- Response types ---
// Intentionally separate from domain types so the JSON contract is not
// coupled to internal model changes.

type productResponse struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listProductsResponse struct {
	Data       []productResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
