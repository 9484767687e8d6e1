package handler

import (
	"github.com/strumline/catalog-api/internal/core/domain"
	"github.com/strumline/catalog-api/internal/core/ports"
)

// toProductResponse maps a domain product to the transport shape.
func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		Price:       p.Price,
		Stock:       p.Stock,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toListResponse(res *ports.ListProductsResult) listProductsResponse {
	items := make([]productResponse, 0, len(res.Items))
	for _, p := range res.Items {
		items = append(items, toProductResponse(p))
	}
	return listProductsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      res.Total,
			Page:       res.Page,
			Limit:      res.Limit,
			TotalPages: res.TotalPages,
		},
	}
}
