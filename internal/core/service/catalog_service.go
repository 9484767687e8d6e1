package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/strumline/catalog-api/internal/core/domain"
	"github.com/strumline/catalog-api/internal/core/ports"
	"github.com/strumline/catalog-api/internal/guard"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// CatalogService implements ports.CatalogService. Every free-text field is
// guard-checked and sanitized before it reaches the repository, on top of the
// parameterized queries the repository already uses.
type CatalogService struct {
	repo ports.ProductRepository
	log  zerolog.Logger
}

func NewCatalogService(repo ports.ProductRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ports.CreateProductInput, createdBy string) (*domain.Product, error) {
	clean, err := validateProductFields(in.SKU, in.Name, in.Description, in.Category, in.Brand, in.Price, in.Stock)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Product{
		SKU:         clean.sku,
		Name:        clean.name,
		Description: clean.description,
		Category:    clean.category,
		Brand:       clean.brand,
		Price:       in.Price,
		Stock:       in.Stock,
		Status:      domain.ProductActive,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, infraErr("create product", err)
	}

	s.log.Info().Str("product_id", created.ID).Str("sku", created.SKU).Str("created_by", createdBy).Msg("product created")
	return created, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	clean, ok := guard.ValidateAndSanitize(id, guard.Identifier)
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	p, err := s.repo.FindByID(ctx, clean)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, infraErr("find product", err)
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ports.UpdateProductInput) (*domain.Product, error) {
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	clean, err := validateProductFields(existing.SKU, in.Name, in.Description, in.Category, in.Brand, in.Price, in.Stock)
	if err != nil {
		return nil, err
	}

	status := existing.Status
	if in.Status != "" {
		switch domain.ProductStatus(in.Status) {
		case domain.ProductActive, domain.ProductDiscontinued:
			status = domain.ProductStatus(in.Status)
		default:
			return nil, domain.NewValidationError("status", "must be one of: active, discontinued")
		}
	}

	existing.Name = clean.name
	existing.Description = clean.description
	existing.Category = clean.category
	existing.Brand = clean.brand
	existing.Price = in.Price
	existing.Stock = in.Stock
	existing.Status = status
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, infraErr("update product", err)
	}

	s.log.Info().Str("product_id", existing.ID).Msg("product updated")
	return existing, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	clean, ok := guard.ValidateAndSanitize(id, guard.Identifier)
	if !ok {
		return domain.ErrProductNotFound
	}

	if err := s.repo.Delete(ctx, clean); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return domain.ErrProductNotFound
		}
		return infraErr("delete product", err)
	}

	s.log.Info().Str("product_id", clean).Msg("product deleted")
	return nil
}

// ListProducts guard-checks the search text before it can reach the
// repository's regex match, validates the price window, and clamps
// pagination.
func (s *CatalogService) ListProducts(ctx context.Context, in ports.ListProductsInput) (*ports.ListProductsResult, error) {
	filter := ports.ListProductsFilter{
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Page:     in.Page,
		Limit:    in.Limit,
	}

	if in.Query != "" {
		q, ok := guard.ValidateAndSanitize(in.Query, guard.MediumText)
		if !ok {
			return nil, domain.NewValidationError("q", "search text rejected")
		}
		filter.Query = q
	}
	if in.Category != "" {
		cat, ok := guard.ValidateAndSanitize(in.Category, guard.Identifier)
		if !ok {
			return nil, domain.NewValidationError("category", "category rejected")
		}
		filter.Category = cat
	}
	// MaxPrice 0 means "no upper bound", not "free items only".
	if in.MaxPrice > 0 && !guard.ValidPriceRange(in.MinPrice, in.MaxPrice) {
		return nil, domain.NewValidationError("price", "invalid price range")
	}
	if in.MinPrice < 0 {
		return nil, domain.NewValidationError("min_price", "must not be negative")
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, infraErr("list products", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListProductsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

type cleanProductFields struct {
	sku         string
	name        string
	description string
	category    string
	brand       string
}

func validateProductFields(sku, name, description, category, brand string, price float64, stock int) (*cleanProductFields, error) {
	var (
		clean cleanProductFields
		ve    *domain.ValidationError
		ok    bool
	)
	fail := func(field, reason string) {
		if ve == nil {
			ve = domain.NewValidationError(field, reason)
			return
		}
		ve.Add(field, reason)
	}

	if clean.sku, ok = guard.ValidateAndSanitize(sku, guard.Identifier); !ok {
		fail("sku", "must be 1-50 letters, digits, underscore or hyphen")
	}
	if clean.name, ok = guard.ValidateAndSanitize(name, guard.ShortText); !ok {
		fail("name", "must be 1-100 printable characters")
	}
	if description != "" {
		if clean.description, ok = guard.ValidateAndSanitize(description, guard.LongText); !ok {
			fail("description", "must be 1-2000 printable characters")
		}
	}
	if clean.category, ok = guard.ValidateAndSanitize(category, guard.Identifier); !ok {
		fail("category", "must be 1-50 letters, digits, underscore or hyphen")
	}
	if brand != "" {
		if clean.brand, ok = guard.ValidateAndSanitize(brand, guard.ShortText); !ok {
			fail("brand", "must be 1-100 printable characters")
		}
	}
	if !guard.ValidPrice(price) {
		fail("price", "must be positive and within range")
	}
	if stock < 0 {
		fail("stock", "must not be negative")
	}

	if ve != nil {
		return nil, ve
	}
	return &clean, nil
}
