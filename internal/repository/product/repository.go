package product

import (
	"context"

	"storefront/internal/domain"
)

// SearchInput narrows and pages a product search.
type SearchInput struct {
	Query      string
	CategoryID string
	Sort       string
	Descending bool
	Offset     int
	Limit      int
}

type Repository interface {
	List(ctx context.Context, categoryID string) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, in SearchInput) ([]domain.Product, int, error)
}
