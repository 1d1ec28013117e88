package category

import (
	"context"

	"storefront/internal/domain"
)

// SearchInput narrows and pages a category search.
type SearchInput struct {
	Query      string
	ParentID   string
	Sort       string
	Descending bool
	Offset     int
	Limit      int
}

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, in SearchInput) ([]domain.Category, int, error)
}
