package product

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

type Service struct {
	repo       repo
	categories categoryRepo
}

type repo interface {
	List(ctx context.Context, categoryID string) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, in productrepo.SearchInput) ([]domain.Product, int, error)
}

type categoryRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
}

func New(r productrepo.Repository, categories categoryRepo) *Service {
	return &Service{repo: r, categories: categories}
}

type Input struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"priceCents"`
	Stock       int      `json:"stock"`
	ImageURLs   []string `json:"imagesUrl"`
	CategoryID  string   `json:"category"`
	MaxPerOrder *int     `json:"maxPerOrder"`
}

func (s *Service) List(ctx context.Context, categoryID string) ([]domain.Product, error) {
	if categoryID != "" && uuid.Validate(categoryID) != nil {
		return nil, domain.Invalidf("invalid category id")
	}
	return s.repo.List(ctx, categoryID)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.Invalidf("invalid product id")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Product, error) {
	p, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, *p)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Product, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.Invalidf("invalid product id")
	}
	p, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return s.repo.Update(ctx, *p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return domain.Invalidf("invalid product id")
	}
	return s.repo.Delete(ctx, id)
}

// SearchInput mirrors the search endpoint's query parameters.
type SearchInput struct {
	Query      string
	CategoryID string
	Sort       string
	Order      string
	Page       int
	Limit      int
}

type SearchResult struct {
	Products     []domain.Product
	CurrentPage  int
	TotalPages   int
	TotalResults int
}

func (s *Service) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 {
		in.Limit = 10
	}
	if in.CategoryID != "" && uuid.Validate(in.CategoryID) != nil {
		return nil, domain.Invalidf("invalid category id")
	}

	products, total, err := s.repo.Search(ctx, productrepo.SearchInput{
		Query:      in.Query,
		CategoryID: in.CategoryID,
		Sort:       in.Sort,
		Descending: in.Order == "desc",
		Offset:     (in.Page - 1) * in.Limit,
		Limit:      in.Limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := (total + in.Limit - 1) / in.Limit
	return &SearchResult{
		Products:     products,
		CurrentPage:  in.Page,
		TotalPages:   totalPages,
		TotalResults: total,
	}, nil
}

func (s *Service) validate(ctx context.Context, in Input) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalidf("name is required")
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, domain.Invalidf("description is required")
	}
	if in.PriceCents <= 0 {
		return nil, domain.Invalidf("price must be positive")
	}
	if in.Stock < 0 {
		return nil, domain.Invalidf("stock must be >= 0")
	}
	if in.MaxPerOrder != nil && *in.MaxPerOrder < 1 {
		return nil, domain.Invalidf("maxPerOrder must be >= 1")
	}
	if uuid.Validate(in.CategoryID) != nil {
		return nil, domain.Invalidf("invalid category id")
	}
	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Invalidf("category not found")
		}
		return nil, err
	}

	return &domain.Product{
		Name:        name,
		Description: description,
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
		ImageURLs:   in.ImageURLs,
		CategoryID:  in.CategoryID,
		MaxPerOrder: in.MaxPerOrder,
	}, nil
}
