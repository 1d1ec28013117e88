package category

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain"
	categoryrepo "storefront/internal/repository/category"
)

type Service struct {
	repo repo
}

type repo interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, in categoryrepo.SearchInput) ([]domain.Category, int, error)
}

func New(r categoryrepo.Repository) *Service {
	return &Service{repo: r}
}

type Input struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageURL"`
	ParentID    *string `json:"parentCategory"`
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Category, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.Invalidf("invalid category id")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalidf("name is required")
	}
	if err := s.checkDuplicateName(ctx, name, ""); err != nil {
		return nil, err
	}
	parentID, err := s.resolveParent(ctx, in.ParentID, "")
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.Category{
		Name:        name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		ParentID:    parentID,
	})
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Category, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.Invalidf("invalid category id")
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = existing.Name
	} else if err := s.checkDuplicateName(ctx, name, id); err != nil {
		return nil, err
	}

	parentID := existing.ParentID
	if in.ParentID != nil {
		parentID, err = s.resolveParent(ctx, in.ParentID, id)
		if err != nil {
			return nil, err
		}
	}

	description := existing.Description
	if in.Description != "" {
		description = in.Description
	}
	imageURL := existing.ImageURL
	if in.ImageURL != "" {
		imageURL = in.ImageURL
	}

	return s.repo.Update(ctx, domain.Category{
		ID:          id,
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		ParentID:    parentID,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return domain.Invalidf("invalid category id")
	}
	return s.repo.Delete(ctx, id)
}

// SearchInput mirrors the search endpoint's query parameters.
type SearchInput struct {
	Query    string
	ParentID string
	Sort     string
	Order    string
	Page     int
	Limit    int
}

// SearchResult carries one page of matches plus the pagination envelope.
type SearchResult struct {
	Categories   []domain.Category
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
	if in.ParentID != "" && uuid.Validate(in.ParentID) != nil {
		return nil, domain.Invalidf("invalid parentCategory")
	}

	categories, total, err := s.repo.Search(ctx, categoryrepo.SearchInput{
		Query:      in.Query,
		ParentID:   in.ParentID,
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
		Categories:   categories,
		CurrentPage:  in.Page,
		TotalPages:   totalPages,
		TotalResults: total,
	}, nil
}

func (s *Service) checkDuplicateName(ctx context.Context, name, excludeID string) error {
	dup, err := s.repo.GetByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if dup.ID != excludeID {
		return domain.Invalidf("category name already exists")
	}
	return nil
}

func (s *Service) resolveParent(ctx context.Context, parentID *string, selfID string) (*string, error) {
	if parentID == nil || *parentID == "" {
		return nil, nil
	}
	if uuid.Validate(*parentID) != nil {
		return nil, domain.Invalidf("invalid parentCategory")
	}
	if selfID != "" && *parentID == selfID {
		return nil, domain.Invalidf("parentCategory cannot be the same as the category")
	}
	parent, err := s.repo.GetByID(ctx, *parentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Invalidf("parentCategory not found")
	}
	if err != nil {
		return nil, err
	}
	return &parent.ID, nil
}
