package product

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

const (
	prodID = "7d2c1b0a-9e8f-4a5b-8c7d-665544332211"
	catID  = "7d2c1b0a-9e8f-4a5b-8c7d-665544332212"
)

type stubRepo struct {
	created    *domain.Product
	lastCreate domain.Product
	lastUpdate domain.Product
	getProduct *domain.Product
	getErr     error
	searchHits []domain.Product
	searchTot  int
	lastSearch productrepo.SearchInput
}

func (s *stubRepo) List(_ context.Context, _ string) ([]domain.Product, error) { return nil, nil }

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return s.getProduct, s.getErr
}

func (s *stubRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.lastCreate = p
	if s.created != nil {
		return s.created, nil
	}
	return &p, nil
}

func (s *stubRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.lastUpdate = p
	return &p, nil
}

func (s *stubRepo) Delete(_ context.Context, _ string) error { return nil }

func (s *stubRepo) Search(_ context.Context, in productrepo.SearchInput) ([]domain.Product, int, error) {
	s.lastSearch = in
	return s.searchHits, s.searchTot, nil
}

type stubCategoryRepo struct {
	category *domain.Category
	err      error
}

func (s *stubCategoryRepo) GetByID(_ context.Context, _ string) (*domain.Category, error) {
	return s.category, s.err
}

func intPtr(v int) *int { return &v }

func validInput() Input {
	return Input{
		Name:        "Demo Mug",
		Description: "Ceramic mug",
		PriceCents:  1299,
		Stock:       10,
		CategoryID:  catID,
	}
}

func TestCreateValidation(t *testing.T) {
	svc := &Service{repo: &stubRepo{}, categories: &stubCategoryRepo{category: &domain.Category{ID: catID}}}

	cases := []struct {
		name   string
		mutate func(*Input)
	}{
		{"empty name", func(in *Input) { in.Name = " " }},
		{"empty description", func(in *Input) { in.Description = "" }},
		{"zero price", func(in *Input) { in.PriceCents = 0 }},
		{"negative stock", func(in *Input) { in.Stock = -1 }},
		{"zero maxPerOrder", func(in *Input) { in.MaxPerOrder = intPtr(0) }},
		{"bad category id", func(in *Input) { in.CategoryID = "nope" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrInvalid) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateRejectsMissingCategory(t *testing.T) {
	svc := &Service{repo: &stubRepo{}, categories: &stubCategoryRepo{err: domain.ErrNotFound}}
	if _, err := svc.Create(context.Background(), validInput()); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected category error, got %v", err)
	}
}

func TestCreateHappyPath(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo, categories: &stubCategoryRepo{category: &domain.Category{ID: catID}}}
	in := validInput()
	in.MaxPerOrder = intPtr(2)
	got, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Demo Mug" || got.MaxPerOrder == nil || *got.MaxPerOrder != 2 {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestUpdateSetsID(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo, categories: &stubCategoryRepo{category: &domain.Category{ID: catID}}}
	got, err := svc.Update(context.Background(), prodID, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != prodID {
		t.Fatalf("expected id %s, got %s", prodID, got.ID)
	}
}

func TestSearchEnvelope(t *testing.T) {
	repo := &stubRepo{searchTot: 11}
	svc := &Service{repo: repo}
	res, err := svc.Search(context.Background(), SearchInput{Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalPages != 3 || res.CurrentPage != 1 {
		t.Fatalf("unexpected envelope: %+v", res)
	}
	if repo.lastSearch.Limit != 5 || repo.lastSearch.Offset != 0 {
		t.Fatalf("unexpected paging: %+v", repo.lastSearch)
	}
}
