package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

// Service owns cart reconciliation: one cart per identity, quantity
// clamping on add, and the guest-to-user merge performed on login.
type Service struct {
	repo        cartRepo
	productRepo productRepo
}

type cartRepo interface {
	List(ctx context.Context) ([]domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetByOwner(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error)
	Create(ctx context.Context, owner domain.CartOwner, items []cartrepo.ItemInput) (*domain.Cart, error)
	Replace(ctx context.Context, id string, owner domain.CartOwner, items []cartrepo.ItemInput) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
	AddItem(ctx context.Context, owner domain.CartOwner, product domain.Product, quantity int) (*domain.Cart, error)
	AssignOwner(ctx context.Context, cartID string, owner domain.CartOwner) (*domain.Cart, error)
	MergeInto(ctx context.Context, dstCartID, srcCartID string, additions []cartrepo.ItemInput) (*domain.Cart, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo) *Service {
	return &Service{repo: repo, productRepo: products}
}

// ItemInput is one requested (product, quantity) line.
type ItemInput struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

func (s *Service) List(ctx context.Context) ([]domain.Cart, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Cart, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.Invalidf("invalid cart id")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	if uuid.Validate(userID) != nil {
		return nil, domain.Invalidf("invalid userId")
	}
	return s.repo.GetByOwner(ctx, domain.UserOwner(userID))
}

func (s *Service) GetByAnonymous(ctx context.Context, anonymousID string) (*domain.Cart, error) {
	if anonymousID == "" {
		return nil, domain.Invalidf("anonymousId required")
	}
	return s.repo.GetByOwner(ctx, domain.GuestOwner(anonymousID))
}

func (s *Service) Create(ctx context.Context, owner domain.CartOwner, items []ItemInput) (*domain.Cart, error) {
	if err := s.validateOwner(owner); err != nil {
		return nil, err
	}
	inputs, err := s.validateItems(ctx, items)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, owner, inputs)
}

func (s *Service) Update(ctx context.Context, id string, owner domain.CartOwner, items []ItemInput) (*domain.Cart, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.Invalidf("invalid cart id")
	}
	if err := s.validateOwner(owner); err != nil {
		return nil, err
	}
	inputs, err := s.validateItems(ctx, items)
	if err != nil {
		return nil, err
	}
	return s.repo.Replace(ctx, id, owner, inputs)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return domain.Invalidf("invalid cart id")
	}
	return s.repo.Delete(ctx, id)
}

// AddProduct folds quantity units of a product into the owner's cart,
// creating the cart lazily. The resulting line quantity never exceeds the
// product's per-order limit.
func (s *Service) AddProduct(ctx context.Context, owner domain.CartOwner, productID string, quantity int) (*domain.Cart, error) {
	if err := s.validateOwner(owner); err != nil {
		return nil, err
	}
	if uuid.Validate(productID) != nil {
		return nil, domain.Invalidf("invalid productId")
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, domain.Invalidf("quantity must be >= 1")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.repo.AddItem(ctx, owner, *product, quantity)
}

// Merge folds the guest cart identified by anonymousID into the user's
// cart. When quantities conflict the user's cart is authoritative; guest-only
// lines are appended clamped to the product's per-order limit. The guest
// cart is consumed: it is deleted in the same transaction that updates the
// user cart, so a second merge with the same anonymousID reports NotFound.
func (s *Service) Merge(ctx context.Context, userID, anonymousID string) (*domain.Cart, error) {
	if userID == "" || anonymousID == "" {
		return nil, domain.Invalidf("user (from token) and anonymousId are required")
	}
	if uuid.Validate(userID) != nil {
		return nil, domain.Invalidf("invalid userId")
	}

	guest, err := s.repo.GetByOwner(ctx, domain.GuestOwner(anonymousID))
	if err != nil {
		return nil, err
	}

	userCart, err := s.repo.GetByOwner(ctx, domain.UserOwner(userID))
	if errors.Is(err, domain.ErrNotFound) {
		// Nothing to reconcile against: the guest cart becomes the user's.
		return s.repo.AssignOwner(ctx, guest.ID, domain.UserOwner(userID))
	}
	if err != nil {
		return nil, err
	}

	var additions []cartrepo.ItemInput
	for _, item := range guest.Items {
		if userCart.HasProduct(item.ProductID) {
			continue
		}
		qty := item.Quantity
		if item.Product != nil {
			qty = domain.ClampQuantity(qty, item.Product.MaxPerOrder)
		}
		additions = append(additions, cartrepo.ItemInput{ProductID: item.ProductID, Quantity: qty})
	}

	return s.repo.MergeInto(ctx, userCart.ID, guest.ID, additions)
}

func (s *Service) validateOwner(owner domain.CartOwner) error {
	if owner.IsZero() {
		return domain.Invalidf("provide user or anonymousId")
	}
	if userID, ok := owner.UserID(); ok && uuid.Validate(userID) != nil {
		return domain.Invalidf("invalid userId")
	}
	return nil
}

func (s *Service) validateItems(ctx context.Context, items []ItemInput) ([]cartrepo.ItemInput, error) {
	inputs := make([]cartrepo.ItemInput, 0, len(items))
	for _, item := range items {
		if uuid.Validate(item.ProductID) != nil {
			return nil, domain.Invalidf("each product must have a valid product id")
		}
		if item.Quantity < 1 {
			return nil, domain.Invalidf("each product must have quantity >= 1")
		}
		if _, err := s.productRepo.GetByID(ctx, item.ProductID); err != nil {
			return nil, err
		}
		inputs = append(inputs, cartrepo.ItemInput(item))
	}
	return inputs, nil
}
