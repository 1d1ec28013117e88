package cart

import (
	"context"

	"storefront/internal/domain"
)

// ItemInput is one (product, quantity) pair supplied by a caller.
type ItemInput struct {
	ProductID string
	Quantity  int
}

type Repository interface {
	List(ctx context.Context) ([]domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetByOwner(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error)
	// Create inserts a cart bound to owner. Returns domain.ErrConflict when
	// the owner already has one.
	Create(ctx context.Context, owner domain.CartOwner, items []ItemInput) (*domain.Cart, error)
	// Replace overwrites a cart's owner and items wholesale.
	Replace(ctx context.Context, id string, owner domain.CartOwner, items []ItemInput) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
	// AddItem folds quantity into the owner's cart in one transaction,
	// creating the cart when absent and clamping against the product's
	// per-order limit.
	AddItem(ctx context.Context, owner domain.CartOwner, product domain.Product, quantity int) (*domain.Cart, error)
	// AssignOwner rebinds an existing cart to a new owner.
	AssignOwner(ctx context.Context, cartID string, owner domain.CartOwner) (*domain.Cart, error)
	// MergeInto appends additions to the destination cart and deletes the
	// source cart in the same transaction. Lines the destination already
	// holds are left untouched.
	MergeInto(ctx context.Context, dstCartID, srcCartID string, additions []ItemInput) (*domain.Cart, error)
}
