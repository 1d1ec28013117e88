package domain

import "time"

type ownerKind int

const (
	ownerUser ownerKind = iota + 1
	ownerGuest
)

// CartOwner identifies the single identity a cart belongs to: a registered
// user or an anonymous session. The zero value owns nothing.
type CartOwner struct {
	kind ownerKind
	id   string
}

// UserOwner binds a cart to a registered user.
func UserOwner(userID string) CartOwner {
	return CartOwner{kind: ownerUser, id: userID}
}

// GuestOwner binds a cart to an anonymous session id.
func GuestOwner(anonymousID string) CartOwner {
	return CartOwner{kind: ownerGuest, id: anonymousID}
}

func (o CartOwner) UserID() (string, bool) {
	return o.id, o.kind == ownerUser
}

func (o CartOwner) AnonymousID() (string, bool) {
	return o.id, o.kind == ownerGuest
}

func (o CartOwner) IsZero() bool {
	return o.kind == 0 || o.id == ""
}

type Cart struct {
	ID        string
	Owner     CartOwner
	User      *User
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasProduct reports whether the cart already carries a line for productID.
func (c *Cart) HasProduct(productID string) bool {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// ClampQuantity caps a desired line quantity at a product's per-order limit.
// A nil or non-positive limit means unlimited.
func ClampQuantity(desired int, limit *int) int {
	if limit != nil && *limit > 0 && desired > *limit {
		return *limit
	}
	return desired
}

type CartItem struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int
	Product   *Product
	CreatedAt time.Time
}
