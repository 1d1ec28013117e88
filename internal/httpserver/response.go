package httpserver

import (
	"time"

	"storefront/internal/domain"
)

type cartResponse struct {
	ID          string             `json:"id"`
	User        *domain.User       `json:"user,omitempty"`
	UserID      string             `json:"userId,omitempty"`
	AnonymousID string             `json:"anonymousId,omitempty"`
	Products    []cartItemResponse `json:"products"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type cartItemResponse struct {
	ID       string          `json:"id"`
	Product  *domain.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

func toCartResponse(cart *domain.Cart) cartResponse {
	out := cartResponse{
		ID:        cart.ID,
		User:      cart.User,
		Products:  make([]cartItemResponse, 0, len(cart.Items)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	if userID, ok := cart.Owner.UserID(); ok {
		out.UserID = userID
	}
	if anonymousID, ok := cart.Owner.AnonymousID(); ok {
		out.AnonymousID = anonymousID
	}
	for _, item := range cart.Items {
		out.Products = append(out.Products, cartItemResponse{
			ID:       item.ID,
			Product:  item.Product,
			Quantity: item.Quantity,
		})
	}
	return out
}

func toCartResponses(carts []domain.Cart) []cartResponse {
	out := make([]cartResponse, 0, len(carts))
	for i := range carts {
		out = append(out, toCartResponse(&carts[i]))
	}
	return out
}
