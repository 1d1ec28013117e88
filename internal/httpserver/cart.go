package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
)

type cartWriteRequest struct {
	UserID      string              `json:"user"`
	AnonymousID string              `json:"anonymousId"`
	Products    []cartsvc.ItemInput `json:"products"`
}

type addProductRequest struct {
	UserID      string `json:"userId"`
	AnonymousID string `json:"anonymousId"`
	ProductID   string `json:"productId"`
	Quantity    int    `json:"quantity"`
}

type mergeRequest struct {
	AnonymousID string `json:"anonymousId"`
}

func listCartsHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := carts.List(c.Request.Context())
		if err != nil {
			respondError(c, err, "")
			return
		}
		c.JSON(http.StatusOK, toCartResponses(all))
	}
}

func getCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err, "Cart not found")
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func getCartByUserHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.GetByUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err, "No cart found for this user")
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func getCartByAnonymousHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.GetByAnonymous(c.Request.Context(), c.Param("anonymousId"))
		if err != nil {
			respondError(c, err, "No cart found for this guest")
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func createCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartWriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		owner, ok := ownerFromRequest(c, req.UserID, req.AnonymousID)
		if !ok {
			return
		}
		cart, err := carts.Create(c.Request.Context(), owner, req.Products)
		if err != nil {
			respondError(c, err, "Product not found")
			return
		}
		c.JSON(http.StatusCreated, toCartResponse(cart))
	}
}

func updateCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartWriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		owner, ok := ownerFromRequest(c, req.UserID, req.AnonymousID)
		if !ok {
			return
		}
		cart, err := carts.Update(c.Request.Context(), c.Param("id"), owner, req.Products)
		if err != nil {
			respondError(c, err, "Cart not found")
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func deleteCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err, "Cart not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// addProductToCartHandler serves both the authenticated and the guest
// variant of the add-product route. When authenticated, the token user is
// the fallback identity; an explicit userId in the body wins.
func addProductToCartHandler(carts cartService, authenticated bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		userID := req.UserID
		if userID == "" && authenticated {
			if u := currentUser(c); u != nil {
				userID = u.ID
			}
		}

		var owner domain.CartOwner
		switch {
		case userID != "":
			owner = domain.UserOwner(userID)
		case req.AnonymousID != "":
			owner = domain.GuestOwner(req.AnonymousID)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide userId or anonymousId, productId and quantity >= 1"})
			return
		}

		cart, err := carts.AddProduct(c.Request.Context(), owner, req.ProductID, req.Quantity)
		if err != nil {
			respondError(c, err, "Product not found")
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func mergeCartsHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req mergeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		u := currentUser(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}
		cart, err := carts.Merge(c.Request.Context(), u.ID, req.AnonymousID)
		if err != nil {
			respondError(c, err, "Guest cart not found")
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

// ownerFromRequest builds the cart owner from a write request body,
// rejecting bodies that name both identities or neither.
func ownerFromRequest(c *gin.Context, userID, anonymousID string) (domain.CartOwner, bool) {
	switch {
	case userID != "" && anonymousID != "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide user or anonymousId, not both"})
		return domain.CartOwner{}, false
	case userID != "":
		return domain.UserOwner(userID), true
	case anonymousID != "":
		return domain.GuestOwner(anonymousID), true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide user or anonymousId"})
		return domain.CartOwner{}, false
	}
}
