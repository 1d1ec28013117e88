package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
)

type stubCartService struct {
	cart *domain.Cart
	err  error

	addOwner    domain.CartOwner
	addProduct  string
	addQuantity int
	mergeUserID string
	mergeAnonID string
	deletedID   string
}

func (s *stubCartService) List(_ context.Context) ([]domain.Cart, error) { return nil, s.err }

func (s *stubCartService) Get(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) GetByUser(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) GetByAnonymous(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Create(_ context.Context, _ domain.CartOwner, _ []cartsvc.ItemInput) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Update(_ context.Context, _ string, _ domain.CartOwner, _ []cartsvc.ItemInput) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return s.err
}

func (s *stubCartService) AddProduct(_ context.Context, owner domain.CartOwner, productID string, quantity int) (*domain.Cart, error) {
	s.addOwner = owner
	s.addProduct = productID
	s.addQuantity = quantity
	return s.cart, s.err
}

func (s *stubCartService) Merge(_ context.Context, userID, anonymousID string) (*domain.Cart, error) {
	s.mergeUserID = userID
	s.mergeAnonID = anonymousID
	return s.cart, s.err
}

func guestCart(anonymousID string) *domain.Cart {
	return &domain.Cart{ID: "c1", Owner: domain.GuestOwner(anonymousID)}
}

func TestAddProductToCart_Guest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	carts := &stubCartService{cart: guestCart("anon-1")}
	router := gin.New()
	router.POST("/cart/guest/add-product", addProductToCartHandler(carts, false))

	body := strings.NewReader(`{"anonymousId":"anon-1","productId":"p1","quantity":2}`)
	req := httptest.NewRequest(http.MethodPost, "/cart/guest/add-product", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	anonymousID, ok := carts.addOwner.AnonymousID()
	if !ok || anonymousID != "anon-1" {
		t.Fatalf("expected guest owner anon-1, got %+v", carts.addOwner)
	}
	if carts.addProduct != "p1" || carts.addQuantity != 2 {
		t.Fatalf("unexpected add call: %s qty %d", carts.addProduct, carts.addQuantity)
	}
}

func TestAddProductToCart_TokenFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := &stubUserService{user: &domain.User{ID: "u1"}}
	carts := &stubCartService{cart: &domain.Cart{ID: "c1", Owner: domain.UserOwner("u1")}}
	router := gin.New()
	router.POST("/cart/add-product", authMiddleware(users), addProductToCartHandler(carts, true))

	body := strings.NewReader(`{"productId":"p1","quantity":1}`)
	req := httptest.NewRequest(http.MethodPost, "/cart/add-product", body)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	userID, ok := carts.addOwner.UserID()
	if !ok || userID != "u1" {
		t.Fatalf("expected owner to fall back to token user, got %+v", carts.addOwner)
	}
}

func TestAddProductToCart_BodyUserWins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := &stubUserService{user: &domain.User{ID: "u1"}}
	carts := &stubCartService{cart: &domain.Cart{ID: "c1", Owner: domain.UserOwner("u2")}}
	router := gin.New()
	router.POST("/cart/add-product", authMiddleware(users), addProductToCartHandler(carts, true))

	body := strings.NewReader(`{"userId":"u2","productId":"p1","quantity":1}`)
	req := httptest.NewRequest(http.MethodPost, "/cart/add-product", body)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	userID, _ := carts.addOwner.UserID()
	if userID != "u2" {
		t.Fatalf("expected body userId to win, got %+v", carts.addOwner)
	}
}

func TestAddProductToCart_MissingIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	carts := &stubCartService{}
	router := gin.New()
	router.POST("/cart/guest/add-product", addProductToCartHandler(carts, false))

	body := strings.NewReader(`{"productId":"p1","quantity":1}`)
	req := httptest.NewRequest(http.MethodPost, "/cart/guest/add-product", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAddProductToCart_InvalidQuantity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	carts := &stubCartService{err: domain.Invalidf("quantity must be >= 1")}
	router := gin.New()
	router.POST("/cart/guest/add-product", addProductToCartHandler(carts, false))

	body := strings.NewReader(`{"anonymousId":"anon-1","productId":"p1","quantity":-3}`)
	req := httptest.NewRequest(http.MethodPost, "/cart/guest/add-product", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "quantity must be") {
		t.Fatalf("expected validation message, got %s", rec.Body.String())
	}
}

func TestMergeCarts_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := &stubUserService{user: &domain.User{ID: "u1"}}
	carts := &stubCartService{cart: &domain.Cart{ID: "c1", Owner: domain.UserOwner("u1")}}
	router := gin.New()
	router.POST("/cart/merge", authMiddleware(users), mergeCartsHandler(carts))

	body := strings.NewReader(`{"anonymousId":"anon-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/cart/merge", body)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if carts.mergeUserID != "u1" || carts.mergeAnonID != "anon-1" {
		t.Fatalf("unexpected merge call: user=%s anon=%s", carts.mergeUserID, carts.mergeAnonID)
	}
}

func TestMergeCarts_GuestCartNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := &stubUserService{user: &domain.User{ID: "u1"}}
	carts := &stubCartService{err: domain.ErrNotFound}
	router := gin.New()
	router.POST("/cart/merge", authMiddleware(users), mergeCartsHandler(carts))

	body := strings.NewReader(`{"anonymousId":"anon-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/cart/merge", body)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Guest cart not found") {
		t.Fatalf("expected guest cart message, got %s", rec.Body.String())
	}
}

func TestCreateCart_BothIdentities(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := &stubUserService{user: &domain.User{ID: "u1"}}
	carts := &stubCartService{}
	router := gin.New()
	router.POST("/cart", authMiddleware(users), createCartHandler(carts))

	body := strings.NewReader(`{"user":"u1","anonymousId":"anon-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/cart", body)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestDeleteCart_NoContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := &stubUserService{user: &domain.User{ID: "u1"}}
	carts := &stubCartService{}
	router := gin.New()
	router.DELETE("/cart/:id", authMiddleware(users), deleteCartHandler(carts))

	req := httptest.NewRequest(http.MethodDelete, "/cart/c1", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if carts.deletedID != "c1" {
		t.Fatalf("expected delete of c1, got %q", carts.deletedID)
	}
}

func TestGetCartByAnonymous_Response(t *testing.T) {
	gin.SetMode(gin.TestMode)
	carts := &stubCartService{cart: guestCart("anon-1")}
	router := gin.New()
	router.GET("/cart/guest/:anonymousId", getCartByAnonymousHandler(carts))

	req := httptest.NewRequest(http.MethodGet, "/cart/guest/anon-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	got := rec.Body.String()
	if !strings.Contains(got, `"anonymousId":"anon-1"`) || !strings.Contains(got, `"products":[]`) {
		t.Fatalf("unexpected body: %s", got)
	}
}
