package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	categorysvc "storefront/internal/service/category"
	productsvc "storefront/internal/service/product"
)

// Deps carries the services the router dispatches to.
type Deps struct {
	ProductSvc  productService
	CategorySvc categoryService
	CartSvc     cartService
	UserSvc     userService
	CORSOrigins []string
}

type productService interface {
	List(ctx context.Context, categoryID string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in productsvc.Input) (*domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.Input) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, in productsvc.SearchInput) (*productsvc.SearchResult, error)
}

type categoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, in categorysvc.Input) (*domain.Category, error)
	Update(ctx context.Context, id string, in categorysvc.Input) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, in categorysvc.SearchInput) (*categorysvc.SearchResult, error)
}

type cartService interface {
	List(ctx context.Context) ([]domain.Cart, error)
	Get(ctx context.Context, id string) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	GetByAnonymous(ctx context.Context, anonymousID string) (*domain.Cart, error)
	Create(ctx context.Context, owner domain.CartOwner, items []cartsvc.ItemInput) (*domain.Cart, error)
	Update(ctx context.Context, id string, owner domain.CartOwner, items []cartsvc.ItemInput) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
	AddProduct(ctx context.Context, owner domain.CartOwner, productID string, quantity int) (*domain.Cart, error)
	Merge(ctx context.Context, userID, anonymousID string) (*domain.Cart, error)
}

type userService interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	NewAnonymousID() string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.CORSOrigins) == 1 && deps.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = deps.CORSOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	authed := authMiddleware(deps.UserSvc)
	admin := adminMiddleware()

	router.POST("/auth/login", loginHandler(deps.UserSvc))
	router.GET("/auth/me", authed, meHandler())
	router.POST("/auth/guest", guestHandler(deps.UserSvc))

	router.GET("/categories", listCategoriesHandler(deps.CategorySvc))
	router.GET("/categories/search", searchCategoriesHandler(deps.CategorySvc))
	router.GET("/categories/:id", getCategoryHandler(deps.CategorySvc))
	router.POST("/categories", authed, admin, createCategoryHandler(deps.CategorySvc))
	router.PUT("/categories/:id", authed, admin, updateCategoryHandler(deps.CategorySvc))
	router.DELETE("/categories/:id", authed, admin, deleteCategoryHandler(deps.CategorySvc))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/search", searchProductsHandler(deps.ProductSvc))
	router.GET("/products/:id", getProductHandler(deps.ProductSvc))
	router.POST("/products", authed, admin, createProductHandler(deps.ProductSvc))
	router.PUT("/products/:id", authed, admin, updateProductHandler(deps.ProductSvc))
	router.DELETE("/products/:id", authed, admin, deleteProductHandler(deps.ProductSvc))

	router.GET("/cart", authed, admin, listCartsHandler(deps.CartSvc))
	router.GET("/cart/user/:id", authed, getCartByUserHandler(deps.CartSvc))
	router.GET("/cart/guest/:anonymousId", getCartByAnonymousHandler(deps.CartSvc))
	router.POST("/cart/guest/add-product", addProductToCartHandler(deps.CartSvc, false))
	router.POST("/cart/add-product", authed, addProductToCartHandler(deps.CartSvc, true))
	router.POST("/cart/merge", authed, mergeCartsHandler(deps.CartSvc))
	router.POST("/cart", authed, createCartHandler(deps.CartSvc))
	router.GET("/cart/:id", authed, admin, getCartHandler(deps.CartSvc))
	router.PUT("/cart/:id", authed, updateCartHandler(deps.CartSvc))
	router.DELETE("/cart/:id", authed, deleteCartHandler(deps.CartSvc))

	return router
}

func respondError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidMessage(err)})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundMsg})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflicting concurrent update"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func invalidMessage(err error) string {
	return strings.TrimPrefix(err.Error(), domain.ErrInvalid.Error()+": ")
}
