package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productsvc "storefront/internal/service/product"
)

func listProductsHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := products.List(c.Request.Context(), c.Query("category"))
		if err != nil {
			respondError(c, err, "")
			return
		}
		c.JSON(http.StatusOK, all)
	}
}

func getProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err, "Product not found")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func createProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in productsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		p, err := products.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, err, "Product not found")
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in productsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		p, err := products.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, err, "Product not found")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := products.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err, "Product not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func searchProductsHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := productsvc.SearchInput{
			Query:      c.Query("q"),
			CategoryID: c.Query("category"),
			Sort:       c.Query("sort"),
			Order:      c.Query("order"),
			Page:       intQuery(c, "page", 1),
			Limit:      intQuery(c, "limit", 10),
		}
		result, err := products.Search(c.Request.Context(), in)
		if err != nil {
			respondError(c, err, "")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"products":   result.Products,
			"pagination": paginationEnvelope(result.CurrentPage, result.TotalPages, result.TotalResults),
			"searchTerm": nilIfEmpty(in.Query),
		})
	}
}
