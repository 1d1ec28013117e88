package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	categorysvc "storefront/internal/service/category"
)

func listCategoriesHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := categories.List(c.Request.Context())
		if err != nil {
			respondError(c, err, "")
			return
		}
		c.JSON(http.StatusOK, all)
	}
}

func getCategoryHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := categories.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err, "Category not found")
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func createCategoryHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in categorysvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		category, err := categories.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, err, "Category not found")
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func updateCategoryHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in categorysvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		category, err := categories.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, err, "Category not found")
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func deleteCategoryHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err, "Category not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func searchCategoriesHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := categorysvc.SearchInput{
			Query:    c.Query("q"),
			ParentID: c.Query("parentCategory"),
			Sort:     c.Query("sort"),
			Order:    c.Query("order"),
			Page:     intQuery(c, "page", 1),
			Limit:    intQuery(c, "limit", 10),
		}
		result, err := categories.Search(c.Request.Context(), in)
		if err != nil {
			respondError(c, err, "")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"categories": result.Categories,
			"pagination": paginationEnvelope(result.CurrentPage, result.TotalPages, result.TotalResults),
			"searchTerm": nilIfEmpty(in.Query),
		})
	}
}

func paginationEnvelope(page, totalPages, totalResults int) gin.H {
	return gin.H{
		"currentPage":  page,
		"totalPages":   totalPages,
		"totalResults": totalResults,
		"hasNext":      page < totalPages,
		"hasPrev":      page > 1,
	}
}

func intQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
