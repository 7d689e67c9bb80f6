package controllers

import (
	"net/http"

	"storefront/models"

	"github.com/gin-gonic/gin"
)

type ProductController struct{}

// GetAllProducts godoc
// @Summary Get all products
// @Description Get the catalog, optionally searched, filtered by category, sorted and paginated
// @Tags Products
// @Produce json
// @Param search query string false "Search term matched against title, description and category"
// @Param category query string false "Category name, or all"
// @Param sort query string false "default, price-low, price-high, name or rating"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page, 0 for everything" default(0)
// @Success 200 {object} models.PaginationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	var query models.ProductQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	page, err := storefront(c).Products.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PaginationResponse{
		Success: true,
		Message: "Products retrieved",
		Data:    page.Products,
		Meta:    page.Meta,
	})
}

// GetProductByID godoc
// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	product, err := storefront(c).Products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product retrieved",
		Data:    product,
	})
}

// GetAllCategories godoc
// @Summary Get all categories
// @Description Get list of all catalog categories
// @Tags Categories
// @Produce json
// @Success 200 {object} models.Response{data=[]string}
// @Failure 502 {object} models.ErrorResponse
// @Router /categories [get]
func (ctrl *ProductController) GetAllCategories(c *gin.Context) {
	categories, err := storefront(c).Products.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Categories retrieved",
		Data:    categories,
	})
}

// GetCatalog godoc
// @Summary Catalog page
// @Description Products and categories in one call; search, category and sort apply to the products
// @Tags Products
// @Produce json
// @Param search query string false "Search term"
// @Param category query string false "Category name, or all"
// @Param sort query string false "default, price-low, price-high, name or rating"
// @Success 200 {object} models.Response{data=models.ProductListing}
// @Failure 502 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /catalog [get]
func (ctrl *ProductController) GetCatalog(c *gin.Context) {
	var query models.ProductQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	listing, err := storefront(c).Products.Listing(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Catalog retrieved",
		Data:    listing,
	})
}

// GetProductsByCategory godoc
// @Summary Products in a category
// @Description Fetched from the catalog's category endpoint
// @Tags Categories
// @Produce json
// @Param name path string true "Category name"
// @Success 200 {object} models.Response{data=[]models.Product}
// @Failure 502 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /categories/{name}/products [get]
func (ctrl *ProductController) GetProductsByCategory(c *gin.Context) {
	products, err := storefront(c).Products.ByCategory(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Products retrieved",
		Data:    products,
	})
}
