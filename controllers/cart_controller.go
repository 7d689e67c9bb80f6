package controllers

import (
	"net/http"

	"storefront/models"

	"github.com/gin-gonic/gin"
)

type CartController struct{}

// GetCart godoc
// @Summary Get cart
// @Description Cart lines with subtotal and order totals
// @Tags Cart
// @Produce json
// @Success 200 {object} models.Response{data=models.Cart}
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart retrieved",
		Data:    storefront(c).Cart.Snapshot(),
	})
}

// AddItem godoc
// @Summary Add product to cart
// @Description Adds a catalog product, accumulating onto an existing line
// @Tags Cart
// @Accept json
// @Produce json
// @Param request body models.AddToCartRequest true "Add To Cart Request"
// @Success 201 {object} models.Response{data=models.Cart}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sf := storefront(c)
	ctx := c.Request.Context()

	product, err := sf.Products.Get(ctx, req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := sf.Cart.Add(ctx, *product, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Item added to cart",
		Data:    sf.Cart.Snapshot(),
	})
}

// UpdateItem godoc
// @Summary Update cart line quantity
// @Description Zero or less removes the line
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body models.UpdateQuantityRequest true "Update Quantity Request"
// @Success 200 {object} models.Response{data=models.Cart}
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/items/{id} [patch]
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sf := storefront(c)
	sf.Cart.UpdateQuantity(id, *req.Quantity)

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart updated",
		Data:    sf.Cart.Snapshot(),
	})
}

// RemoveItem godoc
// @Summary Remove cart line
// @Tags Cart
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response{data=models.Cart}
// @Router /cart/items/{id} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	sf := storefront(c)
	sf.Cart.Remove(id)

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Item removed from cart",
		Data:    sf.Cart.Snapshot(),
	})
}

// ClearCart godoc
// @Summary Clear cart
// @Tags Cart
// @Produce json
// @Success 200 {object} models.Response{data=models.Cart}
// @Router /cart [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	sf := storefront(c)
	sf.Cart.Clear()

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart cleared",
		Data:    sf.Cart.Snapshot(),
	})
}
