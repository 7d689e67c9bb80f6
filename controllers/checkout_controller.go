package controllers

import (
	"net/http"

	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct{}

// GetCheckout godoc
// @Summary Checkout state
// @Description Current wizard step, forms (card masked), items and totals
// @Tags Checkout
// @Produce json
// @Success 200 {object} models.Response{data=services.CheckoutState}
// @Router /checkout [get]
func (ctrl *CheckoutController) GetCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Checkout retrieved",
		Data:    storefront(c).Checkout.State(),
	})
}

// UpdateShipping godoc
// @Summary Update shipping form
// @Description Stored as given; validated when the wizard advances
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body models.ShippingDetails true "Shipping Details"
// @Success 200 {object} models.Response{data=services.CheckoutState}
// @Failure 409 {object} models.ErrorResponse
// @Router /checkout/shipping [put]
func (ctrl *CheckoutController) UpdateShipping(c *gin.Context) {
	var req models.ShippingDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	checkout := storefront(c).Checkout
	if err := checkout.UpdateShipping(req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Shipping details saved",
		Data:    checkout.State(),
	})
}

// UpdatePayment godoc
// @Summary Update payment form
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body models.PaymentDetails true "Payment Details"
// @Success 200 {object} models.Response{data=services.CheckoutState}
// @Failure 409 {object} models.ErrorResponse
// @Router /checkout/payment [put]
func (ctrl *CheckoutController) UpdatePayment(c *gin.Context) {
	var req models.PaymentDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	checkout := storefront(c).Checkout
	if err := checkout.UpdatePayment(req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Payment details saved",
		Data:    checkout.State(),
	})
}

// Next godoc
// @Summary Advance checkout
// @Description Validates the current step and moves forward; on review places the order
// @Tags Checkout
// @Produce json
// @Success 200 {object} models.Response{data=services.CheckoutState}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /checkout/next [post]
func (ctrl *CheckoutController) Next(c *gin.Context) {
	state, err := storefront(c).Checkout.Next(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Checkout advanced"
	if state.Step == services.StepConfirmed {
		message = "Order placed"
	}
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: message,
		Data:    state,
	})
}

// Back godoc
// @Summary Previous checkout step
// @Tags Checkout
// @Produce json
// @Success 200 {object} models.Response{data=services.CheckoutState}
// @Router /checkout/back [post]
func (ctrl *CheckoutController) Back(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Checkout moved back",
		Data:    storefront(c).Checkout.Back(),
	})
}

// Reset godoc
// @Summary Restart checkout
// @Tags Checkout
// @Produce json
// @Success 200 {object} models.Response{data=services.CheckoutState}
// @Failure 409 {object} models.ErrorResponse
// @Router /checkout/reset [post]
func (ctrl *CheckoutController) Reset(c *gin.Context) {
	state, err := storefront(c).Checkout.Reset()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Checkout reset",
		Data:    state,
	})
}

// GetConfirmation godoc
// @Summary Order confirmation
// @Tags Checkout
// @Produce json
// @Success 200 {object} models.Response{data=models.OrderConfirmation}
// @Failure 404 {object} models.ErrorResponse
// @Router /checkout/confirmation [get]
func (ctrl *CheckoutController) GetConfirmation(c *gin.Context) {
	confirmation, ok := storefront(c).Checkout.Confirmation()
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Message: "No order has been placed",
		})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Order confirmation retrieved",
		Data:    confirmation,
	})
}
