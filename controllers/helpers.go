package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"storefront/middleware"
	"storefront/models"
	"storefront/repositories"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

func storefront(c *gin.Context) *services.Storefront {
	return c.MustGet(middleware.StorefrontKey).(*services.Storefront)
}

func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid ID",
		})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Message: "Invalid request",
		Error:   err.Error(),
	})
}

func statusFor(err error) int {
	if _, ok := services.IsValidationError(err); ok {
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, services.ErrNotAuthenticated),
		errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, repositories.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrInvalidStep),
		errors.Is(err, services.ErrCheckoutInProgress),
		errors.Is(err, services.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, services.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrSimulatedFailure):
		return http.StatusServiceUnavailable
	case errors.Is(err, repositories.ErrCatalogTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, repositories.ErrCatalogUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	resp := models.ErrorResponse{
		Success: false,
		Message: err.Error(),
	}
	if verr, ok := services.IsValidationError(err); ok {
		resp.Message = "Please correct the highlighted fields"
		resp.Errors = verr.Fields
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		resp.Message = "Something went wrong. Please try again."
	}
	c.JSON(status, resp)
}
