package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"storefront/repositories"
	"storefront/services"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "Validation", err: &services.ValidationError{Fields: map[string]string{"city": "x"}}, want: http.StatusBadRequest},
		{name: "InvalidCredentials", err: services.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "NotFound", err: repositories.ErrProductNotFound, want: http.StatusNotFound},
		{name: "UserExists", err: services.ErrUserExists, want: http.StatusConflict},
		{name: "WrongStep", err: services.ErrInvalidStep, want: http.StatusConflict},
		{name: "Declined", err: &services.PaymentError{Message: "Please enter a valid CVV"}, want: http.StatusPaymentRequired},
		{name: "Simulated", err: &services.SimulatedFailureError{Op: services.OpLogin, Message: "Login failed. Please try again."}, want: http.StatusServiceUnavailable},
		{name: "CatalogDown", err: &repositories.CatalogError{Message: "m", Err: fmt.Errorf("%w: 500", repositories.ErrCatalogUnavailable)}, want: http.StatusBadGateway},
		{name: "CatalogTimeout", err: &repositories.CatalogError{Message: "m", Err: repositories.ErrCatalogTimeout}, want: http.StatusGatewayTimeout},
		{name: "Cancelled", err: fmt.Errorf("payment interrupted: %w", context.Canceled), want: http.StatusRequestTimeout},
		{name: "Unknown", err: errors.New("disk on fire"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
