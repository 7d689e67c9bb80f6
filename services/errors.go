package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrEmptyCart          = errors.New("Your cart is empty")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrUserExists         = errors.New("User with this email already exists")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrInvalidStep        = errors.New("operation not allowed at the current checkout step")
	ErrCheckoutInProgress = errors.New("order placement already in progress")
	ErrSimulatedFailure   = errors.New("simulated failure")
	ErrPaymentDeclined    = errors.New("payment declined")
)

// PaymentError is a payment the processor refused after charging was attempted.
type PaymentError struct {
	Message string
}

func (e *PaymentError) Error() string { return e.Message }

func (e *PaymentError) Is(target error) bool { return target == ErrPaymentDeclined }

// ValidationError maps field names to the message shown next to the field.
type ValidationError struct {
	Fields map[string]string
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		for _, msg := range e.Fields {
			return msg
		}
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

func IsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
