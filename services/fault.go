package services

import (
	"context"
	"fmt"
	"sync/atomic"
)

type Operation string

const (
	OpLogin          Operation = "login"
	OpSignup         Operation = "signup"
	OpLogout         Operation = "logout"
	OpAddToCart      Operation = "add_to_cart"
	OpPayment        Operation = "payment"
	OpSearchProducts Operation = "search_products"
	OpFilterCategory Operation = "filter_category"
	OpSortProducts   Operation = "sort_products"
)

// FaultInjector decides whether a simulated operation fails. It sits at the
// boundary of every simulated gateway call.
type FaultInjector interface {
	Inject(ctx context.Context, op Operation, detail string) error
}

type NoFaults struct{}

func (NoFaults) Inject(context.Context, Operation, string) error { return nil }

type SimulatedFailureError struct {
	Op      Operation
	Message string
}

func (e *SimulatedFailureError) Error() string { return e.Message }

func (e *SimulatedFailureError) Is(target error) bool { return target == ErrSimulatedFailure }

func failureMessage(op Operation, detail string) string {
	switch op {
	case OpLogin:
		return "Login failed. Please try again."
	case OpSignup:
		return "Signup failed. Please try again."
	case OpLogout:
		return "Failed to logout. Please try again."
	case OpAddToCart:
		return "Failed to add item to cart. Please try again."
	case OpPayment:
		return "Payment processing failed. Please try again."
	case OpSearchProducts:
		return fmt.Sprintf("Failed to search for %q. Please try again.", detail)
	case OpFilterCategory:
		return fmt.Sprintf("Failed to change category to %s. Please try again.", detail)
	case OpSortProducts:
		return fmt.Sprintf("Failed to change sort to %s. Please try again.", detail)
	default:
		return "Operation failed. Please try again."
	}
}

// FailMode is the developer toggle: while enabled every injected operation fails.
type FailMode struct {
	enabled atomic.Bool
}

func NewFailMode(enabled bool) *FailMode {
	f := &FailMode{}
	f.enabled.Store(enabled)
	return f
}

func (f *FailMode) Set(enabled bool) { f.enabled.Store(enabled) }

func (f *FailMode) Enabled() bool { return f.enabled.Load() }

func (f *FailMode) Inject(_ context.Context, op Operation, detail string) error {
	if !f.enabled.Load() {
		return nil
	}
	return &SimulatedFailureError{Op: op, Message: failureMessage(op, detail)}
}
