package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"storefront/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type CheckoutStep int

const (
	StepShipping CheckoutStep = iota
	StepPayment
	StepReview
	StepConfirmed
)

var stepNames = map[CheckoutStep]string{
	StepShipping:  "shipping",
	StepPayment:   "payment",
	StepReview:    "review",
	StepConfirmed: "confirmed",
}

func (s CheckoutStep) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

func (s CheckoutStep) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

type CheckoutState struct {
	Step         CheckoutStep              `json:"step"`
	Shipping     models.ShippingDetails    `json:"shipping"`
	Payment      models.PaymentDetails     `json:"payment"`
	Items        []models.CartItem         `json:"items"`
	Totals       models.OrderTotals        `json:"totals"`
	Error        string                    `json:"error,omitempty"`
	Placing      bool                      `json:"placing"`
	Confirmation *models.OrderConfirmation `json:"confirmation,omitempty"`
}

// CheckoutService is the wizard for one session: shipping, payment, review,
// then a terminal confirmation once the order is placed.
type CheckoutService struct {
	mu       sync.Mutex
	cart     *CartStore
	notifier *Notifier
	payments PaymentProcessor
	validate *validator.Validate
	logger   *zap.Logger

	step         CheckoutStep
	shipping     models.ShippingDetails
	payment      models.PaymentDetails
	lastError    string
	placing      bool
	confirmation *models.OrderConfirmation
}

func NewCheckoutService(cart *CartStore, notifier *Notifier, payments PaymentProcessor, validate *validator.Validate, logger *zap.Logger) *CheckoutService {
	if validate == nil {
		validate = NewFormValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		cart:     cart,
		notifier: notifier,
		payments: payments,
		validate: validate,
		logger:   logger,
		shipping: models.ShippingDetails{Country: "US"},
	}
}

func (s *CheckoutService) Step() CheckoutStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *CheckoutService) State() CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *CheckoutService) stateLocked() CheckoutState {
	state := CheckoutState{
		Step:         s.step,
		Shipping:     s.shipping,
		Payment:      s.payment.Masked(),
		Error:        s.lastError,
		Placing:      s.placing,
		Confirmation: s.confirmation,
	}

	if s.confirmation != nil {
		state.Items = s.confirmation.Items
		state.Totals = s.confirmation.Totals
		return state
	}

	state.Items = s.cart.Items()
	if state.Items == nil {
		state.Items = []models.CartItem{}
	}
	state.Totals = ComputeTotals(s.cart.Total())
	return state
}

// UpdateShipping replaces the shipping form. It does not validate; validation
// runs when the wizard advances.
func (s *CheckoutService) UpdateShipping(details models.ShippingDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step == StepConfirmed {
		return ErrInvalidStep
	}
	s.shipping = details.Normalize()
	return nil
}

func (s *CheckoutService) UpdatePayment(details models.PaymentDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step == StepConfirmed {
		return ErrInvalidStep
	}
	s.payment = details.Normalize()
	return nil
}

// Next validates the active step and advances. On review it places the
// order. A validation failure leaves the wizard where it was.
func (s *CheckoutService) Next(ctx context.Context) (CheckoutState, error) {
	s.mu.Lock()

	switch s.step {
	case StepShipping:
		if err := validateForm(s.validate, s.shipping); err != nil {
			state := s.stateLocked()
			s.mu.Unlock()
			return state, err
		}
		s.step = StepPayment
	case StepPayment:
		if err := validateForm(s.validate, s.payment); err != nil {
			state := s.stateLocked()
			s.mu.Unlock()
			return state, err
		}
		s.step = StepReview
	case StepReview:
		s.mu.Unlock()
		_, err := s.PlaceOrder(ctx)
		return s.State(), err
	default:
		state := s.stateLocked()
		s.mu.Unlock()
		return state, ErrInvalidStep
	}

	s.lastError = ""
	state := s.stateLocked()
	s.mu.Unlock()
	return state, nil
}

// Back moves one step backwards without validation. It does nothing on the
// first step and after confirmation.
func (s *CheckoutService) Back() CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step > StepShipping && s.step < StepConfirmed && !s.placing {
		s.step--
		s.lastError = ""
	}
	return s.stateLocked()
}

// Reset returns the wizard to an empty shipping step. It is refused while an
// order is being placed.
func (s *CheckoutService) Reset() (CheckoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.placing {
		return s.stateLocked(), ErrCheckoutInProgress
	}

	s.step = StepShipping
	s.shipping = models.ShippingDetails{Country: "US"}
	s.payment = models.PaymentDetails{}
	s.lastError = ""
	s.confirmation = nil
	return s.stateLocked(), nil
}

func (s *CheckoutService) Confirmation() (*models.OrderConfirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmation, s.confirmation != nil
}

// PlaceOrder charges the cart total through the payment processor. On
// success the ordered lines leave the cart and the wizard is confirmed; on failure it
// stays on review with the error recorded. There is no retry.
func (s *CheckoutService) PlaceOrder(ctx context.Context) (*models.OrderConfirmation, error) {
	s.mu.Lock()
	if s.step != StepReview {
		s.mu.Unlock()
		return nil, ErrInvalidStep
	}
	if s.placing {
		s.mu.Unlock()
		return nil, ErrCheckoutInProgress
	}

	items := s.cart.Items()
	if len(items) == 0 {
		s.lastError = ErrEmptyCart.Error()
		s.mu.Unlock()
		return nil, ErrEmptyCart
	}

	s.placing = true
	s.lastError = ""
	shipping := s.shipping
	payment := s.payment
	s.mu.Unlock()

	totals := ComputeTotals(subtotal(items))
	result, err := s.payments.Process(ctx, models.PaymentRequest{Payment: payment, Amount: totals.Total})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.placing = false

	if err != nil {
		s.lastError = err.Error()
		s.notifier.Error(err.Error())
		s.logger.Warn("order placement failed", zap.Error(err))
		return nil, err
	}

	s.cart.RemoveOrdered(items)
	s.confirmation = &models.OrderConfirmation{
		PaymentResult: *result,
		Items:         items,
		Shipping:      shipping,
		Totals:        totals,
	}
	s.step = StepConfirmed
	s.payment = models.PaymentDetails{}

	s.notifier.Success("Order placed successfully! Order ID: " + result.OrderID)
	s.logger.Info("order placed",
		zap.String("order_id", result.OrderID),
		zap.Int("lines", len(items)),
		zap.String("total", totals.Total.StringFixed(2)))

	return s.confirmation, nil
}
