package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	cart     *CartStore
	notifier *Notifier
	faults   *FailMode
	clock    *fakeClock
	checkout *CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	clock := newFakeClock()
	notifier := NewNotifier(time.Minute, clock.Now)
	faults := NewFailMode(false)
	cart := NewCartStore(notifier, faults, nil)
	payments := NewSimulatedPayment(2*time.Second, NoSleep, faults, clock.Now, nil)

	return &checkoutFixture{
		cart:     cart,
		notifier: notifier,
		faults:   faults,
		clock:    clock,
		checkout: NewCheckoutService(cart, notifier, payments, NewFormValidator(), nil),
	}
}

func validShipping() models.ShippingDetails {
	return models.ShippingDetails{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+1 (555) 123-4567",
		Address:   "12 Analytical Row",
		City:      "London",
		State:     "LDN",
		ZipCode:   "10001",
	}
}

func validPayment() models.PaymentDetails {
	return models.PaymentDetails{
		CardNumber: "4242 4242 4242 4242",
		CardHolder: "Ada Lovelace",
		ExpiryDate: "12/30",
		CVV:        "123",
	}
}

func (f *checkoutFixture) toReview(t *testing.T) {
	t.Helper()
	require.NoError(t, f.checkout.UpdateShipping(validShipping()))
	_, err := f.checkout.Next(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.checkout.UpdatePayment(validPayment()))
	_, err = f.checkout.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, StepReview, f.checkout.Step())
}

func TestCheckout_ShippingValidation(t *testing.T) {
	f := newCheckoutFixture()

	shipping := validShipping()
	shipping.City = ""
	require.NoError(t, f.checkout.UpdateShipping(shipping))

	state, err := f.checkout.Next(context.Background())
	require.Error(t, err)

	verr, ok := IsValidationError(err)
	require.True(t, ok)
	assert.NotEmpty(t, verr.Fields)
	assert.Contains(t, verr.Fields, "city")
	assert.Equal(t, StepShipping, state.Step)
	assert.Equal(t, StepShipping, f.checkout.Step())
}

func TestCheckout_DefaultsCountry(t *testing.T) {
	f := newCheckoutFixture()
	assert.Equal(t, "US", f.checkout.State().Shipping.Country)

	require.NoError(t, f.checkout.UpdateShipping(validShipping()))
	assert.Equal(t, "US", f.checkout.State().Shipping.Country)
}

func TestCheckout_PaymentValidation(t *testing.T) {
	f := newCheckoutFixture()
	require.NoError(t, f.checkout.UpdateShipping(validShipping()))
	_, err := f.checkout.Next(context.Background())
	require.NoError(t, err)

	payment := validPayment()
	payment.CardNumber = "4242"
	payment.CVV = "1"
	require.NoError(t, f.checkout.UpdatePayment(payment))

	_, err = f.checkout.Next(context.Background())
	verr, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Please enter a valid card number", verr.Fields["card_number"])
	assert.Equal(t, "Please enter a valid CVV", verr.Fields["cvv"])
	assert.Equal(t, StepPayment, f.checkout.Step())
}

func TestCheckout_BackAndReset(t *testing.T) {
	f := newCheckoutFixture()

	assert.Equal(t, StepShipping, f.checkout.Back().Step)

	f.toReview(t)
	assert.Equal(t, StepPayment, f.checkout.Back().Step)
	assert.Equal(t, StepShipping, f.checkout.Back().Step)

	state, err := f.checkout.Reset()
	require.NoError(t, err)
	assert.Equal(t, StepShipping, state.Step)
	assert.Empty(t, state.Shipping.FirstName)
	assert.Equal(t, "US", state.Shipping.Country)
}

func TestCheckout_StateMasksCard(t *testing.T) {
	f := newCheckoutFixture()
	require.NoError(t, f.checkout.UpdatePayment(validPayment()))

	state := f.checkout.State()
	assert.Equal(t, "************4242", state.Payment.CardNumber)
	assert.Equal(t, "***", state.Payment.CVV)
}

func TestCheckout_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	require.NoError(t, f.cart.Add(ctx, product(1, "Backpack", "20"), 3))
	f.toReview(t)

	state, err := f.checkout.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepConfirmed, state.Step)

	assert.True(t, f.cart.IsEmpty())
	assert.True(t, f.cart.Total().IsZero())

	confirmation, ok := f.checkout.Confirmation()
	require.True(t, ok)
	assert.True(t, confirmation.Success)
	assert.True(t, strings.HasPrefix(confirmation.OrderID, "ORD-"))
	assert.True(t, strings.HasPrefix(confirmation.TransactionID, "TXN-"))
	assert.Equal(t, "64.80", confirmation.Amount.StringFixed(2))
	assert.Equal(t, "64.80", confirmation.Totals.Total.StringFixed(2))
	require.Len(t, confirmation.Items, 1)
	assert.Equal(t, "Ada", confirmation.Shipping.FirstName)

	// confirmed state keeps showing the order, not the now empty cart
	assert.Len(t, state.Items, 1)

	active := f.notifier.Active()
	require.NotEmpty(t, active)
	last := active[len(active)-1]
	assert.Equal(t, models.SeveritySuccess, last.Severity)
	assert.Equal(t, "Order placed successfully! Order ID: "+confirmation.OrderID, last.Message)

	assert.ErrorIs(t, f.checkout.UpdateShipping(validShipping()), ErrInvalidStep)
	assert.Equal(t, StepConfirmed, f.checkout.Back().Step)
}

func TestCheckout_PlaceOrderFailure(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	require.NoError(t, f.cart.Add(ctx, product(1, "Backpack", "20"), 1))
	f.toReview(t)
	f.faults.Set(true)

	state, err := f.checkout.Next(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSimulatedFailure))
	assert.Equal(t, StepReview, state.Step)
	assert.Equal(t, "Payment processing failed. Please try again.", state.Error)
	assert.False(t, state.Placing)
	assert.False(t, f.cart.IsEmpty())

	f.faults.Set(false)
	state, err = f.checkout.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepConfirmed, state.Step)
	assert.Empty(t, state.Error)
}

func TestCheckout_PlaceOrderWhilePaying(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	paying := make(chan struct{})
	release := make(chan struct{})
	sleep := func(ctx context.Context, d time.Duration) error {
		close(paying)
		<-release
		return nil
	}
	payments := NewSimulatedPayment(2*time.Second, sleep, f.faults, f.clock.Now, nil)
	f.checkout = NewCheckoutService(f.cart, f.notifier, payments, NewFormValidator(), nil)

	require.NoError(t, f.cart.Add(ctx, product(1, "Backpack", "20"), 2))
	f.toReview(t)

	done := make(chan error, 1)
	go func() {
		_, err := f.checkout.PlaceOrder(ctx)
		done <- err
	}()
	<-paying

	require.NoError(t, f.cart.Add(ctx, product(1, "Backpack", "20"), 1))
	require.NoError(t, f.cart.Add(ctx, product(2, "Scarf", "8"), 1))

	state, err := f.checkout.Reset()
	assert.ErrorIs(t, err, ErrCheckoutInProgress)
	assert.True(t, state.Placing)
	assert.Equal(t, StepReview, f.checkout.Back().Step)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StepConfirmed, f.checkout.Step())

	confirmation, ok := f.checkout.Confirmation()
	require.True(t, ok)
	require.Len(t, confirmation.Items, 1)
	assert.Equal(t, 2, confirmation.Items[0].Quantity)

	items := f.cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 2, items[1].ProductID)
	assert.Equal(t, 1, items[1].Quantity)

	_, err = f.checkout.Reset()
	assert.NoError(t, err)
}

func TestCheckout_PlaceOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	f.toReview(t)

	_, err := f.checkout.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StepReview, f.checkout.Step())
}

func TestCheckout_PlaceOrderWrongStep(t *testing.T) {
	f := newCheckoutFixture()
	_, err := f.checkout.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestCheckoutStep_MarshalJSON(t *testing.T) {
	raw, err := StepReview.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"review"`, string(raw))
}
