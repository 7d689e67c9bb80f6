package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentProcessor interface {
	Process(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error)
}

// SimulatedPayment stands in for a payment provider: it waits, runs basic card
// checks, consults the fault injector and returns generated ids.
type SimulatedPayment struct {
	delay  time.Duration
	sleep  Sleeper
	faults FaultInjector
	now    func() time.Time
	logger *zap.Logger
}

func NewSimulatedPayment(delay time.Duration, sleep Sleeper, faults FaultInjector, now func() time.Time, logger *zap.Logger) *SimulatedPayment {
	if sleep == nil {
		sleep = SleepContext
	}
	if faults == nil {
		faults = NoFaults{}
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulatedPayment{delay: delay, sleep: sleep, faults: faults, now: now, logger: logger}
}

func (p *SimulatedPayment) Process(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	if err := p.sleep(ctx, p.delay); err != nil {
		return nil, fmt.Errorf("payment interrupted: %w", err)
	}

	card := req.Payment
	if card.CardNumber == "" || card.ExpiryDate == "" || card.CVV == "" {
		return nil, &PaymentError{Message: "Please fill in all payment details"}
	}
	if !validCardNumber(card.CardNumber) {
		return nil, &PaymentError{Message: "Please enter a valid card number"}
	}
	if len(card.CVV) < 3 {
		return nil, &PaymentError{Message: "Please enter a valid CVV"}
	}

	if err := p.faults.Inject(ctx, OpPayment, ""); err != nil {
		p.logger.Info("payment failed by fault injection")
		return nil, err
	}

	now := p.now()
	result := &models.PaymentResult{
		Success:       true,
		OrderID:       fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), orderSuffix()),
		TransactionID: fmt.Sprintf("TXN-%d", now.UnixMilli()),
		Amount:        req.Amount,
		Timestamp:     now.UTC(),
	}

	p.logger.Info("payment processed",
		zap.String("order_id", result.OrderID),
		zap.String("amount", result.Amount.StringFixed(2)))

	return result, nil
}

func orderSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
}
