// AngelaMos | 2026
// payment.go

package order

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrPaymentDeclined = errors.New("payment declined")

// PaymentGateway authorizes a charge and returns a transaction
// reference. The real marketplace has no processor behind it; the
// simulated gateway stands in for one, delay and failure rate included.
type PaymentGateway interface {
	Charge(ctx context.Context, buyerID string, amount int64) (string, error)
}

type simulatedGateway struct {
	successRate float64
	delay       time.Duration
	roll        func() float64
}

func NewSimulatedGateway(successRate float64, delay time.Duration) PaymentGateway {
	return &simulatedGateway{
		successRate: successRate,
		delay:       delay,
		roll:        rand.Float64,
	}
}

func (g *simulatedGateway) Charge(
	ctx context.Context,
	buyerID string,
	amount int64,
) (string, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("payment interrupted: %w", ctx.Err())
		case <-timer.C:
		}
	}

	if g.roll() >= g.successRate {
		return "", ErrPaymentDeclined
	}

	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "TXN-" + strings.ToUpper(raw[:12]), nil
}
