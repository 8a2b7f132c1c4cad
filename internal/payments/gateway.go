package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Charge is the gateway's view of one processed payment.
type Charge struct {
	PaymentID string
	Amount    float64
	Status    string // "completed" | "pending" | "refunded"
	ChargedAt time.Time
}

// Gateway processes review-request payments. The platform currently ships
// only the simulated implementation; a real processor integration replaces
// this at the main.go wiring, nowhere else.
type Gateway interface {
	CreateCharge(ctx context.Context, amount float64, customerEmail, description string) (*Charge, error)
	Refund(ctx context.Context, paymentID string) error
}

// SimulatedGateway approves every charge immediately. It exists so the
// request flow is complete end to end without a processor account.
type SimulatedGateway struct{}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) CreateCharge(ctx context.Context, amount float64, customerEmail, description string) (*Charge, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid charge amount: %.2f", amount)
	}
	ref := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:16]
	return &Charge{
		PaymentID: "SIM-" + ref,
		Amount:    amount,
		Status:    "completed",
		ChargedAt: time.Now(),
	}, nil
}

func (g *SimulatedGateway) Refund(ctx context.Context, paymentID string) error {
	if !strings.HasPrefix(paymentID, "SIM-") {
		return fmt.Errorf("unknown payment id: %s", paymentID)
	}
	return nil
}
