// Package payment defines the payment gateway boundary and the platform
// fee arithmetic. The concrete card-tokenization SDK lives behind the
// Gateway interface; the core only ever consumes its pass/fail outcome.
package payment

import (
	"context"
	"errors"
	"math"
)

// FeeRate is the platform fee applied on top of every ticket price.
const FeeRate = 0.03

var (
	// ErrDeclined means the card processor refused the charge.
	ErrDeclined = errors.New("payment declined")

	// ErrUserCancelled means the user abandoned the payment flow before
	// completion. No partial state is committed.
	ErrUserCancelled = errors.New("payment cancelled by user")

	// ErrGatewayUnavailable means the processor could not be reached.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// Receipt is the outcome of a successful charge. PayerToken is opaque;
// the core only uses it as evidence that the charge succeeded.
type Receipt struct {
	PayerToken string
	Amount     float64
}

// Gateway is the boundary to the external card processor. Any error
// return is terminal for the purchase attempt and must never lead to an
// entry being recorded.
type Gateway interface {
	Charge(ctx context.Context, amount float64) (*Receipt, error)
}

// ChargeAmount returns the full amount charged for one ticket: the
// ticket price plus the platform fee, computed once and not compounded.
func ChargeAmount(ticketPrice float64) float64 {
	return ticketPrice * (1 + FeeRate)
}

// RoundForDisplay rounds an amount to 2 decimal places. Rounding is for
// presentation only; internal arithmetic keeps full precision.
func RoundForDisplay(amount float64) float64 {
	return math.Round(amount*100) / 100
}
