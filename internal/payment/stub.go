package payment

import (
	"context"

	"github.com/google/uuid"
)

// Ensure StubGateway implements Gateway
var _ Gateway = (*StubGateway)(nil)

// StubGateway is a local Gateway implementation that approves every
// charge and issues a fresh opaque payer token. It stands in for the
// hosted card-tokenization SDK in development and tests; a failure to
// inject can be set to exercise error paths.
type StubGateway struct {
	// Fail, when non-nil, is returned for every charge instead of a
	// receipt.
	Fail error
}

// Charge approves the amount and returns a receipt, unless Fail is set.
func (g *StubGateway) Charge(ctx context.Context, amount float64) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrUserCancelled
	}
	if g.Fail != nil {
		return nil, g.Fail
	}
	return &Receipt{
		PayerToken: uuid.New().String(),
		Amount:     amount,
	}, nil
}
