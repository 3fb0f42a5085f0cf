// Package ledger is the client side of the external token service that moves
// reward value from the registry's pooled balance to participants.
package ledger

import (
	"context"
	"errors"

	"edureward/internal/identity"
	"edureward/internal/participation/models"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("transfer amount must be positive")
	ErrUnavailable         = errors.New("ledger unavailable")
	ErrRejected            = errors.New("transfer rejected")
)

// TransferRequest moves Amount of Token from From to To.
// Reference is an idempotency key the ledger uses to deduplicate replays.
type TransferRequest struct {
	Token     models.TokenRef  `json:"token"`
	From      identity.Address `json:"from"`
	To        identity.Address `json:"to"`
	Amount    models.Amount    `json:"amount"`
	Reference string           `json:"reference"`
}

// Transferer performs a transfer. A nil error means value moved; any error
// means nothing moved from this call's point of view.
type Transferer interface {
	Transfer(ctx context.Context, req TransferRequest) error
}
