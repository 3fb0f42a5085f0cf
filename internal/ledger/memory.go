package ledger

import (
	"context"
	"fmt"
	"sync"

	"edureward/internal/identity"
	"edureward/internal/participation/models"
)

type accountKey struct {
	token   models.TokenRef
	address identity.Address
}

// InMemory is a pooled-balance ledger for development and tests.
type InMemory struct {
	mu        sync.Mutex
	balances  map[accountKey]models.Amount
	processed map[string]TransferRequest
}

func NewInMemory() *InMemory {
	return &InMemory{
		balances:  make(map[accountKey]models.Amount),
		processed: make(map[string]TransferRequest),
	}
}

// Mint credits amount of token to an account.
func (l *InMemory) Mint(token models.TokenRef, to identity.Address, amount models.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := accountKey{token: token, address: to}
	next, err := l.balances[key].Add(amount)
	if err != nil {
		return fmt.Errorf("mint: %w", err)
	}
	l.balances[key] = next
	return nil
}

// Balance returns the account balance of token.
func (l *InMemory) Balance(token models.TokenRef, address identity.Address) models.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[accountKey{token: token, address: address}]
}

// Transfers returns the number of distinct transfers applied.
func (l *InMemory) Transfers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.processed)
}

func (l *InMemory) Transfer(ctx context.Context, req TransferRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if req.Reference != "" {
		if _, seen := l.processed[req.Reference]; seen {
			return nil
		}
	}

	fromKey := accountKey{token: req.Token, address: req.From}
	toKey := accountKey{token: req.Token, address: req.To}
	from := l.balances[fromKey]
	if from.Cmp(req.Amount) < 0 {
		return fmt.Errorf("transfer %s from %s: %w", req.Amount, req.From, ErrInsufficientBalance)
	}
	credited, err := l.balances[toKey].Add(req.Amount)
	if err != nil {
		return fmt.Errorf("credit %s: %w", req.To, err)
	}
	debited, err := from.Sub(req.Amount)
	if err != nil {
		return fmt.Errorf("debit %s: %w", req.From, err)
	}
	l.balances[fromKey] = debited
	l.balances[toKey] = credited
	if req.Reference != "" {
		l.processed[req.Reference] = req
	} else {
		l.processed[fmt.Sprintf("anonymous-%d", len(l.processed))] = req
	}
	return nil
}
