package memory

import (
	"context"
	"fmt"
	"sync"

	"edureward/internal/identity"
	"edureward/internal/participation/models"
	"edureward/pkg/platform/sentinel"
)

// ConfigStore is the always-resident Configuration tier: the registry
// singleton plus the append-only participant index.
type ConfigStore struct {
	tx    *Tx
	mu    sync.RWMutex
	cfg   *models.Configuration
	index []identity.Address
}

// NewConfigStore returns a store whose operations are isolated by tx.
func NewConfigStore(tx *Tx) *ConfigStore {
	return &ConfigStore{tx: tx}
}

func (s *ConfigStore) Load(ctx context.Context) (*models.Configuration, error) {
	defer s.tx.enter(ctx, false)()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg == nil {
		return nil, fmt.Errorf("configuration: %w", sentinel.ErrNotFound)
	}
	cfg := *s.cfg
	return &cfg, nil
}

// Save overwrites the configuration and empties the participant index.
func (s *ConfigStore) Save(ctx context.Context, cfg *models.Configuration) error {
	defer s.tx.enter(ctx, true)()
	s.mu.Lock()
	defer s.mu.Unlock()
	prevCfg, prevIndex := s.cfg, s.index
	next := *cfg
	s.cfg = &next
	s.index = nil
	onRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cfg, s.index = prevCfg, prevIndex
	})
	return nil
}

func (s *ConfigStore) UpdateRewardAmount(ctx context.Context, amount models.Amount) error {
	defer s.tx.enter(ctx, true)()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return fmt.Errorf("configuration: %w", sentinel.ErrNotFound)
	}
	prev := s.cfg.RewardAmount
	s.cfg.RewardAmount = amount
	onRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cfg.RewardAmount = prev
	})
	return nil
}

// RecordParticipation appends to the index and bumps both running totals. A
// total outside the 128-bit range fails with sentinel.ErrInvalidState.
func (s *ConfigStore) RecordParticipation(ctx context.Context, participant identity.Address, reward models.Amount) error {
	defer s.tx.enter(ctx, true)()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return fmt.Errorf("configuration: %w", sentinel.ErrNotFound)
	}
	total, err := s.cfg.TotalRewardsDistributed.Add(reward)
	if err != nil {
		return fmt.Errorf("total rewards distributed out of range: %w", sentinel.ErrInvalidState)
	}
	prevTotal, prevCount, prevLen := s.cfg.TotalRewardsDistributed, s.cfg.TotalParticipants, len(s.index)
	s.index = append(s.index, participant)
	s.cfg.TotalParticipants++
	s.cfg.TotalRewardsDistributed = total
	onRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.index = s.index[:prevLen]
		s.cfg.TotalParticipants = prevCount
		s.cfg.TotalRewardsDistributed = prevTotal
	})
	return nil
}

// ListParticipants returns the index in insertion order.
func (s *ConfigStore) ListParticipants(ctx context.Context) ([]identity.Address, error) {
	defer s.tx.enter(ctx, false)()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]identity.Address{}, s.index...), nil
}
