package service

import (
	"context"
	"errors"

	"edureward/internal/identity"
	"edureward/internal/participation/models"
	dErrors "edureward/pkg/domain-errors"
	audit "edureward/pkg/platform/audit"
	"edureward/pkg/platform/sentinel"
)

// requireAdmin runs the gate for caller and then checks caller is the stored admin.
func (s *Service) requireAdmin(ctx context.Context, capability identity.Capability, caller identity.Address) (*models.Configuration, error) {
	if err := identity.Authorize(capability, caller); err != nil {
		return nil, err
	}
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.IsAdmin(caller) {
		return nil, models.ErrNotAuthorized
	}
	return cfg, nil
}

// UpdateRewardAmount changes the payout for future participations only.
// The amount is not bounds-checked.
func (s *Service) UpdateRewardAmount(ctx context.Context, capability identity.Capability, caller identity.Address, amount models.Amount) (err error) {
	ctx, span := s.startSpan(ctx, "update_reward_amount")
	defer func() { endSpan(span, err) }()

	cfg, err := s.requireAdmin(ctx, capability, caller)
	if err != nil {
		return err
	}
	if err := s.configs.UpdateRewardAmount(ctx, amount); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.ErrNotInitialized
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update reward amount")
	}

	s.logAudit(ctx, audit.EventRewardAmountUpdated,
		"subject", caller,
		"actor", capability.Holder(),
		"amount", amount,
		"previous_amount", cfg.RewardAmount.String(),
	)
	return nil
}
