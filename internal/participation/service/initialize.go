package service

import (
	"context"

	"edureward/internal/identity"
	"edureward/internal/participation/models"
	dErrors "edureward/pkg/domain-errors"
	audit "edureward/pkg/platform/audit"
)

// InitializeRequest carries the full registry configuration.
type InitializeRequest struct {
	Admin        identity.Address
	TokenRef     models.TokenRef
	RewardAmount models.Amount
	ExpiryDays   uint64
}

// Initialize writes the configuration singleton with zeroed counters and an
// empty participant index. The caller must hold a capability for req.Admin.
// Calling it again overwrites the previous configuration; existing records are kept.
func (s *Service) Initialize(ctx context.Context, capability identity.Capability, req InitializeRequest) (cfg *models.Configuration, err error) {
	ctx, span := s.startSpan(ctx, "initialize")
	defer func() { endSpan(span, err) }()

	if err := identity.Authorize(capability, req.Admin); err != nil {
		return nil, err
	}
	if req.TokenRef == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "token service reference is required")
	}
	window, err := models.NewExpiryWindow(req.ExpiryDays)
	if err != nil {
		return nil, err
	}

	cfg = models.NewConfiguration(req.Admin, req.TokenRef, req.RewardAmount, window)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.configs.Save(ctx, cfg)
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save configuration")
	}

	s.logAudit(ctx, audit.EventRegistryInitialized,
		"subject", req.Admin,
		"actor", capability.Holder(),
		"token_ref", string(req.TokenRef),
		"amount", req.RewardAmount,
		"expiry_days", req.ExpiryDays,
	)
	return cfg, nil
}
