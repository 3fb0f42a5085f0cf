package service

import (
	"context"
	"errors"

	"edureward/internal/identity"
	"edureward/internal/participation/models"
	dErrors "edureward/pkg/domain-errors"
	"edureward/pkg/platform/sentinel"
)

// Queries need no capability. Before initialization they report zero values
// and absence rather than failing.

// GetParticipation returns the participant's record; found is false when none exists.
func (s *Service) GetParticipation(ctx context.Context, participant identity.Address) (rec *models.ParticipationRecord, found bool, err error) {
	rec, err = s.records.Find(ctx, participant)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load participation")
	}
	return rec, true, nil
}

// GetParticipants returns every identity that ever participated, in insertion
// order. Evicted identities stay listed.
func (s *Service) GetParticipants(ctx context.Context) ([]identity.Address, error) {
	participants, err := s.configs.ListParticipants(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list participants")
	}
	return participants, nil
}

func (s *Service) GetTotalParticipants(ctx context.Context) (uint64, error) {
	totals, err := s.GetTotals(ctx)
	if err != nil {
		return 0, err
	}
	return totals.Participants, nil
}

func (s *Service) GetTotalRewardsDistributed(ctx context.Context) (models.Amount, error) {
	totals, err := s.GetTotals(ctx)
	if err != nil {
		return models.Amount{}, err
	}
	return totals.RewardsDistributed, nil
}

// GetTotals reads both counters from one configuration snapshot.
func (s *Service) GetTotals(ctx context.Context) (models.Totals, error) {
	cfg, found, err := s.GetConfiguration(ctx)
	if err != nil || !found {
		return models.Totals{}, err
	}
	return models.Totals{
		Participants:       cfg.TotalParticipants,
		RewardsDistributed: cfg.TotalRewardsDistributed,
	}, nil
}

// IsTokenExpired is true only when a record exists and now is strictly past
// its expiry. A missing record is never expired.
func (s *Service) IsTokenExpired(ctx context.Context, participant identity.Address) (bool, error) {
	rec, found, err := s.GetParticipation(ctx, participant)
	if err != nil || !found {
		return false, err
	}
	return rec.IsExpired(s.now(ctx)), nil
}

// GetConfiguration returns the registry configuration; found is false before initialization.
func (s *Service) GetConfiguration(ctx context.Context) (*models.Configuration, bool, error) {
	cfg, err := s.loadConfig(ctx)
	if errors.Is(err, models.ErrNotInitialized) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}
