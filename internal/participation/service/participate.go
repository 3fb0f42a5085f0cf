package service

import (
	"context"
	"errors"
	"math/big"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"edureward/internal/identity"
	"edureward/internal/ledger"
	"edureward/internal/participation/metrics"
	"edureward/internal/participation/models"
	dErrors "edureward/pkg/domain-errors"
	audit "edureward/pkg/platform/audit"
	"edureward/pkg/platform/sentinel"
)

// Participate records participant's one-time participation and pays the
// configured reward. Preconditions are checked in order: the capability must
// prove control of participant, the comment must be non-blank, and no record
// may exist for participant. The transfer runs before any write; the record,
// index entry and both counters then commit together on a context detached
// from the caller's cancellation.
func (s *Service) Participate(ctx context.Context, capability identity.Capability, participant identity.Address, comment string) (rec *models.ParticipationRecord, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "participate")
	span.SetAttributes(attribute.String("participant", participant.String()))
	defer func() {
		endSpan(span, err)
		s.observeParticipate(start)
	}()

	if err := identity.Authorize(capability, participant); err != nil {
		s.incrementRejection(metrics.ReasonNotAuthorized)
		return nil, err
	}
	if err := models.ValidateComment(comment); err != nil {
		s.incrementRejection(metrics.ReasonInvalidComment)
		return nil, err
	}

	unlock, err := s.lock(ctx, participant)
	if err != nil {
		return nil, err
	}
	defer unlock()

	cfg, err := s.loadConfig(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotInitialized) {
			s.incrementRejection(metrics.ReasonNotInitialized)
		}
		return nil, err
	}

	_, err = s.records.Find(ctx, participant)
	switch {
	case err == nil:
		s.incrementRejection(metrics.ReasonAlreadyParticipated)
		return nil, models.ErrAlreadyParticipated
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing participation")
	}

	rec, err = models.NewParticipationRecord(participant, comment, cfg.RewardAmount, cfg.ExpiryWindow, s.now(ctx))
	if err != nil {
		return nil, err
	}
	// The running total must still fit once this reward is added; check before value moves.
	if _, err := cfg.TotalRewardsDistributed.Add(rec.RewardAmount); err != nil {
		return nil, err
	}

	transfer := ledger.TransferRequest{
		Token:     cfg.TokenRef,
		From:      s.poolAccount,
		To:        participant,
		Amount:    rec.RewardAmount,
		Reference: transferReference(participant, rec.Timestamp),
	}
	if err := s.transferer.Transfer(ctx, transfer); err != nil {
		s.incrementTransferFailure()
		s.logger.WarnContext(ctx, "reward transfer failed",
			"participant", participant,
			"amount", rec.RewardAmount.String(),
			"reference", transfer.Reference,
			"error", err,
		)
		return nil, models.TransferFailed(err)
	}

	// Value has moved; a cancelled request must not abandon the bookkeeping.
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()
	err = s.tx.RunInTx(commitCtx, func(ctx context.Context) error {
		if err := s.records.Create(ctx, rec); err != nil {
			return err
		}
		return s.configs.RecordParticipation(ctx, participant, rec.RewardAmount)
	})
	if err != nil {
		// Value has moved but bookkeeping did not commit. The transfer reference
		// lets operators reconcile against the ledger.
		s.logger.ErrorContext(ctx, "CRITICAL: reward transferred but participation not committed",
			"participant", participant,
			"amount", rec.RewardAmount.String(),
			"reference", transfer.Reference,
			"error", err,
		)
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, models.ErrAlreadyParticipated
		}
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "total rewards distributed would overflow")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record participation")
	}

	s.incrementParticipation(rec.RewardAmount)
	s.logAudit(ctx, audit.EventParticipationRecorded,
		"subject", participant,
		"actor", capability.Holder(),
		"amount", rec.RewardAmount,
		"expiry", uint64(rec.Expiry),
		"reference", transfer.Reference,
	)
	return rec, nil
}

func (s *Service) observeParticipate(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveParticipate(start)
	}
}

func (s *Service) incrementRejection(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementRejection(reason)
	}
}

func (s *Service) incrementTransferFailure() {
	if s.metrics != nil {
		s.metrics.IncrementTransferFailure()
	}
}

func (s *Service) incrementParticipation(reward models.Amount) {
	if s.metrics == nil {
		return
	}
	f, _ := new(big.Float).SetInt(reward.BigInt()).Float64()
	s.metrics.IncrementParticipation(f)
}
