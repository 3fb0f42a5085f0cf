package service

import (
	"context"
	"errors"
	"time"

	"edureward/internal/identity"
	dErrors "edureward/pkg/domain-errors"
	audit "edureward/pkg/platform/audit"
	"edureward/pkg/platform/sentinel"
	"edureward/pkg/platform/strings"
)

// CleanupExpiredTokens evicts every record whose expiry has passed and returns
// how many were removed. It walks the participant index, not the record store,
// and never prunes the index. Each eviction re-checks expiry under the
// participant's admission lock.
func (s *Service) CleanupExpiredTokens(ctx context.Context, capability identity.Capability, caller identity.Address) (removed int, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "cleanup_expired_tokens")
	defer func() {
		endSpan(span, err)
		if s.metrics != nil {
			s.metrics.ObserveSweep(start)
			s.metrics.AddRecordsSwept(removed)
		}
	}()

	if _, err := s.requireAdmin(ctx, capability, caller); err != nil {
		return 0, err
	}

	index, err := s.configs.ListParticipants(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list participants")
	}
	now := s.now(ctx)

	for _, batch := range strings.Chunk(strings.Dedupe(index), s.sweepBatch) {
		found, err := s.records.FindMany(ctx, batch)
		if err != nil {
			return removed, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load participations")
		}
		for _, participant := range batch {
			rec, ok := found[participant]
			if !ok || !rec.IsExpired(now) {
				continue
			}
			evicted, err := s.evictIfExpired(ctx, participant)
			if err != nil {
				return removed, err
			}
			if evicted {
				removed++
			}
		}
	}

	s.logAudit(ctx, audit.EventRecordsSwept,
		"subject", caller,
		"actor", capability.Holder(),
		"count", removed,
	)
	return removed, nil
}

func (s *Service) evictIfExpired(ctx context.Context, participant identity.Address) (bool, error) {
	unlock, err := s.lock(ctx, participant)
	if err != nil {
		return false, err
	}
	defer unlock()

	rec, err := s.records.Find(ctx, participant)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load participation")
	}
	if !rec.IsExpired(s.now(ctx)) {
		return false, nil
	}
	if err := s.records.Delete(ctx, participant); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to evict participation")
	}
	return true, nil
}
