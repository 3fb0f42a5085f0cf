package service

import (
	"context"

	"edureward/pkg/attrs"
	audit "edureward/pkg/platform/audit"
	"edureward/pkg/requestcontext"
)

// logAudit writes the audit log line and forwards the event to the publisher.
// Publisher failures are logged; they never fail the operation.
func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	s.logger.InfoContext(ctx, string(event), args...)

	if s.auditPublisher == nil {
		return
	}
	e := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Subject:   attrs.ExtractString(attributes, "subject"),
		Action:    string(event),
		ActorID:   attrs.ExtractString(attributes, "actor"),
		RequestID: requestID,
		Amount:    attrs.ExtractString(attributes, "amount"),
	}
	if n, ok := attrs.ExtractUint(attributes, "count"); ok {
		e.Count = n
	}
	if err := s.auditPublisher.Emit(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event",
			"event", string(event),
			"error", err,
		)
	}
}
