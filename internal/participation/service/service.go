// Package service is the participation engine: admission, reward transfer and
// the single commit that follows it, plus the admin configuration path, the
// read-side queries and the expiry sweeper.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"edureward/internal/identity"
	"edureward/internal/ledger"
	"edureward/internal/participation/metrics"
	"edureward/internal/participation/models"
	"edureward/internal/participation/store/admission"
	dErrors "edureward/pkg/domain-errors"
	audit "edureward/pkg/platform/audit"
	"edureward/pkg/platform/sentinel"
	"edureward/pkg/requestcontext"
)

const (
	defaultPoolAccount identity.Address = "edureward-pool"
	defaultSweepBatch                   = 500
	tracerName                          = "edureward/participation"

	// commitTimeout bounds the bookkeeping commit after value has moved.
	commitTimeout = 5 * time.Second
)

// ConfigStore is the always-resident Configuration tier.
type ConfigStore interface {
	Load(ctx context.Context) (*models.Configuration, error)
	Save(ctx context.Context, cfg *models.Configuration) error
	UpdateRewardAmount(ctx context.Context, amount models.Amount) error
	RecordParticipation(ctx context.Context, participant identity.Address, reward models.Amount) error
	ListParticipants(ctx context.Context) ([]identity.Address, error)
}

// RecordStore is the keyed Record tier.
type RecordStore interface {
	Find(ctx context.Context, participant identity.Address) (*models.ParticipationRecord, error)
	FindMany(ctx context.Context, participants []identity.Address) (map[identity.Address]*models.ParticipationRecord, error)
	Create(ctx context.Context, record *models.ParticipationRecord) error
	Delete(ctx context.Context, participant identity.Address) error
}

// StoreTx groups store writes into one commit.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Admission serializes work on one participant's record.
type Admission interface {
	Acquire(ctx context.Context, participant identity.Address) (admission.ReleaseFunc, error)
}

// Transferer moves reward value out of the pool.
type Transferer interface {
	Transfer(ctx context.Context, req ledger.TransferRequest) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates participation against the two storage tiers.
type Service struct {
	configs    ConfigStore
	records    RecordStore
	tx         StoreTx
	transferer Transferer

	admission      Admission
	poolAccount    identity.Address
	sweepBatch     int
	clock          func() time.Time
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAdmission replaces the process-local admission lock, e.g. with Redis
// when several replicas share one database.
func WithAdmission(a Admission) Option {
	return func(s *Service) {
		if a != nil {
			s.admission = a
		}
	}
}

// WithPoolAccount sets the ledger account rewards are paid from.
func WithPoolAccount(account identity.Address) Option {
	return func(s *Service) {
		if !account.IsNil() {
			s.poolAccount = account
		}
	}
}

// WithClock overrides the request-scoped time. Intended for tests and tools.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func WithSweepBatch(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sweepBatch = n
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// New constructs a Service. Stores, transaction runner and transferer are required.
func New(configs ConfigStore, records RecordStore, tx StoreTx, transferer Transferer, opts ...Option) (*Service, error) {
	if configs == nil {
		return nil, errors.New("config store is required")
	}
	if records == nil {
		return nil, errors.New("record store is required")
	}
	if tx == nil {
		return nil, errors.New("store transaction runner is required")
	}
	if transferer == nil {
		return nil, errors.New("transferer is required")
	}

	s := &Service{
		configs:     configs,
		records:     records,
		tx:          tx,
		transferer:  transferer,
		admission:   admission.NewInMemory(),
		poolAccount: defaultPoolAccount,
		sweepBatch:  defaultSweepBatch,
		logger:      slog.Default(),
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) now(ctx context.Context) models.Timestamp {
	if s.clock != nil {
		return models.TimestampFrom(s.clock())
	}
	return models.TimestampFrom(requestcontext.Now(ctx))
}

// loadConfig maps a missing singleton to ErrNotInitialized.
func (s *Service) loadConfig(ctx context.Context) (*models.Configuration, error) {
	cfg, err := s.configs.Load(ctx)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, models.ErrNotInitialized
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load configuration")
	}
	return cfg, nil
}

// lock acquires the participant's admission slot. The release runs on a
// detached context so a cancelled request still frees the slot.
func (s *Service) lock(ctx context.Context, participant identity.Address) (func(), error) {
	release, err := s.admission.Acquire(ctx, participant)
	if err != nil {
		if ctx.Err() != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "timed out waiting for participant lock")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to acquire participant lock")
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := release(releaseCtx); err != nil {
			s.logger.WarnContext(ctx, "failed to release participant lock",
				"participant", participant,
				"error", err,
			)
		}
	}, nil
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "participation."+name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// transferReference identifies one participation's payout. A participant may
// return after eviction, so the admission timestamp is part of the key.
func transferReference(participant identity.Address, at models.Timestamp) string {
	return fmt.Sprintf("participation:%s:%d", participant, uint64(at))
}
