// Package handler exposes the participation registry over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"edureward/internal/identity"
	"edureward/internal/participation/models"
	"edureward/internal/participation/service"
	dErrors "edureward/pkg/domain-errors"
	"edureward/pkg/platform/httputil"
	"edureward/pkg/platform/middleware/auth"
	"edureward/pkg/requestcontext"
)

const maxBodyBytes = 64 << 10

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service is the participation registry as seen by the transport.
type Service interface {
	Initialize(ctx context.Context, capability identity.Capability, req service.InitializeRequest) (*models.Configuration, error)
	Participate(ctx context.Context, capability identity.Capability, participant identity.Address, comment string) (*models.ParticipationRecord, error)
	UpdateRewardAmount(ctx context.Context, capability identity.Capability, caller identity.Address, amount models.Amount) error
	CleanupExpiredTokens(ctx context.Context, capability identity.Capability, caller identity.Address) (int, error)
	GetParticipation(ctx context.Context, participant identity.Address) (*models.ParticipationRecord, bool, error)
	GetParticipants(ctx context.Context) ([]identity.Address, error)
	GetTotals(ctx context.Context) (models.Totals, error)
	IsTokenExpired(ctx context.Context, participant identity.Address) (bool, error)
	GetConfiguration(ctx context.Context) (*models.Configuration, bool, error)
}

// Handler serves the /v1 registry routes.
type Handler struct {
	svc      Service
	verifier identity.Verifier
	logger   *slog.Logger
}

// New creates a Handler. Mutating routes require a bearer token checked by verifier.
func New(svc Service, verifier identity.Verifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, verifier: verifier, logger: logger}
}

// Register mounts the routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/registry", h.handleGetConfiguration)
		r.Get("/participations/{address}", h.handleGetParticipation)
		r.Get("/participations/{address}/expired", h.handleIsExpired)
		r.Get("/participants", h.handleGetParticipants)
		r.Get("/stats", h.handleGetTotals)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(h.verifier, h.logger))
			r.Post("/registry", h.handleInitialize)
			r.Put("/registry/reward-amount", h.handleUpdateRewardAmount)
			r.Post("/registry/cleanup", h.handleCleanup)
			r.Post("/participations", h.handleParticipate)
		})
	})
}

func (h *Handler) handleInitialize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	capability := requestcontext.Capability(ctx)

	var req InitializeRequest
	if !h.decode(w, r, &req) {
		return
	}
	admin, ok := h.addressOrHolder(w, r, req.Admin, capability)
	if !ok {
		return
	}

	cfg, err := h.svc.Initialize(ctx, capability, service.InitializeRequest{
		Admin:        admin,
		TokenRef:     models.TokenRef(req.TokenRef),
		RewardAmount: req.RewardAmount,
		ExpiryDays:   req.ExpiryDays,
	})
	if err != nil {
		h.writeError(w, r, "initialize registry", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toConfigurationResponse(cfg))
}

func (h *Handler) handleParticipate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	capability := requestcontext.Capability(ctx)

	var req ParticipateRequest
	if !h.decode(w, r, &req) {
		return
	}
	participant, ok := h.addressOrHolder(w, r, req.Participant, capability)
	if !ok {
		return
	}

	rec, err := h.svc.Participate(ctx, capability, participant, req.Comment)
	if err != nil {
		h.writeError(w, r, "participate", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleUpdateRewardAmount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	capability := requestcontext.Capability(ctx)

	var req UpdateRewardAmountRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.UpdateRewardAmount(ctx, capability, capability.Holder(), req.RewardAmount); err != nil {
		h.writeError(w, r, "update reward amount", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCleanup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	capability := requestcontext.Capability(ctx)

	removed, err := h.svc.CleanupExpiredTokens(ctx, capability, capability.Holder())
	if err != nil {
		h.writeError(w, r, "cleanup expired tokens", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CleanupResponse{Removed: removed})
}

func (h *Handler) handleGetConfiguration(w http.ResponseWriter, r *http.Request) {
	cfg, found, err := h.svc.GetConfiguration(r.Context())
	if err != nil {
		h.writeError(w, r, "get configuration", err)
		return
	}
	if !found {
		httputil.WriteError(w, models.ErrNotInitialized)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toConfigurationResponse(cfg))
}

func (h *Handler) handleGetParticipation(w http.ResponseWriter, r *http.Request) {
	participant, ok := h.pathAddress(w, r)
	if !ok {
		return
	}
	rec, found, err := h.svc.GetParticipation(r.Context(), participant)
	if err != nil {
		h.writeError(w, r, "get participation", err)
		return
	}
	if !found {
		httputil.WriteError(w, models.ErrParticipationNotFound)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleIsExpired(w http.ResponseWriter, r *http.Request) {
	participant, ok := h.pathAddress(w, r)
	if !ok {
		return
	}
	expired, err := h.svc.IsTokenExpired(r.Context(), participant)
	if err != nil {
		h.writeError(w, r, "check token expiry", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ExpiredResponse{Participant: participant, Expired: expired})
}

func (h *Handler) handleGetParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.svc.GetParticipants(r.Context())
	if err != nil {
		h.writeError(w, r, "list participants", err)
		return
	}
	if participants == nil {
		participants = []identity.Address{}
	}
	httputil.WriteJSON(w, http.StatusOK, ParticipantsResponse{Participants: participants})
}

func (h *Handler) handleGetTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.GetTotals(r.Context())
	if err != nil {
		h.writeError(w, r, "get totals", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, totals)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "invalid request body",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		// amount parse failures already carry a caller-safe message
		if de, ok := dErrors.From(err); ok {
			httputil.WriteError(w, de)
			return false
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

func (h *Handler) addressOrHolder(w http.ResponseWriter, r *http.Request, raw string, capability identity.Capability) (identity.Address, bool) {
	if raw == "" {
		return capability.Holder(), true
	}
	addr, err := identity.ParseAddress(raw)
	if err != nil {
		h.writeError(w, r, "parse address", err)
		return "", false
	}
	return addr, true
}

func (h *Handler) pathAddress(w http.ResponseWriter, r *http.Request) (identity.Address, bool) {
	addr, err := identity.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		h.writeError(w, r, "parse address", err)
		return "", false
	}
	return addr, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	level := slog.LevelWarn
	if de, ok := dErrors.From(err); !ok || de.Code == dErrors.CodeInternal || de.Code == dErrors.CodeDependencyFailed {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, op+" failed",
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}
