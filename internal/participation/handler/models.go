package handler

import (
	"edureward/internal/identity"
	"edureward/internal/participation/models"
)

// InitializeRequest is the body of POST /v1/registry. Admin defaults to the
// token holder.
type InitializeRequest struct {
	Admin        string        `json:"admin,omitempty"`
	TokenRef     string        `json:"token_service_ref"`
	RewardAmount models.Amount `json:"reward_amount"`
	ExpiryDays   uint64        `json:"expiry_days"`
}

// ParticipateRequest is the body of POST /v1/participations. Participant
// defaults to the token holder.
type ParticipateRequest struct {
	Participant string `json:"participant,omitempty"`
	Comment     string `json:"comment"`
}

// UpdateRewardAmountRequest is the body of PUT /v1/registry/reward-amount.
type UpdateRewardAmountRequest struct {
	RewardAmount models.Amount `json:"reward_amount"`
}

// ConfigurationResponse mirrors models.Configuration with the expiry window
// also reported in seconds.
type ConfigurationResponse struct {
	Admin                   identity.Address    `json:"admin"`
	TokenRef                models.TokenRef     `json:"token_service_ref"`
	RewardAmount            models.Amount       `json:"reward_amount"`
	ExpiryDays              models.ExpiryWindow `json:"expiry_days"`
	ExpirySeconds           uint64              `json:"expiry_seconds"`
	TotalParticipants       uint64              `json:"total_participants"`
	TotalRewardsDistributed models.Amount       `json:"total_rewards_distributed"`
}

func toConfigurationResponse(cfg *models.Configuration) ConfigurationResponse {
	return ConfigurationResponse{
		Admin:                   cfg.Admin,
		TokenRef:                cfg.TokenRef,
		RewardAmount:            cfg.RewardAmount,
		ExpiryDays:              cfg.ExpiryWindow,
		ExpirySeconds:           cfg.ExpiryWindow.Seconds(),
		TotalParticipants:       cfg.TotalParticipants,
		TotalRewardsDistributed: cfg.TotalRewardsDistributed,
	}
}

// ParticipantsResponse lists the participant index in insertion order.
type ParticipantsResponse struct {
	Participants []identity.Address `json:"participants"`
}

// ExpiredResponse answers GET /v1/participations/{address}/expired.
type ExpiredResponse struct {
	Participant identity.Address `json:"participant"`
	Expired     bool             `json:"expired"`
}

// CleanupResponse reports how many records the sweep removed.
type CleanupResponse struct {
	Removed int `json:"removed"`
}
