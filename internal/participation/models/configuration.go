package models

import (
	"edureward/internal/identity"
)

// TokenRef is an opaque handle to the reward token on the external ledger.
type TokenRef string

// Configuration is the registry singleton.
//
// Invariants:
//   - Admin is set by Initialize and never changed by other operations
//   - RewardAmount applies to new participations only
//   - TotalParticipants and TotalRewardsDistributed never decrease
//   - the participant index is append-only; entries outlive evicted records
type Configuration struct {
	Admin                   identity.Address `json:"admin"`
	TokenRef                TokenRef         `json:"token_service_ref"`
	RewardAmount            Amount           `json:"reward_amount"`
	ExpiryWindow            ExpiryWindow     `json:"expiry_days"`
	TotalParticipants       uint64           `json:"total_participants"`
	TotalRewardsDistributed Amount           `json:"total_rewards_distributed"`
}

// NewConfiguration builds a freshly initialized registry configuration with zeroed totals.
func NewConfiguration(admin identity.Address, token TokenRef, reward Amount, window ExpiryWindow) *Configuration {
	return &Configuration{
		Admin:                   admin,
		TokenRef:                token,
		RewardAmount:            reward,
		ExpiryWindow:            window,
		TotalParticipants:       0,
		TotalRewardsDistributed: NewAmount(0),
	}
}

// IsAdmin reports whether who is the registry administrator.
func (c *Configuration) IsAdmin(who identity.Address) bool {
	return !who.IsNil() && c.Admin == who
}

// Totals are the running registry counters.
type Totals struct {
	Participants       uint64 `json:"total_participants"`
	RewardsDistributed Amount `json:"total_rewards_distributed"`
}
