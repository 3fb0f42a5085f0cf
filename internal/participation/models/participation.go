package models

import (
	"strings"

	"edureward/internal/identity"
)

// ParticipationRecord is the one-time participation event of an identity.
//
// Invariants:
//   - at most one record exists per Participant at a time
//   - Comment is non-empty
//   - RewardAmount and Expiry are fixed at creation and never mutated
//   - Expiry == Timestamp + the expiry window in force at creation
//   - a record is removed only by the expiry sweep
type ParticipationRecord struct {
	Participant   identity.Address `json:"participant"`
	Timestamp     Timestamp        `json:"timestamp"`
	Comment       string           `json:"comment"`
	RewardAmount  Amount           `json:"reward_amount"`
	RewardClaimed bool             `json:"reward_claimed"`
	Expiry        Timestamp        `json:"expiry"`
}

// NewParticipationRecord builds a record for a participation granted at now.
// The reward is paid synchronously, so RewardClaimed is always true.
func NewParticipationRecord(
	participant identity.Address,
	comment string,
	reward Amount,
	window ExpiryWindow,
	now Timestamp,
) (*ParticipationRecord, error) {
	if err := ValidateComment(comment); err != nil {
		return nil, err
	}
	expiry, err := window.ExpiryFrom(now)
	if err != nil {
		return nil, err
	}
	return &ParticipationRecord{
		Participant:   participant,
		Timestamp:     now,
		Comment:       comment,
		RewardAmount:  reward,
		RewardClaimed: true,
		Expiry:        expiry,
	}, nil
}

// ValidateComment rejects empty and whitespace-only comments.
func ValidateComment(comment string) error {
	if strings.TrimSpace(comment) == "" {
		return ErrInvalidComment
	}
	return nil
}

// IsExpired reports whether now is strictly after the record's expiry.
func (r *ParticipationRecord) IsExpired(now Timestamp) bool {
	return now > r.Expiry
}
