package models

import (
	"edureward/internal/identity"
	dErrors "edureward/pkg/domain-errors"
)

const msgTransferFailed = "token transfer failed"

// Participation error kinds. Every one aborts its operation before any write.
var (
	ErrAlreadyParticipated   = dErrors.New(dErrors.CodeConflict, "already participated")
	ErrInvalidComment        = dErrors.New(dErrors.CodeValidation, "comment cannot be empty")
	ErrTokenTransferFailed   = dErrors.New(dErrors.CodeDependencyFailed, msgTransferFailed)
	ErrNotAuthorized         = identity.ErrNotAuthorized
	ErrParticipationNotFound = dErrors.New(dErrors.CodeNotFound, "participation not found")
	ErrTokenExpired          = dErrors.New(dErrors.CodeExpired, "token expired")
	ErrNotInitialized        = dErrors.New(dErrors.CodeInvalidState, "registry not initialized")
)

// TransferFailed wraps a ledger failure so it matches ErrTokenTransferFailed
// under errors.Is while keeping the cause for logs.
func TransferFailed(cause error) error {
	return dErrors.Wrap(cause, dErrors.CodeDependencyFailed, msgTransferFailed)
}
