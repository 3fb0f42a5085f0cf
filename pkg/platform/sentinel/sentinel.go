package sentinel

import "errors"

// Sentinel errors for storage and infrastructure facts. Stores return these
// (usually wrapped with %w) and services translate them into domain errors:
//   - ErrNotFound: no entity under the requested key
//   - ErrAlreadyUsed: the key is already occupied (e.g. a participation record exists)
//   - ErrInvalidState: the entity or store cannot serve the request in its current state
//   - ErrUnavailable: a dependency is temporarily unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
