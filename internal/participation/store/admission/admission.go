// Package admission serializes reward admission per participant so the
// check, transfer and commit of one identity never interleave.
package admission

import (
	"context"

	"edureward/internal/identity"
)

// ReleaseFunc gives up a held admission slot.
type ReleaseFunc func(ctx context.Context) error

func keyFor(participant identity.Address) string {
	return "edureward:admission:" + participant.String()
}
