package identity

import (
	dErrors "edureward/pkg/domain-errors"
)

// ErrNotAuthorized is returned by the gate when the capability does not prove
// control of the identity an operation acts for.
var ErrNotAuthorized = dErrors.New(dErrors.CodeForbidden, "not authorized")

// Capability proves that its bearer controls an Address. Values are only
// minted by a Verifier after checking a signed token; the zero value proves nothing.
type Capability struct {
	holder  Address
	tokenID string
}

// Holder returns the identity the capability was issued for.
func (c Capability) Holder() Address {
	return c.holder
}

// TokenID returns the id of the token the capability was verified from.
func (c Capability) TokenID() string {
	return c.tokenID
}

// IsZero reports whether the capability is empty.
func (c Capability) IsZero() bool {
	return c.holder.IsNil()
}

// Authorize is the authorization gate. It must run before any state mutation
// made on behalf of who.
func Authorize(c Capability, who Address) error {
	if c.IsZero() || who.IsNil() || c.holder != who {
		return ErrNotAuthorized
	}
	return nil
}
