// Package identity defines participant and administrator identities and the
// capability gate that proves a caller controls one.
package identity

import (
	"unicode"
	"unicode/utf8"

	dErrors "edureward/pkg/domain-errors"
)

// MaxAddressLength bounds the size of an identity handle.
const MaxAddressLength = 128

// Address is an opaque handle naming a participant or administrator.
// Construct via ParseAddress at trust boundaries; direct casting bypasses validation.
type Address string

// ParseAddress validates an identity handle from external input.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address cannot be empty")
	}
	if len(s) > MaxAddressLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address is too long")
	}
	if !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address must be valid UTF-8")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "address contains invalid characters")
		}
	}
	return Address(s), nil
}

func (a Address) String() string {
	return string(a)
}

// IsNil returns true if the address is empty.
func (a Address) IsNil() bool {
	return a == ""
}
