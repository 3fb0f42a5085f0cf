package testutil

import (
	"net/http"
	"testing"
	"time"

	"edureward/internal/identity"
	"edureward/pkg/requestcontext"
)

// Token settings shared by tests that mint capabilities or bearer tokens.
const (
	SigningKey = "test-signing-key"
	Issuer     = "edureward-test"
	Audience   = "edureward-test-api"
)

// NewTokenService returns the JWT service tests use to mint and verify tokens.
func NewTokenService() *identity.JWTService {
	return identity.NewJWTService(SigningKey, Issuer, Audience)
}

// Token issues a bearer token for addr valid for one hour.
func Token(t testing.TB, addr identity.Address) string {
	t.Helper()
	token, err := NewTokenService().Issue(addr, time.Hour)
	if err != nil {
		t.Fatalf("issue token for %s: %v", addr, err)
	}
	return token
}

// Capability returns a verified capability for addr. Capabilities can only be
// minted by a Verifier, so this goes through a real token round trip.
func Capability(t testing.TB, addr identity.Address) identity.Capability {
	t.Helper()
	c, err := NewTokenService().Verify(Token(t, addr))
	if err != nil {
		t.Fatalf("verify token for %s: %v", addr, err)
	}
	return c
}

// WithCapability attaches a verified capability for addr to the request context.
// This simulates what the auth middleware does for authenticated requests.
func WithCapability(t testing.TB, req *http.Request, addr identity.Address) *http.Request {
	t.Helper()
	return req.WithContext(requestcontext.WithCapability(req.Context(), Capability(t, addr)))
}

// WithBearer sets an Authorization header carrying a valid token for addr.
func WithBearer(t testing.TB, req *http.Request, addr identity.Address) *http.Request {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+Token(t, addr))
	return req
}
