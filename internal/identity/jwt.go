package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "edureward/pkg/domain-errors"
)

// Claims are the capability token claims. Subject holds the controlled address.
type Claims struct {
	jwt.RegisteredClaims
}

// Verifier turns a bearer token into a Capability.
type Verifier interface {
	Verify(token string) (Capability, error)
}

// JWTService issues and verifies HS256 capability tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

// JWTOption configures a JWTService.
type JWTOption func(*JWTService)

// WithTimeFunc overrides the clock used for issuing and validating tokens.
func WithTimeFunc(now func() time.Time) JWTOption {
	return func(s *JWTService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewJWTService(signingKey, issuer, audience string, opts ...JWTOption) *JWTService {
	s := &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a capability token for addr valid for ttl.
func (s *JWTService) Issue(addr Address, ttl time.Duration) (string, error) {
	if addr.IsNil() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address cannot be empty")
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   addr.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify validates the token signature, issuer, audience and expiry and
// returns the capability it proves.
func (s *JWTService) Verify(tokenString string) (Capability, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenUnverifiable
			}
			return s.signingKey, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Capability{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return Capability{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Capability{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	holder, err := ParseAddress(claims.Subject)
	if err != nil {
		return Capability{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	return Capability{holder: holder, tokenID: claims.ID}, nil
}
