// Package identity issues and verifies the bearer tokens that bind a request to
// a caller identity.
package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/okian/bounty/internal/domain/model"
)

// Token errors.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrEmptySecret  = errors.New("empty signing secret")
)

// Tokens signs and verifies HS256 tokens whose subject is the caller identity.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clockwork.Clock
}

// Option configures Tokens.
type Option func(*Tokens)

// WithClock replaces the wall clock used for issue and expiry times.
func WithClock(c clockwork.Clock) Option {
	return func(t *Tokens) {
		if c != nil {
			t.clock = c
		}
	}
}

// New returns a token engine. An empty secret is refused: anyone could forge
// tokens signed with it.
func New(secret, issuer string, ttl time.Duration, opts ...Option) (*Tokens, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	t := &Tokens{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Issue signs a token for id.
func (t *Tokens) Issue(id model.Identity) (string, error) {
	if len(t.secret) == 0 {
		return "", ErrEmptySecret
	}
	if id == "" {
		return "", model.ErrInvalidIdentity
	}
	now := t.clock.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    t.issuer,
		Subject:   string(id),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks the signature, issuer and lifetime of raw and returns its
// subject.
func (t *Tokens) Verify(raw string) (model.Identity, error) {
	if len(t.secret) == 0 {
		return "", ErrEmptySecret
	}
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	_, err := parser.ParseWithClaims(raw, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	now := t.clock.Now()
	if !claims.VerifyExpiresAt(now, true) {
		return "", ErrTokenExpired
	}
	if !claims.VerifyNotBefore(now, false) {
		return "", fmt.Errorf("%w: not yet valid", ErrInvalidToken)
	}
	if !claims.VerifyIssuer(t.issuer, true) {
		return "", fmt.Errorf("%w: issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	return model.Identity(claims.Subject), nil
}
