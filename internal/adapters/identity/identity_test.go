package identity_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/okian/bounty/internal/adapters/identity"
	"github.com/okian/bounty/internal/domain/model"
)

func newTokens(t *testing.T, secret, issuer string, clock clockwork.Clock) *identity.Tokens {
	t.Helper()
	tokens, err := identity.New(secret, issuer, time.Hour, identity.WithClock(clock))
	require.NoError(t, err)
	return tokens
}

func TestTokens(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	tokens := newTokens(t, "secret", "bounty", clock)

	raw, err := tokens.Issue("alice")
	require.NoError(t, err)

	id, err := tokens.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, model.Identity("alice"), id)

	clock.Advance(2 * time.Hour)
	_, err = tokens.Verify(raw)
	require.ErrorIs(t, err, identity.ErrTokenExpired)
}

func TestTokensRejectForeignSignatures(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ours := newTokens(t, "secret", "bounty", clock)
	theirs := newTokens(t, "other", "bounty", clock)

	raw, err := theirs.Issue("mallory")
	require.NoError(t, err)
	_, err = ours.Verify(raw)
	require.ErrorIs(t, err, identity.ErrInvalidToken)

	_, err = ours.Verify("not-a-token")
	require.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestTokensRejectForeignIssuer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ours := newTokens(t, "secret", "bounty", clock)
	other := newTokens(t, "secret", "elsewhere", clock)

	raw, err := other.Issue("alice")
	require.NoError(t, err)
	_, err = ours.Verify(raw)
	require.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestIssueRequiresIdentity(t *testing.T) {
	tokens := newTokens(t, "secret", "bounty", clockwork.NewFakeClock())
	_, err := tokens.Issue("")
	require.ErrorIs(t, err, model.ErrInvalidIdentity)
}

func TestEmptySecretIsRefused(t *testing.T) {
	_, err := identity.New("", "bounty", time.Hour)
	require.ErrorIs(t, err, identity.ErrEmptySecret)

	var zero identity.Tokens
	_, err = zero.Issue("maintainer")
	require.ErrorIs(t, err, identity.ErrEmptySecret)
	_, err = zero.Verify("anything")
	require.ErrorIs(t, err, identity.ErrEmptySecret)
}

func TestTokensSignedWithEmptyKeyAreRejected(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ours := newTokens(t, "secret", "bounty", clock)

	now := clock.Now()
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "bounty",
		Subject:   "maintainer",
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte{})
	require.NoError(t, err)

	_, err = ours.Verify(forged)
	require.ErrorIs(t, err, identity.ErrInvalidToken)
}
