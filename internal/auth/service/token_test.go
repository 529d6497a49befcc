package service_test

import (
	"testing"
	"time"

	"github.com/newtifi/auth/internal/auth/domain"
	"github.com/newtifi/auth/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func TestIssueTokenExpiry(t *testing.T) {
	c := newClock()
	issuer := &service.TokenIssuer{Secret: []byte("s"), Issuer: "newtifi-auth", Now: c.Now}
	u := domain.NewUser("u1", "u@example.org", "U", domain.RoleMember, c.Now())

	tok, err := issuer.Issue(u, 8*time.Hour)
	require.NoError(t, err)
	require.Equal(t, c.Now().Add(8*time.Hour).UnixMilli(), tok.ExpiresAt)
	require.NotEmpty(t, tok.RefreshToken)

	require.False(t, tok.Expired(c.Now()))
	require.False(t, tok.Expired(c.Now().Add(8*time.Hour-time.Millisecond)))
	require.True(t, tok.Expired(c.Now().Add(8*time.Hour)))
	require.True(t, tok.Expired(c.Now().Add(9*time.Hour)))
}

func TestIssuedTokensAreUnique(t *testing.T) {
	c := newClock()
	issuer := &service.TokenIssuer{Secret: []byte("s"), Issuer: "newtifi-auth", Now: c.Now}
	u := domain.NewUser("u1", "u@example.org", "U", domain.RoleMember, c.Now())

	seenAccess := make(map[string]struct{})
	seenRefresh := make(map[string]struct{})
	for range 50 {
		tok, err := issuer.Issue(u, time.Hour)
		require.NoError(t, err)

		_, dup := seenAccess[tok.AccessToken]
		require.False(t, dup, "duplicate access token")
		seenAccess[tok.AccessToken] = struct{}{}

		_, dup = seenRefresh[tok.RefreshToken]
		require.False(t, dup, "duplicate refresh token")
		seenRefresh[tok.RefreshToken] = struct{}{}
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	issuer := &service.TokenIssuer{Secret: []byte("s"), Issuer: "newtifi-auth"}
	u := domain.NewUser("user-42", "u@example.org", "U", domain.RoleAuthor, time.Now())

	tok, err := issuer.Issue(u, time.Hour)
	require.NoError(t, err)

	sub, err := issuer.Verify(tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "user-42", sub)

	other := &service.TokenIssuer{Secret: []byte("different"), Issuer: "newtifi-auth"}
	_, err = other.Verify(tok.AccessToken)
	require.Error(t, err)
}
