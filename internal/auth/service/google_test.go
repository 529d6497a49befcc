package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/newtifi/auth/internal/auth/domain"
	"github.com/newtifi/auth/internal/auth/service"
	"github.com/newtifi/auth/pkg/httpx"
	"github.com/stretchr/testify/require"
)

// fakeTokeninfo mimics Google's tokeninfo endpoint. email_verified is a
// string in the real v3 response, so the fake keeps that quirk.
func fakeTokeninfo(t *testing.T, status int, body map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.URL.Query().Get("access_token"))
		httpx.WriteJSON(w, status, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleSignInCreatesMember(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	srv := fakeTokeninfo(t, http.StatusOK, map[string]string{
		"sub":            "google-123",
		"email":          "maria@example.org",
		"name":           "Maria Muller",
		"picture":        "https://example.org/avatar.png",
		"email_verified": "true",
	})
	f.google.IntrospectURL = srv.URL

	u, tok, err := f.google.Authenticate(ctx, "opaque-google-token")
	require.NoError(t, err)
	require.Equal(t, "maria@example.org", u.Email)
	require.Equal(t, "Maria Muller", u.Name)
	require.Equal(t, domain.RoleMember, u.Role)
	require.Equal(t, "https://example.org/avatar.png", u.Profile.Avatar)
	require.Equal(t, f.clock.Now().Add(24*time.Hour).UnixMilli(), tok.ExpiresAt)

	// Repeat sign-in finds the same account by email.
	f.clock.Advance(time.Minute)
	again, _, err := f.google.Authenticate(ctx, "opaque-google-token")
	require.NoError(t, err)
	require.Equal(t, u.ID, again.ID)
	require.Equal(t, u.LastLogin.Add(time.Minute), again.LastLogin)
}

func TestGoogleSignInMatchesEmailAccountCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// The account exists lowercased from an email sign-in.
	u, _, err := f.email.Authenticate(ctx, testDemoEmail, testDemoPassword)
	require.NoError(t, err)

	srv := fakeTokeninfo(t, http.StatusOK, map[string]string{
		"sub":            "google-123",
		"email":          "Test@Example.COM",
		"name":           "Test User",
		"email_verified": "true",
	})
	f.google.IntrospectURL = srv.URL

	again, _, err := f.google.Authenticate(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, u.ID, again.ID)
	require.Equal(t, testDemoEmail, again.Email)

	// No duplicate account for the same person.
	n, err := f.store.Users().Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestGoogleSignInIntrospectionFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	srv := fakeTokeninfo(t, http.StatusBadRequest, map[string]string{"error_description": "Invalid Value"})
	f.google.IntrospectURL = srv.URL

	_, _, err := f.google.Authenticate(ctx, "expired-token")
	require.ErrorIs(t, err, service.ErrIntrospectionFailed)
	require.Equal(t, "Failed to verify Google token", service.Reason(err))
}

func TestGoogleSignInUnreachableEndpoint(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.google.IntrospectURL = "http://127.0.0.1:1/tokeninfo"
	f.google.HTTPClient = &http.Client{Timeout: 200 * time.Millisecond}

	_, _, err := f.google.Authenticate(ctx, "any")
	require.ErrorIs(t, err, service.ErrIntrospectionFailed)
}

func TestGoogleSignInUnverifiedEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	srv := fakeTokeninfo(t, http.StatusOK, map[string]string{
		"sub":            "google-456",
		"email":          "shady@example.org",
		"email_verified": "false",
	})
	f.google.IntrospectURL = srv.URL

	_, _, err := f.google.Authenticate(ctx, "token")
	require.ErrorIs(t, err, service.ErrEmailNotVerified)

	srv2 := fakeTokeninfo(t, http.StatusOK, map[string]string{
		"sub":            "google-789",
		"email_verified": "true",
	})
	f.google.IntrospectURL = srv2.URL

	_, _, err = f.google.Authenticate(ctx, "token")
	require.ErrorIs(t, err, service.ErrEmailNotVerified)
}

func TestGoogleSignInDeactivated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	srv := fakeTokeninfo(t, http.StatusOK, map[string]string{
		"sub":            "google-123",
		"email":          "maria@example.org",
		"name":           "Maria Muller",
		"email_verified": "true",
	})
	f.google.IntrospectURL = srv.URL

	u, _, err := f.google.Authenticate(ctx, "token")
	require.NoError(t, err)
	require.NoError(t, f.store.Users().SetActive(ctx, u.ID, false))

	_, _, err = f.google.Authenticate(ctx, "token")
	require.ErrorIs(t, err, service.ErrAccountDisabled)
}
