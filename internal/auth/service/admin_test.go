package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/newtifi/auth/internal/auth/domain"
	"github.com/newtifi/auth/internal/auth/service"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestAdminSignInCreatesSingleAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, tok, err := f.admin.Authenticate(ctx, testAdminUsername, testAdminPassword, "")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, u.Role)
	require.Equal(t, "admin@newtifi.com", u.Email)
	require.True(t, u.Can("admin", "access"))
	require.True(t, u.Can("articles", "delete"))
	require.Equal(t, f.clock.Now().Add(8*time.Hour).UnixMilli(), tok.ExpiresAt)

	n, err := f.store.Users().Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// Second sign-in reuses the account and bumps last_login.
	f.clock.Advance(time.Hour)
	again, _, err := f.admin.Authenticate(ctx, testAdminUsername, testAdminPassword, "")
	require.NoError(t, err)
	require.Equal(t, u.ID, again.ID)
	require.Equal(t, u.LastLogin.Add(time.Hour), again.LastLogin)

	n, err = f.store.Users().Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestAdminSignInRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.admin.Authenticate(ctx, testAdminUsername, "wrong", "")
	require.ErrorIs(t, err, service.ErrInvalidAdminCredentials)
	require.Equal(t, "Invalid admin credentials", service.Reason(err))

	_, _, err = f.admin.Authenticate(ctx, "root", testAdminPassword, "")
	require.ErrorIs(t, err, service.ErrInvalidAdminCredentials)

	// No user created, nothing persisted.
	n, err := f.store.Users().Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestAdminSignInWithTOTP(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "newtifi-auth", AccountName: "admin"})
	require.NoError(t, err)
	f.admin.TOTPSecret = key.Secret()

	// Missing code is reported distinctly from a wrong one.
	_, _, err = f.admin.Authenticate(ctx, testAdminUsername, testAdminPassword, "")
	require.ErrorIs(t, err, service.ErrOTPRequired)

	_, _, err = f.admin.Authenticate(ctx, testAdminUsername, testAdminPassword, "000000")
	require.ErrorIs(t, err, service.ErrInvalidAdminCredentials)

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	require.NoError(t, err)
	u, _, err := f.admin.Authenticate(ctx, testAdminUsername, testAdminPassword, code)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, u.Role)
}

func TestAdminSignInDeactivated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, _, err := f.admin.Authenticate(ctx, testAdminUsername, testAdminPassword, "")
	require.NoError(t, err)
	require.NoError(t, f.store.Users().SetActive(ctx, u.ID, false))

	_, _, err = f.admin.Authenticate(ctx, testAdminUsername, testAdminPassword, "")
	require.ErrorIs(t, err, service.ErrAccountDisabled)
}
