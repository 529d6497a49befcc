package service_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/newtifi/auth/internal/auth/service"
	"github.com/newtifi/auth/internal/auth/store/drivers/sqlite"
	"github.com/newtifi/auth/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

const (
	testAdminUsername = "admin"
	testAdminPassword = "B1950"
	testDemoEmail     = "test@example.com"
	testDemoPassword  = "password"
)

// clock is a controllable time source shared by issuer, providers, and
// manager in tests.
type clock struct {
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Now().UTC().Truncate(time.Millisecond)}
}

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	store   *sqlite.Store
	issuer  *service.TokenIssuer
	email   *service.EmailProvider
	admin   *service.AdminProvider
	google  *service.GoogleProvider
	clock   *clock
	manager *service.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	c := newClock()
	issuer := &service.TokenIssuer{
		Secret: []byte("test-secret"),
		Issuer: "newtifi-auth",
		Now:    c.Now,
	}

	adminHash, err := cryptox.HashPassword(testAdminPassword)
	require.NoError(t, err)

	f := &fixture{
		store:  st,
		issuer: issuer,
		clock:  c,
		email: &service.EmailProvider{
			Store: st,
			Token: issuer,
			TTL:   24 * time.Hour,
			Now:   c.Now,
		},
		admin: &service.AdminProvider{
			Store:        st,
			Token:        issuer,
			TTL:          8 * time.Hour,
			Username:     testAdminUsername,
			PasswordHash: adminHash,
			Email:        "admin@newtifi.com",
			Name:         "System Administrator",
			Now:          c.Now,
		},
		google: &service.GoogleProvider{
			Store: st,
			Token: issuer,
			TTL:   24 * time.Hour,
			Now:   c.Now,
		},
	}

	// Demo member credential so email sign-in has something to verify.
	demoHash, err := cryptox.HashPassword(testDemoPassword)
	require.NoError(t, err)
	require.NoError(t, st.Credentials().SetHash(context.Background(), testDemoEmail, demoHash))

	return f
}

func (f *fixture) newManager(t *testing.T) *service.Manager {
	t.Helper()
	f.manager = service.NewManager(
		context.Background(),
		f.store, f.email, f.admin, f.google,
		slog.Default(),
		service.WithClock(f.clock.Now),
	)
	return f.manager
}
