package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/newtifi/auth/internal/auth/domain"
	"github.com/newtifi/auth/internal/auth/store"
)

// Manager owns the current session. It is constructed once in the
// composition root and injected wherever sign-in or permission checks are
// needed; there is deliberately no package-level instance.
//
// Two states: anonymous (no cached session) and authenticated. Expiry is
// lazy: the first query observing now >= expiresAt clears the session, both
// in memory and in the store. One mutex guards the cached pair, and the
// store serializes its own writes, so concurrent HTTP handlers are safe.
type Manager struct {
	mu    sync.Mutex
	user  *domain.User
	token *domain.Token

	store  store.Store
	email  *EmailProvider
	admin  *AdminProvider
	google *GoogleProvider
	log    *slog.Logger
	nowFn  func() time.Time
}

// ManagerOption customizes a Manager, mainly for tests.
type ManagerOption func(*Manager)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.nowFn = now }
}

// NewManager builds a Manager and re-hydrates any persisted session. A
// stale, expired, or corrupt persisted session is cleared and the manager
// starts anonymous.
func NewManager(
	ctx context.Context,
	st store.Store,
	email *EmailProvider,
	admin *AdminProvider,
	google *GoogleProvider,
	logger *slog.Logger,
	opts ...ManagerOption,
) *Manager {
	m := &Manager{
		store:  st,
		email:  email,
		admin:  admin,
		google: google,
		log:    logger,
		nowFn:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.hydrate(ctx)
	return m
}

func (m *Manager) hydrate(ctx context.Context) {
	u, t, err := m.store.Session().Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.log.Warn("failed to load persisted session", slog.Any("error", err))
		}
		// Clear proactively so a corrupt record doesn't fail every start.
		if err := m.store.Session().Clear(ctx); err != nil {
			m.log.Warn("failed to clear session store", slog.Any("error", err))
		}
		return
	}

	if t.Expired(m.nowFn()) {
		m.log.Info("persisted session expired, clearing")
		if err := m.store.Session().Clear(ctx); err != nil {
			m.log.Warn("failed to clear session store", slog.Any("error", err))
		}
		return
	}

	m.user, m.token = &u, &t
	m.log.Info("session restored", slog.String("user_id", u.ID), slog.String("role", string(u.Role)))
}

// SignInWithEmail authenticates an (email, password) pair and replaces the
// current session on success. Signing in while already authenticated simply
// overwrites the old session; the old token is discarded.
func (m *Manager) SignInWithEmail(ctx context.Context, email, password string) (domain.User, domain.Token, error) {
	u, t, err := m.email.Authenticate(ctx, email, password)
	if err != nil {
		return domain.User{}, domain.Token{}, err
	}
	m.setSession(ctx, u, t)
	return u, t, nil
}

// SignInAsAdmin authenticates the configured admin credential pair.
func (m *Manager) SignInAsAdmin(ctx context.Context, username, password, otpCode string) (domain.User, domain.Token, error) {
	u, t, err := m.admin.Authenticate(ctx, username, password, otpCode)
	if err != nil {
		return domain.User{}, domain.Token{}, err
	}
	m.setSession(ctx, u, t)
	return u, t, nil
}

// SignInWithGoogle exchanges a Google access token for a session.
func (m *Manager) SignInWithGoogle(ctx context.Context, accessToken string) (domain.User, domain.Token, error) {
	u, t, err := m.google.Authenticate(ctx, accessToken)
	if err != nil {
		return domain.User{}, domain.Token{}, err
	}
	m.setSession(ctx, u, t)
	return u, t, nil
}

// SignInWithGoogleCode redeems an OAuth authorization code for a session.
func (m *Manager) SignInWithGoogleCode(ctx context.Context, code string) (domain.User, domain.Token, error) {
	u, t, err := m.google.ExchangeCode(ctx, code)
	if err != nil {
		return domain.User{}, domain.Token{}, err
	}
	m.setSession(ctx, u, t)
	return u, t, nil
}

// SignOut drops the current session. Signing out while anonymous is a no-op.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	m.user, m.token = nil, nil
	m.mu.Unlock()

	if err := m.store.Session().Clear(ctx); err != nil {
		m.log.Warn("failed to clear session store", slog.Any("error", err))
	}
}

// IsAuthenticated reports whether an unexpired session exists.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	_, ok := m.CurrentUser(ctx)
	return ok
}

// CurrentUser returns a copy of the signed-in user, if any.
func (m *Manager) CurrentUser(ctx context.Context) (domain.User, bool) {
	u := m.current(ctx)
	if u == nil {
		return domain.User{}, false
	}
	return *u, true
}

// CurrentToken returns a copy of the active token, if any.
func (m *Manager) CurrentToken(ctx context.Context) (domain.Token, bool) {
	m.mu.Lock()
	expired := m.token != nil && m.token.Expired(m.nowFn())
	var t *domain.Token
	if m.token != nil && !expired {
		cp := *m.token
		t = &cp
	}
	m.mu.Unlock()

	if expired {
		m.expire(ctx)
	}
	if t == nil {
		return domain.Token{}, false
	}
	return *t, true
}

// HasPermission reports whether the signed-in user's permission snapshot
// allows the action on the resource. Anonymous callers get false, never an
// error: absence of a session degrades every query to its safe default.
func (m *Manager) HasPermission(ctx context.Context, resource, action string) bool {
	u := m.current(ctx)
	return u != nil && u.Can(resource, action)
}

func (m *Manager) IsAdmin(ctx context.Context) bool     { return m.hasRole(ctx, domain.RoleAdmin) }
func (m *Manager) IsProfessor(ctx context.Context) bool { return m.hasRole(ctx, domain.RoleProfessor) }
func (m *Manager) IsReviewer(ctx context.Context) bool  { return m.hasRole(ctx, domain.RoleReviewer) }
func (m *Manager) IsAuthor(ctx context.Context) bool    { return m.hasRole(ctx, domain.RoleAuthor) }
func (m *Manager) IsMember(ctx context.Context) bool    { return m.hasRole(ctx, domain.RoleMember) }

// CanAccessRoute reports whether the signed-in user's role may open the
// route. Anonymous callers get false.
func (m *Manager) CanAccessRoute(ctx context.Context, route string) bool {
	u := m.current(ctx)
	return u != nil && domain.RouteAllowed(u.Role, route)
}

// AccessibleRoutes lists the gated routes the signed-in user may open, empty
// for anonymous callers.
func (m *Manager) AccessibleRoutes(ctx context.Context) []string {
	u := m.current(ctx)
	if u == nil {
		return []string{}
	}
	return domain.RoutesForRole(u.Role)
}

func (m *Manager) hasRole(ctx context.Context, role domain.Role) bool {
	u := m.current(ctx)
	return u != nil && u.Role == role
}

// current returns the cached user, clearing the session first if the token
// has expired. Returns nil when anonymous.
func (m *Manager) current(ctx context.Context) *domain.User {
	m.mu.Lock()
	if m.token == nil || m.user == nil {
		m.mu.Unlock()
		return nil
	}
	if m.token.Expired(m.nowFn()) {
		m.mu.Unlock()
		m.expire(ctx)
		return nil
	}
	u := *m.user
	m.mu.Unlock()
	return &u
}

func (m *Manager) expire(ctx context.Context) {
	m.log.Info("session expired")
	m.mu.Lock()
	m.user, m.token = nil, nil
	m.mu.Unlock()
	if err := m.store.Session().Clear(ctx); err != nil {
		m.log.Warn("failed to clear session store", slog.Any("error", err))
	}
}

// setSession replaces the cached session and persists it. Persistence
// failures are logged and swallowed: the in-memory session stays valid for
// the rest of the process.
func (m *Manager) setSession(ctx context.Context, u domain.User, t domain.Token) {
	m.mu.Lock()
	m.user, m.token = &u, &t
	m.mu.Unlock()

	if err := m.store.Session().Save(ctx, u, t); err != nil {
		m.log.Warn("failed to persist session", slog.Any("error", err), slog.String("user_id", u.ID))
	}
}
