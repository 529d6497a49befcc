package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/newtifi/auth/internal/auth/domain"
	"github.com/newtifi/auth/internal/auth/store"
	"github.com/newtifi/auth/pkg/cryptox"
	"github.com/newtifi/auth/pkg/idx"
	"github.com/newtifi/auth/pkg/slogx"
	"github.com/pquerna/otp/totp"
)

// AdminProvider validates the configured admin credential pair and manages
// the single admin account, creating it lazily on first successful sign-in.
// When TOTPSecret is set, a valid one-time code becomes a second factor.
type AdminProvider struct {
	Store store.Store
	Token *TokenIssuer
	TTL   time.Duration

	Username     string
	PasswordHash string // argon2, injected via config
	TOTPSecret   string // optional, base32 encoded
	Email        string
	Name         string

	Now func() time.Time
}

func (p *AdminProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Authenticate checks (username, password[, otp]) and returns the admin user
// with a fresh token. The admin user is keyed by role, not id: at most one
// admin-role account exists.
func (p *AdminProvider) Authenticate(ctx context.Context, username, password, otpCode string) (domain.User, domain.Token, error) {
	l := slogx.FromContext(ctx)

	if username != p.Username || cryptox.VerifyPassword(password, p.PasswordHash) != nil {
		l.Info("admin sign-in rejected", slog.String("username", username))
		return domain.User{}, domain.Token{}, ErrInvalidAdminCredentials
	}

	if p.TOTPSecret != "" {
		if otpCode == "" {
			return domain.User{}, domain.Token{}, ErrOTPRequired
		}
		if !totp.Validate(otpCode, p.TOTPSecret) {
			l.Info("admin sign-in rejected: bad one-time code")
			return domain.User{}, domain.Token{}, ErrInvalidAdminCredentials
		}
	}

	now := p.now()

	u, err := p.Store.Users().GetByRole(ctx, domain.RoleAdmin)
	switch {
	case errors.Is(err, store.ErrNotFound):
		u = domain.NewUser(idx.New().String(), p.Email, p.Name, domain.RoleAdmin, now)
		u.Profile.ResearchInterests = []string{"System Administration", "Technology Management"}
		if err := p.Store.Users().Upsert(ctx, u); err != nil {
			return domain.User{}, domain.Token{}, err
		}
		l.Info("created admin account", slog.String("user_id", u.ID))
	case err != nil:
		return domain.User{}, domain.Token{}, err
	default:
		if !u.IsActive {
			return domain.User{}, domain.Token{}, ErrAccountDisabled
		}
		u.LastLogin = now
		if err := p.Store.Users().UpdateLastLogin(ctx, u.ID, now); err != nil {
			return domain.User{}, domain.Token{}, err
		}
	}

	token, err := p.Token.Issue(u, p.TTL)
	if err != nil {
		return domain.User{}, domain.Token{}, err
	}
	return u, token, nil
}
