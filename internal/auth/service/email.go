package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/newtifi/auth/internal/auth/domain"
	"github.com/newtifi/auth/internal/auth/store"
	"github.com/newtifi/auth/pkg/cryptox"
	"github.com/newtifi/auth/pkg/idx"
	"github.com/newtifi/auth/pkg/slogx"
)

// EmailProvider authenticates against the credentials table. Credentials
// are provisioned out of band (admin console or seed), never hard-coded.
type EmailProvider struct {
	Store store.Store
	Token *TokenIssuer
	TTL   time.Duration
	Now   func() time.Time
}

func (p *EmailProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Authenticate validates an (email, password) pair and returns the signed-in
// user and a fresh token. Bad credentials surface as ErrInvalidCredentials
// regardless of whether the email exists, to avoid account enumeration.
func (p *EmailProvider) Authenticate(ctx context.Context, email, password string) (domain.User, domain.Token, error) {
	l := slogx.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, domain.Token{}, ErrInvalidCredentials
	}

	hash, err := p.Store.Credentials().GetHash(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.Token{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.Token{}, err
	}
	if cryptox.VerifyPassword(password, hash) != nil {
		l.Info("email sign-in rejected", slog.String("email", email))
		return domain.User{}, domain.Token{}, ErrInvalidCredentials
	}

	now := p.now()

	u, err := p.Store.Users().GetByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// A credential without an account record: first sign-in after an
		// out-of-band provisioning. Members by default.
		u = domain.NewUser(idx.New().String(), email, displayNameFromEmail(email), domain.RoleMember, now)
		if err := p.Store.Users().Upsert(ctx, u); err != nil {
			return domain.User{}, domain.Token{}, err
		}
		l.Info("created member account on first email sign-in", slog.String("user_id", u.ID))
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

func displayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return email
	}
	return local
}
