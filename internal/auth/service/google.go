package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/newtifi/auth/internal/auth/domain"
	"github.com/newtifi/auth/internal/auth/store"
	"github.com/newtifi/auth/pkg/idx"
	"github.com/newtifi/auth/pkg/slogx"
	"golang.org/x/oauth2"
)

const (
	// DefaultIntrospectURL is Google's tokeninfo endpoint.
	DefaultIntrospectURL = "https://www.googleapis.com/oauth2/v3/tokeninfo"

	googleIssuer = "https://accounts.google.com"
)

// googleIdentity is the subset of the tokeninfo / ID-token claims the
// provider needs.
type googleIdentity struct {
	Subject       string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

// GoogleProvider exchanges externally obtained Google tokens for local
// sessions. Two entry points: Authenticate introspects an access token via
// tokeninfo; ExchangeCode runs the full authorization-code flow and verifies
// the returned ID token.
type GoogleProvider struct {
	Store store.Store
	Token *TokenIssuer
	TTL   time.Duration

	IntrospectURL string
	HTTPClient    *http.Client   // must carry a bounded timeout
	OAuth         *oauth2.Config // nil disables ExchangeCode

	Now func() time.Time

	verifierOnce sync.Once
	verifier     *oidc.IDTokenVerifier
	verifierErr  error
}

func (p *GoogleProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *GoogleProvider) client() *http.Client {
	if p.HTTPClient != nil {
		return p.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (p *GoogleProvider) introspectURL() string {
	if p.IntrospectURL != "" {
		return p.IntrospectURL
	}
	return DefaultIntrospectURL
}

// Authenticate validates a Google access token via token introspection and
// signs the matching user in, creating a member account on first contact.
func (p *GoogleProvider) Authenticate(ctx context.Context, accessToken string) (domain.User, domain.Token, error) {
	ident, err := p.introspect(ctx, accessToken)
	if err != nil {
		slogx.FromContext(ctx).Warn("google token introspection failed", slog.Any("error", err))
		return domain.User{}, domain.Token{}, fmt.Errorf("%w: %w", ErrIntrospectionFailed, err)
	}
	return p.signIn(ctx, ident)
}

// ExchangeCode redeems an authorization code, verifies the ID token carried
// in the response, and signs the user in. Falls back to access-token
// introspection when the response has no ID token.
func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (domain.User, domain.Token, error) {
	if p.OAuth == nil {
		return domain.User{}, domain.Token{}, errors.New("google oauth client is not configured")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client())
	tok, err := p.OAuth.Exchange(ctx, code)
	if err != nil {
		slogx.FromContext(ctx).Warn("google code exchange failed", slog.Any("error", err))
		return domain.User{}, domain.Token{}, fmt.Errorf("%w: %w", ErrIntrospectionFailed, err)
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return p.Authenticate(ctx, tok.AccessToken)
	}

	ident, err := p.verifyIDToken(ctx, rawIDToken)
	if err != nil {
		return domain.User{}, domain.Token{}, fmt.Errorf("%w: %w", ErrIntrospectionFailed, err)
	}
	return p.signIn(ctx, ident)
}

func (p *GoogleProvider) signIn(ctx context.Context, ident googleIdentity) (domain.User, domain.Token, error) {
	l := slogx.FromContext(ctx)

	// Accounts are keyed by lowercased email across all providers.
	email := strings.ToLower(strings.TrimSpace(ident.Email))
	if email == "" || !ident.EmailVerified {
		return domain.User{}, domain.Token{}, ErrEmailNotVerified
	}

	now := p.now()

	u, err := p.Store.Users().GetByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		name := ident.Name
		if name == "" {
			name = displayNameFromEmail(email)
		}
		u = domain.NewUser(idx.New().String(), email, name, domain.RoleMember, now)
		u.Profile.Avatar = ident.Picture
		if err := p.Store.Users().Upsert(ctx, u); err != nil {
			return domain.User{}, domain.Token{}, err
		}
		l.Info("created member account from google identity", slog.String("user_id", u.ID))
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

// introspect calls the tokeninfo endpoint. Google returns email_verified as
// the string "true", which the decoding preserves.
func (p *GoogleProvider) introspect(ctx context.Context, accessToken string) (googleIdentity, error) {
	endpoint := p.introspectURL() + "?access_token=" + url.QueryEscape(accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return googleIdentity{}, err
	}

	resp, err := p.client().Do(req)
	if err != nil {
		return googleIdentity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleIdentity{}, fmt.Errorf("tokeninfo returned status %d", resp.StatusCode)
	}

	var body struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		EmailVerified string `json:"email_verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return googleIdentity{}, fmt.Errorf("decode tokeninfo response: %w", err)
	}

	return googleIdentity{
		Subject:       body.Sub,
		Email:         body.Email,
		Name:          body.Name,
		Picture:       body.Picture,
		EmailVerified: body.EmailVerified == "true",
	}, nil
}

func (p *GoogleProvider) verifyIDToken(ctx context.Context, rawIDToken string) (googleIdentity, error) {
	p.verifierOnce.Do(func() {
		provider, err := oidc.NewProvider(ctx, googleIssuer)
		if err != nil {
			p.verifierErr = fmt.Errorf("discover google oidc provider: %w", err)
			return
		}
		p.verifier = provider.Verifier(&oidc.Config{ClientID: p.OAuth.ClientID})
	})
	if p.verifierErr != nil {
		return googleIdentity{}, p.verifierErr
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return googleIdentity{}, fmt.Errorf("verify id token: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return googleIdentity{}, fmt.Errorf("decode id token claims: %w", err)
	}

	return googleIdentity{
		Subject:       idToken.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		Picture:       claims.Picture,
		EmailVerified: claims.EmailVerified,
	}, nil
}
