package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/newtifi/auth/internal/auth/domain"
	"github.com/newtifi/auth/pkg/cryptox"
	"github.com/newtifi/auth/pkg/idx"
)

// TokenIssuer mints the session token pair: an HS256-signed access token
// plus an opaque refresh token. The ULID jti makes every issuance unique
// even for the same user within the same millisecond.
type TokenIssuer struct {
	Secret []byte
	Issuer string
	Now    func() time.Time
}

func (s *TokenIssuer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue creates a fresh token pair for the user, expiring after ttl.
func (s *TokenIssuer) Issue(user domain.User, ttl time.Duration) (domain.Token, error) {
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		ID:        idx.New().String(),
		Subject:   user.ID,
		Issuer:    s.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return domain.Token{}, err
	}

	refresh, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Token{}, err
	}

	return domain.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt.UnixMilli(),
	}, nil
}

// Verify parses and validates an access token previously issued by this
// issuer and returns its subject (the user id).
func (s *TokenIssuer) Verify(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.Issuer),
	)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
