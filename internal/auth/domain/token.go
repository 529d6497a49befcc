package domain

import "time"

// Token is the session credential issued on sign-in. The access token is
// opaque to callers; ExpiresAt is an absolute instant in epoch milliseconds
// to match the persisted layout consumed by the web client.
type Token struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresAt    int64  `json:"expiresAt"`
}

// Expired reports whether the token has passed its expiry at the given
// instant. A query at exactly ExpiresAt counts as expired.
func (t Token) Expired(now time.Time) bool {
	return now.UnixMilli() >= t.ExpiresAt
}
