package service

import "errors"

// Expected sign-in failure modes. These are values, not panics: callers
// branch on them (or render Reason) instead of handling exceptions.
var (
	ErrInvalidCredentials      = errors.New("invalid_credentials")
	ErrInvalidAdminCredentials = errors.New("invalid_admin_credentials")
	ErrOTPRequired             = errors.New("otp_required")
	ErrAccountDisabled         = errors.New("account_disabled")
	ErrEmailNotVerified        = errors.New("email_not_verified")
	ErrIntrospectionFailed     = errors.New("introspection_failed")
)

// Reason translates a sign-in error into the user-facing message the web
// client renders verbatim. Unexpected errors collapse into a generic reason
// so internals never leak to the UI.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrInvalidAdminCredentials):
		return "Invalid admin credentials"
	case errors.Is(err, ErrOTPRequired):
		return "A one-time code is required"
	case errors.Is(err, ErrAccountDisabled):
		return "Account is deactivated"
	case errors.Is(err, ErrEmailNotVerified):
		return "Google account email is missing or unverified"
	case errors.Is(err, ErrIntrospectionFailed):
		return "Failed to verify Google token"
	default:
		return "Authentication failed"
	}
}
