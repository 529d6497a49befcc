package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/newtifi/auth/internal/auth/service"
	"github.com/newtifi/auth/internal/obs"
	"github.com/newtifi/auth/pkg/httpx"
	"github.com/newtifi/auth/pkg/slogx"
)

// SignInHandler exposes the three sign-in providers over HTTP.
type SignInHandler struct {
	Manager *service.Manager
}

type emailSignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminSignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	OTPCode  string `json:"otpCode"`
}

type googleSignInRequest struct {
	AccessToken string `json:"accessToken"`
}

func (h *SignInHandler) HandleEmail(w http.ResponseWriter, r *http.Request) {
	var req emailSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "invalid_request",
			Reason: "Invalid JSON body",
		})
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "invalid_request",
			Reason: "email and password are required",
		})
		return
	}

	u, tok, err := h.Manager.SignInWithEmail(r.Context(), req.Email, req.Password)
	obs.RecordSignIn("email", err)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, signInResponse{User: u, Token: tok})
}

func (h *SignInHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "invalid_request",
			Reason: "Invalid JSON body",
		})
		return
	}
	if req.Username == "" || req.Password == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "invalid_request",
			Reason: "username and password are required",
		})
		return
	}

	u, tok, err := h.Manager.SignInAsAdmin(r.Context(), req.Username, req.Password, req.OTPCode)
	obs.RecordSignIn("admin", err)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, signInResponse{User: u, Token: tok})
}

func (h *SignInHandler) HandleGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "invalid_request",
			Reason: "Invalid JSON body",
		})
		return
	}
	if req.AccessToken == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "invalid_request",
			Reason: "accessToken is required",
		})
		return
	}

	u, tok, err := h.Manager.SignInWithGoogle(r.Context(), req.AccessToken)
	obs.RecordSignIn("google", err)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, signInResponse{User: u, Token: tok})
}

// HandleGoogleCallback redeems the OAuth authorization code Google redirects
// back with.
func (h *SignInHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "invalid_request",
			Reason: "code is required",
		})
		return
	}

	u, tok, err := h.Manager.SignInWithGoogleCode(r.Context(), code)
	obs.RecordSignIn("google", err)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, signInResponse{User: u, Token: tok})
}

// writeAuthError renders a sign-in failure. Expected failures map to 401 with
// the user-facing reason; anything else is a 500 with a generic message.
func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidAdminCredentials),
		errors.Is(err, service.ErrOTPRequired),
		errors.Is(err, service.ErrAccountDisabled),
		errors.Is(err, service.ErrEmailNotVerified),
		errors.Is(err, service.ErrIntrospectionFailed):
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{
			Error:  "authentication_failed",
			Reason: service.Reason(err),
		})
	default:
		slogx.FromContext(r.Context()).Error("sign-in failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:  "server_error",
			Reason: service.Reason(err),
		})
	}
}
