package http

import (
	"net/http"

	"github.com/newtifi/auth/internal/auth/service"
	"github.com/newtifi/auth/internal/obs"
	"github.com/newtifi/auth/pkg/httpx"
)

// SessionHandler serves the current session state.
type SessionHandler struct {
	Manager *service.Manager
}

// HandleGet reports the current session. Anonymous is a 200 with
// authenticated=false, not an error.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, ok := h.Manager.CurrentUser(r.Context())
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Authenticated: true, User: &u})
}

// HandleSignOut drops the session. Idempotent, always 204.
func (h *SessionHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	h.Manager.SignOut(r.Context())
	obs.RecordSignOut()
	w.WriteHeader(http.StatusNoContent)
}

// HandleRoutes lists the gated UI routes the current role may open.
func (h *SessionHandler) HandleRoutes(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, routesResponse{
		Routes: h.Manager.AccessibleRoutes(r.Context()),
	})
}
