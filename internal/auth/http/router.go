package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/newtifi/auth/internal/auth/service"
	"github.com/newtifi/auth/internal/auth/store"
	"github.com/newtifi/auth/internal/obs"
	"github.com/newtifi/auth/pkg/httpx"
	"github.com/newtifi/auth/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	Manager *service.Manager
}

func NewRouter(manager *service.Manager, st store.Store, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		Manager:      manager,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		obs.Instrument,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSignIn()
	r.registerSession()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSignIn() {
	h := &SignInHandler{Manager: r.Manager}

	// Sign-in endpoints are brute-forceable, so they all get the strict
	// per-IP limit.
	r.Mux.Handle("POST /v1/auth/email",
		httpx.Chain(http.HandlerFunc(h.HandleEmail),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/admin",
		httpx.Chain(http.HandlerFunc(h.HandleAdmin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/google",
		httpx.Chain(http.HandlerFunc(h.HandleGoogle),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/google/callback",
		httpx.Chain(http.HandlerFunc(h.HandleGoogleCallback),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSession() {
	h := &SessionHandler{Manager: r.Manager}

	r.Mux.Handle("GET /v1/auth/session",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/signout",
		httpx.Chain(http.HandlerFunc(h.HandleSignOut),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/routes",
		httpx.Chain(http.HandlerFunc(h.HandleRoutes),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", obs.Handler())
}
