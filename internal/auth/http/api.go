package http

import "github.com/newtifi/auth/internal/auth/domain"

// Wire DTOs. Field names match what the web client already consumes.

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

type signInResponse struct {
	User  domain.User  `json:"user"`
	Token domain.Token `json:"token"`
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
}

type routesResponse struct {
	Routes []string `json:"routes"`
}

type healthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *healthChecks `json:"checks,omitempty"`
}

type healthChecks struct {
	Database string `json:"database"`
}
