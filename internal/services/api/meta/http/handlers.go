// Package http provides meta endpoints
package http

import (
	"net/http"
	"time"

	"zkcommit/internal/core/version"
	"zkcommit/internal/modkit/httpkit"
	perr "zkcommit/internal/platform/errors"
)

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	// Checks name an outbound dependency and report whether it is wired
	Checks map[string]bool
	// Sessions reports the live workflow session count, optional
	Sessions func() int
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, now: time.Now}

	httpkit.GetJSON(r, "/health", h.health)
	httpkit.GetJSON(r, "/ready", h.ready)
	httpkit.GetJSON(r, "/version", h.version)
	httpkit.GetJSON(r, "/service", h.service)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok missing
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name     string `json:"name"`
	Started  string `json:"started"`
	Uptime   int64  `json:"uptime"`
	Sessions int    `json:"sessions"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.now().UTC().Format(time.RFC3339),
	}, nil
}

// ready answers 503 with the checks attached when a client is not wired
func (h *handlers) ready(_ *http.Request) (any, error) {
	out := ReadyResponse{Status: "ok", Now: h.now().UTC().Format(time.RFC3339)}
	for _, name := range []string{"github", "proof_service"} {
		wired, known := h.deps.Checks[name]
		if !known {
			continue
		}
		c := ReadyCheck{Name: name, Status: "ok"}
		if !wired {
			c.Status = "missing"
			out.Status = "fail"
		}
		out.Checks = append(out.Checks, c)
	}
	if out.Status != "ok" {
		return httpkit.ErrorWith(perr.Unavailablef("dependencies not ready"), out), nil
	}
	return out, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

func (h *handlers) service(_ *http.Request) (any, error) {
	out := ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.now().Sub(h.deps.StartedAt) / time.Second),
	}
	if h.deps.Sessions != nil {
		out.Sessions = h.deps.Sessions()
	}
	return out, nil
}
