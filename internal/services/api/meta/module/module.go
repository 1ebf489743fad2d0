// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"zkcommit/internal/core/version"
	modkit "zkcommit/internal/modkit"
	"zkcommit/internal/modkit/httpkit"
	str "zkcommit/internal/platform/strings"

	metahttp "zkcommit/internal/services/api/meta/http"
)

// SessionCounter is the port meta reads to report live sessions
type SessionCounter interface{ Len() int }

// Ports lets the composition root hand meta a session counter
type Ports struct {
	Sessions SessionCounter
}

// Module implements the modkit.Module interface
type Module struct {
	deps      modkit.Deps
	name      string
	prefix    string
	mws       []func(http.Handler) http.Handler
	ports     Ports
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("meta", "/meta", opts...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		startedAt: time.Now(),
	}
	if p, ok := b.Ports.(Ports); ok {
		m.ports = p
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	d := metahttp.Deps{
		ServiceName: version.Service,
		StartedAt:   m.startedAt,
		Checks: map[string]bool{
			"github":        m.deps.GitHub != nil,
			"proof_service": m.deps.Proofs != nil,
		},
	}
	if m.ports.Sessions != nil {
		d.Sessions = m.ports.Sessions.Len
	}
	httpkit.MountUnder(r, m.prefix, m.mws, func(rr httpkit.Router) {
		metahttp.Register(rr, d)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.FirstNonBlank(m.name, "meta") }

// Prefix returns the mount prefix
func (m *Module) Prefix() string { return m.prefix }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
