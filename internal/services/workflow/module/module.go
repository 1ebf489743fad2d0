// Package module wires workflow sessions and their HTTP routes
package module

import (
	"context"
	"net/http"

	"zkcommit/internal/core/commitref"
	"zkcommit/internal/modkit"
	"zkcommit/internal/modkit/httpkit"
	perr "zkcommit/internal/platform/errors"
	dom "zkcommit/internal/services/workflow/domain"
	wfhttp "zkcommit/internal/services/workflow/http"
	"zkcommit/internal/services/workflow/service"
)

// Module defines the workflow module
type Module struct {
	deps     modkit.Deps
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	sessions *service.Sessions
	ports    Ports
}

// New constructs the workflow module. Config supplies defaults and non-zero
// overrides win.
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)
	if overrides.SessionTTL != 0 {
		o.SessionTTL = overrides.SessionTTL
	}

	fetch := overrides.Fetcher
	if fetch == nil && deps.GitHub != nil {
		fetch = loggedFetcher{gh: deps.GitHub, log: deps.Log.With().Str("component", "workflow").Logger()}
	}
	if fetch == nil {
		fetch = missing{what: "github client"}
	}
	prover := overrides.Prover
	if prover == nil && deps.Proofs != nil {
		prover = deps.Proofs
	}
	if prover == nil {
		prover = missing{what: "proof service"}
	}

	b := modkit.Build("workflow", "/workflows", opts...)
	sessions := service.NewSessions(fetch, prover, o.SessionTTL)

	return &Module{
		deps:     deps,
		name:     b.Name,
		prefix:   b.Prefix,
		mws:      b.Mw,
		sessions: sessions,
		ports:    Ports{Sessions: sessions, Sweeper: sessions},
	}
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the mount prefix
func (m *Module) Prefix() string { return m.prefix }

// MountRoutes mounts session routes under Prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, func(rr httpkit.Router) {
		wfhttp.Register(rr, m.sessions)
	})
}

// missing stands in for an unwired client so calls fail as Unavailable
type missing struct{ what string }

func (m missing) CommitSignature(context.Context, commitref.Reference) (dom.CommitSignature, error) {
	return dom.CommitSignature{}, perr.Unavailablef("%s is not configured", m.what)
}

func (m missing) Generate(context.Context, string, string) (dom.Proof, error) {
	return nil, perr.Unavailablef("%s is not configured", m.what)
}

func (m missing) Verify(context.Context, dom.Proof) (bool, error) {
	return false, perr.Unavailablef("%s is not configured", m.what)
}
