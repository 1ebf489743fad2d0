// Package modkit provides module wiring and core deps
package modkit

import (
	"zkcommit/internal/adapters/github"
	"zkcommit/internal/adapters/proofsvc"
	"zkcommit/internal/platform/config"
	"zkcommit/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log    logger.Logger
	Cfg    config.Conf
	GitHub *github.Client
	Proofs *proofsvc.Client
}

// Ready reports whether both outbound clients are wired
// the meta module uses this for its readiness answer
func (d Deps) Ready() bool { return d.GitHub != nil && d.Proofs != nil }
