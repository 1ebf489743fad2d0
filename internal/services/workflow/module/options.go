package module

import (
	"time"

	"zkcommit/internal/platform/config"
	dom "zkcommit/internal/services/workflow/domain"
	"zkcommit/internal/services/workflow/service"
)

// Options controls the workflow module
type Options struct {
	SessionTTL time.Duration

	// Fetcher and Prover replace the clients from modkit.Deps when set
	Fetcher dom.CommitFetcher
	Prover  dom.ProofService
}

// FromConfig reads module keys under cfg's prefix
func FromConfig(cfg config.Conf) Options {
	return Options{
		SessionTTL: cfg.MayDuration("SESSION_TTL", service.DefaultSessionTTL),
	}
}
