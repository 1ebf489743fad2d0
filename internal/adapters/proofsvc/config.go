package proofsvc

import "zkcommit/internal/platform/config"

// FromConfig reads PROOF_ keys under cfg's prefix. BASE_URL has no default;
// NewClient rejects the empty value.
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("PROOF_")
	return Options{
		BaseURL:   c.MayURL("BASE_URL", ""),
		UserAgent: c.MayString("USER_AGENT", defaultUA),
		Timeout:   c.MayDuration("TIMEOUT", defaultTimeout),
	}
}
