package github

import "zkcommit/internal/platform/config"

// FromConfig reads GH_ keys under cfg's prefix; zero values fall back to client defaults
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("GH_")
	return Options{
		BaseURL:    c.MayURL("BASE_URL", baseURLDefault),
		UserAgent:  c.MayString("USER_AGENT", defaultUA),
		Timeout:    c.MayDuration("TIMEOUT", defaultTimeout),
		TokensCSV:  c.MayString("TOKENS", ""),
		RatePerSec: c.MayFloat64("RPS", defaultRPS),
		Burst:      c.MayInt("BURST", defaultBurst),
	}
}
