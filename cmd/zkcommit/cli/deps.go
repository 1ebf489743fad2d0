package cli

import (
	"zkcommit/internal/adapters/github"
	"zkcommit/internal/adapters/proofsvc"
	"zkcommit/internal/modkit"
	"zkcommit/internal/platform/config"
	"zkcommit/internal/platform/logger"
)

// clientFlags override the outbound client settings from env
type clientFlags struct {
	proofURL  string
	githubURL string
	ghTokens  string
}

func (f clientFlags) apply() {
	setEnv("PROOF_BASE_URL", f.proofURL)
	setEnv("GH_BASE_URL", f.githubURL)
	setEnv("GH_TOKENS", f.ghTokens)
}

// buildDeps constructs both outbound clients; the proof service url is required
func buildDeps(cfg config.Conf) (modkit.Deps, error) {
	proofs, err := proofsvc.NewClient(proofsvc.FromConfig(cfg))
	if err != nil {
		return modkit.Deps{}, err
	}
	return modkit.Deps{
		Log:    *logger.Get(),
		Cfg:    cfg,
		GitHub: github.NewClient(github.FromConfig(cfg)),
		Proofs: proofs,
	}, nil
}
