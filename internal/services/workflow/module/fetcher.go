package module

import (
	"context"

	"zkcommit/internal/adapters/github"
	"zkcommit/internal/core/commitref"
	"zkcommit/internal/platform/logger"
	dom "zkcommit/internal/services/workflow/domain"
)

// loggedFetcher records the GitHub status behind a failed fetch, which the
// session failure only carries as a coded message
type loggedFetcher struct {
	gh  dom.CommitFetcher
	log logger.Logger
}

func (f loggedFetcher) CommitSignature(ctx context.Context, ref commitref.Reference) (dom.CommitSignature, error) {
	sig, err := f.gh.CommitSignature(ctx, ref)
	if err == nil {
		return sig, nil
	}
	status := github.StatusOf(err)
	if status == 0 {
		return sig, err
	}
	if github.IsRateLimited(err) {
		f.log.Warn().Str("ref", ref.String()).Int("status", status).
			Dur("retry_after", github.RetryAfter(err)).Msg("github rate limited")
		return sig, err
	}
	f.log.Debug().Str("ref", ref.String()).Int("status", status).Msg("github rejected commit lookup")
	return sig, err
}
