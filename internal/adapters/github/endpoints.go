package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"zkcommit/internal/core/commitref"
	perr "zkcommit/internal/platform/errors"
	"zkcommit/internal/services/workflow/domain"
)

const maxCommitBody = 4 << 20

var _ domain.CommitFetcher = (*Client)(nil)

// CommitSignature fetches the signed payload and signature of a commit.
// Anything short of a non-empty payload and signature is an error.
func (c *Client) CommitSignature(ctx context.Context, ref commitref.Reference) (domain.CommitSignature, error) {
	const op = "github.commit_signature"
	path := ref.Path()

	resp, err := c.Do(ctx, http.MethodGet, path)
	if err != nil {
		return domain.CommitSignature{}, perr.WithOp(err, op)
	}
	defer func() {
		if cerr := drainAndClose(resp.Body); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("github close body failed")
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxCommitBody))
	if err != nil {
		return domain.CommitSignature{}, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeUnavailable, "github read body failed"), op)
	}

	var doc CommitDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return domain.CommitSignature{}, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeUpstream, "github commit body undecodable"), op)
	}

	v := doc.Commit.Verification
	if v == nil {
		return domain.CommitSignature{}, perr.WithOp(perr.Newf(perr.ErrorCodeUpstream, "commit %s has no verification block", ref), op)
	}
	if v.Payload == nil || *v.Payload == "" {
		return domain.CommitSignature{}, perr.WithOp(perr.Newf(perr.ErrorCodeUpstream, "commit %s has no signed payload", ref), op)
	}
	if v.Signature == nil || *v.Signature == "" {
		return domain.CommitSignature{}, perr.WithOp(perr.Newf(perr.ErrorCodeUpstream, "commit %s is not signed", ref), op)
	}

	c.log.Debug().Str("ref", ref.String()).Bool("gh_verified", v.Verified).Str("gh_reason", v.Reason).Msg("commit signature fetched")
	return domain.CommitSignature{Message: *v.Payload, Signature: *v.Signature}, nil
}
