// Package commitref parses commit page URLs into repository coordinates
package commitref

import (
	"fmt"
	"strings"

	perr "zkcommit/internal/platform/errors"
)

// minSegments is owner, repo, the commit marker and the ref
const minSegments = 4

// Reference locates one commit on a hosting provider
type Reference struct {
	Owner      string `json:"owner"`
	Repository string `json:"repository"`
	Ref        string `json:"ref"`
}

// String renders owner/repo@ref
func (r Reference) String() string { return r.Owner + "/" + r.Repository + "@" + r.Ref }

// Path returns the commit detail API path for r
func (r Reference) Path() string {
	return fmt.Sprintf("/repos/%s/%s/commits/%s", r.Owner, r.Repository, r.Ref)
}

// Parse reads coordinates positionally from a URL shaped like
// .../<owner>/<repo>/commit/<ref>. The commit marker is not checked and
// segment content is not validated; too few or empty segments fail.
func Parse(raw string) (Reference, error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}

	parts := strings.Split(s, "/")
	if len(parts) < minSegments {
		return Reference{}, perr.WithField(
			perr.InvalidArgf("commit url %q has %d path segments, need at least %d", raw, len(parts), minSegments),
			"commit_url",
		)
	}

	n := len(parts)
	ref := Reference{
		Owner:      parts[n-4],
		Repository: parts[n-3],
		Ref:        parts[n-1],
	}
	switch {
	case ref.Owner == "":
		return Reference{}, perr.WithField(perr.InvalidArgf("commit url %q has an empty owner", raw), "commit_url")
	case ref.Repository == "":
		return Reference{}, perr.WithField(perr.InvalidArgf("commit url %q has an empty repository", raw), "commit_url")
	case ref.Ref == "":
		return Reference{}, perr.WithField(perr.InvalidArgf("commit url %q has an empty ref", raw), "commit_url")
	}
	return ref, nil
}
