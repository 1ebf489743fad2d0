// Package http exposes workflow sessions over the JSON API
package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"

	"zkcommit/internal/modkit/httpkit"
	perr "zkcommit/internal/platform/errors"
	"zkcommit/internal/platform/logger"
	pnet "zkcommit/internal/platform/net"
	dom "zkcommit/internal/services/workflow/domain"
	"zkcommit/internal/services/workflow/service"
)

// Sessions is the session registry the handlers drive
type Sessions interface {
	Create(commitURL string) *service.Controller
	Get(id string) (*service.Controller, error)
	Delete(id string) bool
}

// CommitURLInput carries an optional commit url
type CommitURLInput struct {
	CommitURL string `json:"commit_url" validate:"max=2048"`
}

// SetCommitURLInput replaces the stored commit url
type SetCommitURLInput struct {
	CommitURL *string `json:"commit_url" validate:"required,max=2048"`
}

// SignatureInput edits the signature and message, either may be omitted
type SignatureInput struct {
	Signature *string `json:"signature"`
	Message   *string `json:"message"`
}

// ProofInput replaces the proof with raw JSON or with text
type ProofInput struct {
	Proof     json.RawMessage `json:"proof"`
	ProofText *string         `json:"proof_text"`
}

// maxProofBody leaves headroom over what the proof service may return
const maxProofBody = 9 << 20

type handlers struct{ sessions Sessions }

// Register mounts workflow routes on r
func Register(r httpkit.Router, s Sessions) {
	h := &handlers{sessions: s}

	optional := httpkit.DefaultJSONOptions()
	optional.AllowEmptyBody = true

	proofOpts := httpkit.DefaultJSONOptions()
	proofOpts.MaxBytes = maxProofBody

	httpkit.PostJSON(r, "/", h.create, optional)
	httpkit.GetJSON(r, "/{id}", h.get)
	httpkit.DeleteJSON(r, "/{id}", h.remove)
	httpkit.PutJSON(r, "/{id}/commit-url", h.setCommitURL)
	httpkit.PostJSON(r, "/{id}/load", h.load, optional)
	httpkit.PutJSON(r, "/{id}/signature", h.setSignature)
	httpkit.PutJSON(r, "/{id}/proof", h.setProof, proofOpts)
	httpkit.Post(r, "/{id}/generate-proof", h.generate)
	httpkit.Post(r, "/{id}/verify-proof", h.verify)
}

// session resolves the path id and tags the context with it
func (h *handlers) session(r *stdhttp.Request) (*service.Controller, *stdhttp.Request, error) {
	id := httpkit.Param(r, "id")
	c, err := h.sessions.Get(id)
	if err != nil {
		return nil, r, err
	}
	return c, r.WithContext(pnet.WithSession(r.Context(), id)), nil
}

// step renders a controller result; failures still carry the snapshot
func step(snap dom.Snapshot, err error) (any, error) {
	if err != nil {
		return httpkit.ErrorWith(err, snap), nil
	}
	return snap, nil
}

func (h *handlers) create(r *stdhttp.Request, in CommitURLInput) (any, error) {
	c := h.sessions.Create(in.CommitURL)
	logger.C(pnet.WithSession(r.Context(), c.ID())).Debug().Msg("workflow created")
	return httpkit.Created(c.Snapshot()), nil
}

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	c, _, err := h.session(r)
	if err != nil {
		return nil, err
	}
	return c.Snapshot(), nil
}

func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	id := httpkit.Param(r, "id")
	if !h.sessions.Delete(id) {
		return nil, perr.NotFoundf("workflow %q not found", id)
	}
	logger.C(pnet.WithSession(r.Context(), id)).Debug().Msg("workflow deleted")
	return httpkit.NoContent(), nil
}

func (h *handlers) setCommitURL(r *stdhttp.Request, in SetCommitURLInput) (any, error) {
	c, _, err := h.session(r)
	if err != nil {
		return nil, err
	}
	return c.SetCommitURL(*in.CommitURL), nil
}

func (h *handlers) load(r *stdhttp.Request, in CommitURLInput) (any, error) {
	c, r, err := h.session(r)
	if err != nil {
		return nil, err
	}
	if in.CommitURL != "" {
		return step(c.LoadCommitFromURL(r.Context(), in.CommitURL))
	}
	return step(c.LoadCommit(r.Context()))
}

func (h *handlers) setSignature(r *stdhttp.Request, in SignatureInput) (any, error) {
	c, _, err := h.session(r)
	if err != nil {
		return nil, err
	}
	if in.Signature == nil && in.Message == nil {
		return nil, perr.WithField(perr.InvalidArgf("signature or message is required"), "signature")
	}
	snap := c.Snapshot()
	if in.Signature != nil {
		snap = c.SetSignature(*in.Signature)
	}
	if in.Message != nil {
		snap = c.SetMessage(*in.Message)
	}
	return snap, nil
}

func (h *handlers) setProof(r *stdhttp.Request, in ProofInput) (any, error) {
	c, _, err := h.session(r)
	if err != nil {
		return nil, err
	}
	hasRaw := len(in.Proof) > 0
	switch {
	case hasRaw && in.ProofText != nil:
		return nil, perr.WithField(perr.InvalidArgf("set proof or proof_text, not both"), "proof")
	case in.ProofText != nil:
		return c.SetProofText(*in.ProofText), nil
	case hasRaw:
		if bytes.Equal(bytes.TrimSpace(in.Proof), []byte("null")) {
			return c.SetProof(nil), nil
		}
		return c.SetProof(dom.Proof(in.Proof)), nil
	default:
		return nil, perr.WithField(perr.InvalidArgf("proof or proof_text is required"), "proof")
	}
}

func (h *handlers) generate(r *stdhttp.Request) (any, error) {
	c, r, err := h.session(r)
	if err != nil {
		return nil, err
	}
	return step(c.GenerateProof(r.Context()))
}

func (h *handlers) verify(r *stdhttp.Request) (any, error) {
	c, r, err := h.session(r)
	if err != nil {
		return nil, err
	}
	return step(c.VerifyProof(r.Context()))
}
