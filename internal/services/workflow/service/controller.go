// Package service implements the commit proof workflow: the pure machine, the controller and sessions
package service

import (
	"context"
	"sync"

	"zkcommit/internal/platform/logger"
	dom "zkcommit/internal/services/workflow/domain"
)

// Controller owns one workflow state. The lock guards transitions only and is
// never held across a network call.
type Controller struct {
	mu     sync.Mutex
	st     dom.State
	id     string
	fetch  dom.CommitFetcher
	proofs dom.ProofService
	log    logger.Logger
}

// ControllerOption customises a Controller
type ControllerOption func(*Controller)

// WithID tags snapshots and log lines with a session id
func WithID(id string) ControllerOption { return func(c *Controller) { c.id = id } }

// WithCommitURL seeds the commit url
func WithCommitURL(url string) ControllerOption { return func(c *Controller) { c.st.CommitURL = url } }

// NewController builds a controller in the Idle phase
func NewController(fetch dom.CommitFetcher, proofs dom.ProofService, opts ...ControllerOption) *Controller {
	c := &Controller{fetch: fetch, proofs: proofs}
	for _, o := range opts {
		o(c)
	}
	c.log = *logger.Named("workflow")
	if c.id != "" {
		c.log = c.log.With().Str("session_id", c.id).Logger()
	}
	return c
}

// ID returns the session id, if any
func (c *Controller) ID() string { return c.id }

// apply runs one transition under the lock
func (c *Controller) apply(ev Event) (dom.Snapshot, Effect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, eff, err := Apply(c.st, ev)
	c.st = next
	return next.Snapshot(c.id), eff, err
}

func (c *Controller) read() dom.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() dom.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.Snapshot(c.id)
}

// SetCommitURL stores the url; it is parsed on load
func (c *Controller) SetCommitURL(url string) dom.Snapshot {
	s, _, _ := c.apply(SetURL{URL: url})
	return s
}

// CommitURL returns the stored url
func (c *Controller) CommitURL() string { return c.read().CommitURL }

// Signature returns the signature text
func (c *Controller) Signature() string { return c.read().Signature.Signature }

// SetSignature edits the signature and voids any verdict
func (c *Controller) SetSignature(sig string) dom.Snapshot {
	s, _, _ := c.apply(EditSignature{Signature: sig})
	return s
}

// Message returns the signed payload text
func (c *Controller) Message() string { return c.read().Signature.Message }

// SetMessage edits the signed payload and voids any verdict
func (c *Controller) SetMessage(msg string) dom.Snapshot {
	s, _, _ := c.apply(EditMessage{Message: msg})
	return s
}

// Proof returns a copy of the held proof
func (c *Controller) Proof() dom.Proof { return c.read().Proof.Clone() }

// SetProof replaces the proof bytes and voids any verdict
func (c *Controller) SetProof(p dom.Proof) dom.Snapshot {
	s, _, _ := c.apply(EditProof{Proof: p})
	return s
}

// SetProofText replaces the proof with operator text, see dom.ProofFromText
func (c *Controller) SetProofText(text string) dom.Snapshot {
	return c.SetProof(dom.ProofFromText(text))
}

// IsGeneratingProof reports whether a generate call is out
func (c *Controller) IsGeneratingProof() bool { return c.read().Phase == dom.PhaseGeneratingProof }

// IsVerifying reports whether a verify call is out
func (c *Controller) IsVerifying() bool { return c.read().Phase == dom.PhaseVerifying }

// VerificationResult is the tri-state verdict: nil, true or false
func (c *Controller) VerificationResult() *bool { return c.read().Verdict.Bool() }

// Verdict returns the verdict enum
func (c *Controller) Verdict() dom.Verdict { return c.read().Verdict }

// Phase returns the workflow phase
func (c *Controller) Phase() dom.Phase { return c.read().Phase }

// LastFailure returns the failure of the last operation, or nil
func (c *Controller) LastFailure() *dom.Failure {
	f := c.read().LastFailure
	if f == nil {
		return nil
	}
	cp := *f
	return &cp
}

// LoadCommit parses the stored url and fetches the commit signature
func (c *Controller) LoadCommit(ctx context.Context) (dom.Snapshot, error) {
	snap, eff, err := c.apply(LoadRequested{})
	if err != nil {
		logger.C(ctx).Debug().Err(err).Str("commit_url", snap.CommitURL).Msg("load rejected")
		return snap, err
	}

	log := c.log.With().Str("ref", eff.Ref.String()).Logger()
	log.Info().Msg("fetching commit signature")

	sig, ferr := c.fetch.CommitSignature(ctx, eff.Ref)
	if ferr != nil {
		log.Warn().Err(ferr).Msg("commit fetch failed")
		snap, _, _ = c.apply(FetchFailed{Err: ferr})
		return snap, ferr
	}
	snap, _, _ = c.apply(FetchSucceeded{Signature: sig})
	log.Info().Int("payload_bytes", len(sig.Message)).Msg("commit signature loaded")
	return snap, nil
}

// LoadCommitFromURL stores url then loads it
func (c *Controller) LoadCommitFromURL(ctx context.Context, url string) (dom.Snapshot, error) {
	c.SetCommitURL(url)
	return c.LoadCommit(ctx)
}

// GenerateProof asks the proof service for a proof over the held signature
func (c *Controller) GenerateProof(ctx context.Context) (dom.Snapshot, error) {
	snap, eff, err := c.apply(GenerateRequested{})
	if err != nil {
		logger.C(ctx).Debug().Err(err).Str("phase", snap.Phase.String()).Msg("generate rejected")
		return snap, err
	}

	c.log.Info().Int("payload_bytes", len(eff.Signature.Message)).Msg("generating proof")
	proof, gerr := c.proofs.Generate(ctx, eff.Signature.Signature, eff.Signature.Message)
	if gerr != nil {
		c.log.Warn().Err(gerr).Msg("proof generation failed")
		snap, _, _ = c.apply(GenerateFailed{Err: gerr})
		return snap, gerr
	}
	snap, _, _ = c.apply(GenerateSucceeded{Proof: proof})
	c.log.Info().Int("proof_bytes", len(proof)).Msg("proof ready")
	return snap, nil
}

// VerifyProof submits the held proof; a false verdict is not an error
func (c *Controller) VerifyProof(ctx context.Context) (dom.Snapshot, error) {
	snap, eff, err := c.apply(VerifyRequested{})
	if err != nil {
		logger.C(ctx).Debug().Err(err).Str("phase", snap.Phase.String()).Msg("verify rejected")
		return snap, err
	}

	c.log.Info().Int("proof_bytes", len(eff.Proof)).Msg("verifying proof")
	ok, verr := c.proofs.Verify(ctx, eff.Proof)
	if verr != nil {
		c.log.Warn().Err(verr).Msg("proof verification call failed")
		snap, _, _ = c.apply(VerifyFailed{Err: verr})
		return snap, verr
	}
	snap, _, _ = c.apply(VerifySucceeded{Valid: ok})
	c.log.Info().Str("verdict", snap.Verdict.String()).Msg("proof verified")
	return snap, nil
}

// InFlight reports whether any network call is out
func (c *Controller) InFlight() bool { return c.read().InFlight() }
