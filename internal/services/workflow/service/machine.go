package service

import (
	"zkcommit/internal/core/commitref"
	perr "zkcommit/internal/platform/errors"
	dom "zkcommit/internal/services/workflow/domain"
)

// Event is an input to the workflow machine
type Event interface{ event() }

// Operator edits
type (
	SetURL        struct{ URL string }
	EditSignature struct{ Signature string }
	EditMessage   struct{ Message string }
	EditProof     struct{ Proof dom.Proof }
)

// Operation requests
type (
	LoadRequested     struct{}
	GenerateRequested struct{}
	VerifyRequested   struct{}
)

// Completions of the effects issued by the requests
type (
	FetchSucceeded    struct{ Signature dom.CommitSignature }
	FetchFailed       struct{ Err error }
	GenerateSucceeded struct{ Proof dom.Proof }
	GenerateFailed    struct{ Err error }
	VerifySucceeded   struct{ Valid bool }
	VerifyFailed      struct{ Err error }
)

func (SetURL) event()            {}
func (EditSignature) event()     {}
func (EditMessage) event()       {}
func (EditProof) event()         {}
func (LoadRequested) event()     {}
func (GenerateRequested) event() {}
func (VerifyRequested) event()   {}
func (FetchSucceeded) event()    {}
func (FetchFailed) event()       {}
func (GenerateSucceeded) event() {}
func (GenerateFailed) event()    {}
func (VerifySucceeded) event()   {}
func (VerifyFailed) event()      {}

// EffectKind names the network call a transition asks for
type EffectKind uint8

// Effects
const (
	EffectNone EffectKind = iota
	EffectFetch
	EffectGenerate
	EffectVerify
)

// Effect is the call the controller must perform after a transition
type Effect struct {
	Kind      EffectKind
	Ref       commitref.Reference
	Signature dom.CommitSignature
	Proof     dom.Proof
}

var none = Effect{}

// Apply is the pure transition function. It never performs I/O.
// A rejected request returns the error with LastFailure set; a successful completion clears it.
func Apply(s dom.State, ev Event) (dom.State, Effect, error) {
	switch e := ev.(type) {
	case SetURL:
		s.CommitURL = e.URL
		return s, none, nil

	case EditSignature:
		s.Signature.Signature = e.Signature
		return edited(s), none, nil

	case EditMessage:
		s.Signature.Message = e.Message
		return edited(s), none, nil

	case EditProof:
		s.Proof = e.Proof.Clone()
		return edited(s), none, nil

	case LoadRequested:
		if s.InFlight() {
			return busy(s, "load")
		}
		ref, err := commitref.Parse(s.CommitURL)
		if err != nil {
			s.LastFailure = dom.NewFailure(dom.KindParse, err)
			return s, none, err
		}
		s.Reference = &ref
		s.Resume = s.Phase
		s.Phase = dom.PhaseAwaitingCommit
		s.LastFailure = nil
		return s, Effect{Kind: EffectFetch, Ref: ref}, nil

	case FetchSucceeded:
		if s.Phase != dom.PhaseAwaitingCommit {
			return s, none, nil
		}
		s.Signature = e.Signature
		s.Verdict = dom.VerdictUnknown
		s.LastFailure = nil
		s.Phase = dom.PhaseReady
		if !s.Proof.IsEmpty() {
			s.Phase = dom.PhaseProofReady
		}
		return s, none, nil

	case FetchFailed:
		if s.Phase != dom.PhaseAwaitingCommit {
			return s, none, nil
		}
		s.Phase = s.RestPhase()
		if verdictPhase(s.Resume) && s.Verdict != dom.VerdictUnknown {
			s.Phase = s.Resume
		}
		s.LastFailure = dom.NewFailure(dom.KindFetch, e.Err)
		return s, none, nil

	case GenerateRequested:
		if s.InFlight() {
			return busy(s, "generate")
		}
		if s.Signature.IsEmpty() {
			err := perr.InvalidArgf("nothing to prove: load a commit or enter a signature and message first")
			s.LastFailure = dom.NewFailure(dom.KindInput, err)
			return s, none, err
		}
		s.Phase = dom.PhaseGeneratingProof
		s.Verdict = dom.VerdictUnknown
		s.LastFailure = nil
		return s, Effect{Kind: EffectGenerate, Signature: s.Signature}, nil

	case GenerateSucceeded:
		if s.Phase != dom.PhaseGeneratingProof {
			return s, none, nil
		}
		s.Proof = e.Proof.Clone()
		s.InputRev++
		s.Verdict = dom.VerdictUnknown
		s.LastFailure = nil
		s.Phase = dom.PhaseProofReady
		return s, none, nil

	case GenerateFailed:
		if s.Phase != dom.PhaseGeneratingProof {
			return s, none, nil
		}
		s.Proof = nil
		s.InputRev++
		s.Verdict = dom.VerdictUnknown
		s.Phase = s.RestPhase()
		s.LastFailure = dom.NewFailure(dom.KindProofService, e.Err)
		return s, none, nil

	case VerifyRequested:
		if s.InFlight() {
			return busy(s, "verify")
		}
		if s.Proof.IsEmpty() {
			err := perr.InvalidArgf("no proof to verify")
			s.LastFailure = dom.NewFailure(dom.KindInput, err)
			return s, none, err
		}
		s.Phase = dom.PhaseVerifying
		s.Verdict = dom.VerdictUnknown
		s.VerifyRev = s.InputRev
		s.LastFailure = nil
		return s, Effect{Kind: EffectVerify, Proof: s.Proof.Clone()}, nil

	case VerifySucceeded:
		if s.Phase != dom.PhaseVerifying {
			return s, none, nil
		}
		s.LastFailure = nil
		if s.VerifyRev != s.InputRev {
			// inputs changed while the call was out; the verdict belongs to old contents
			s.Verdict = dom.VerdictUnknown
			s.Phase = s.RestPhase()
			return s, none, nil
		}
		if e.Valid {
			s.Verdict = dom.VerdictValid
			s.Phase = dom.PhaseVerified
		} else {
			s.Verdict = dom.VerdictInvalid
			s.Phase = dom.PhaseVerificationFailed
		}
		return s, none, nil

	case VerifyFailed:
		if s.Phase != dom.PhaseVerifying {
			return s, none, nil
		}
		s.Verdict = dom.VerdictUnknown
		s.Phase = s.RestPhase()
		s.LastFailure = dom.NewFailure(dom.KindProofService, e.Err)
		return s, none, nil
	}
	return s, none, perr.Newf(perr.ErrorCodeUnknown, "workflow: unhandled event %T", ev)
}

// edited bumps the input revision, resets the verdict and, when nothing is in flight, re-derives the phase
func edited(s dom.State) dom.State {
	s.InputRev++
	s.Verdict = dom.VerdictUnknown
	if !s.InFlight() {
		s.Phase = s.RestPhase()
	}
	return s
}

func verdictPhase(p dom.Phase) bool {
	return p == dom.PhaseVerified || p == dom.PhaseVerificationFailed
}

func busy(s dom.State, op string) (dom.State, Effect, error) {
	err := perr.Conflictf("cannot %s while %s is in progress", op, s.Phase)
	s.LastFailure = dom.NewFailure(dom.KindBusy, err)
	return s, none, err
}
