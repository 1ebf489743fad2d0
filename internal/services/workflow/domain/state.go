package domain

import "zkcommit/internal/core/commitref"

// State is the single owned workflow record. Only the machine mutates it.
type State struct {
	CommitURL   string
	Reference   *commitref.Reference
	Signature   CommitSignature
	Proof       Proof
	Verdict     Verdict
	Phase       Phase
	LastFailure *Failure

	// InputRev bumps on every edit of the signature, message or proof; VerifyRev is the revision a verify was issued for
	InputRev  uint64
	VerifyRev uint64

	// Resume is the phase restored when a fetch fails
	Resume Phase
}

// InFlight reports whether a network call is outstanding
func (s State) InFlight() bool { return s.Phase.InFlight() }

// RestPhase derives the phase from the held contents
func (s State) RestPhase() Phase {
	switch {
	case !s.Proof.IsEmpty():
		return PhaseProofReady
	case !s.Signature.IsEmpty():
		return PhaseReady
	default:
		return PhaseIdle
	}
}

// Snapshot copies the state for callers; id is the owning session if any
func (s State) Snapshot(id string) Snapshot {
	var ref *commitref.Reference
	if s.Reference != nil {
		r := *s.Reference
		ref = &r
	}
	var f *Failure
	if s.LastFailure != nil {
		c := *s.LastFailure
		f = &c
	}
	return Snapshot{
		ID:                 id,
		Phase:              s.Phase,
		CommitURL:          s.CommitURL,
		Reference:          ref,
		Signature:          s.Signature.Signature,
		Message:            s.Signature.Message,
		Proof:              s.Proof.Clone(),
		IsGeneratingProof:  s.Phase == PhaseGeneratingProof,
		IsVerifying:        s.Phase == PhaseVerifying,
		Verdict:            s.Verdict,
		VerificationResult: s.Verdict.Bool(),
		Error:              f,
	}
}
