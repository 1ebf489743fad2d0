// Package domain defines the workflow types and the ports it drives
package domain

import (
	"bytes"
	"encoding/json"

	"zkcommit/internal/core/commitref"
	perr "zkcommit/internal/platform/errors"
)

// CommitSignature is the signed payload and its signature, fetched or pasted
type CommitSignature struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// IsEmpty reports whether both fields are blank
func (c CommitSignature) IsEmpty() bool { return c.Message == "" && c.Signature == "" }

// Proof is the opaque JSON value returned by the proof service.
// Its bytes are passed through verbatim and never interpreted.
type Proof []byte

// ProofFromText carries operator text: valid JSON is kept as is,
// anything else travels as a JSON string
func ProofFromText(text string) Proof {
	if text == "" {
		return nil
	}
	if json.Valid([]byte(text)) {
		return Proof(text)
	}
	b, _ := json.Marshal(text)
	return Proof(b)
}

// IsEmpty reports whether no proof is held
func (p Proof) IsEmpty() bool { return len(bytes.TrimSpace(p)) == 0 }

// String returns the proof text
func (p Proof) String() string { return string(p) }

// Equal compares the raw bytes
func (p Proof) Equal(o Proof) bool { return bytes.Equal(p, o) }

// Clone copies the bytes so callers cannot alias controller state
func (p Proof) Clone() Proof {
	if p == nil {
		return nil
	}
	return append(Proof(nil), p...)
}

// MarshalJSON emits the proof verbatim, or null when empty
func (p Proof) MarshalJSON() ([]byte, error) {
	if p.IsEmpty() {
		return []byte("null"), nil
	}
	return p, nil
}

// UnmarshalJSON keeps the raw value bytes; null clears the proof
func (p *Proof) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*p = nil
		return nil
	}
	*p = append((*p)[:0], b...)
	return nil
}

// Verdict is the tri-state outcome of verification
type Verdict uint8

const (
	// VerdictUnknown means not checked since the inputs last changed
	VerdictUnknown Verdict = iota
	// VerdictValid means the service accepted the proof
	VerdictValid
	// VerdictInvalid means the service rejected the proof
	VerdictInvalid
)

// String returns the wire name
func (v Verdict) String() string {
	switch v {
	case VerdictValid:
		return "valid"
	case VerdictInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Bool returns nil for unknown, else the verdict as a bool
func (v Verdict) Bool() *bool {
	switch v {
	case VerdictValid:
		t := true
		return &t
	case VerdictInvalid:
		f := false
		return &f
	default:
		return nil
	}
}

// MarshalText implements encoding.TextMarshaler
func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Phase is the workflow position
type Phase uint8

// Phases of the workflow
const (
	PhaseIdle Phase = iota
	PhaseAwaitingCommit
	PhaseReady
	PhaseGeneratingProof
	PhaseProofReady
	PhaseVerifying
	PhaseVerified
	PhaseVerificationFailed
)

var phaseNames = [...]string{
	PhaseIdle:               "idle",
	PhaseAwaitingCommit:     "awaiting_commit",
	PhaseReady:              "ready",
	PhaseGeneratingProof:    "generating_proof",
	PhaseProofReady:         "proof_ready",
	PhaseVerifying:          "verifying",
	PhaseVerified:           "verified",
	PhaseVerificationFailed: "verification_failed",
}

// String returns the wire name
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// InFlight reports whether a network call is outstanding in this phase
func (p Phase) InFlight() bool {
	return p == PhaseAwaitingCommit || p == PhaseGeneratingProof || p == PhaseVerifying
}

// ErrorKind says which step failed
type ErrorKind uint8

// Failure kinds
const (
	KindNone ErrorKind = iota
	KindParse
	KindFetch
	KindProofService
	KindBusy
	KindInput
)

var kindNames = [...]string{
	KindNone:         "",
	KindParse:        "parse",
	KindFetch:        "fetch",
	KindProofService: "proof_service",
	KindBusy:         "busy",
	KindInput:        "input",
}

// String returns the wire name
func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (k ErrorKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Failure is the observable error of the last operation, kept apart from the verdict
type Failure struct {
	Kind    ErrorKind      `json:"kind"`
	Code    perr.ErrorCode `json:"code"`
	Message string         `json:"message"`
	err     error
}

// NewFailure classifies err under kind
func NewFailure(kind ErrorKind, err error) *Failure {
	if err == nil {
		return nil
	}
	return &Failure{Kind: kind, Code: perr.CodeOf(err), Message: err.Error(), err: err}
}

// Err returns the underlying error
func (f *Failure) Err() error {
	if f == nil {
		return nil
	}
	return f.err
}

// Snapshot is a copy of the workflow state safe to hand to callers
type Snapshot struct {
	ID                 string               `json:"id,omitempty"`
	Phase              Phase                `json:"phase"`
	CommitURL          string               `json:"commit_url"`
	Reference          *commitref.Reference `json:"reference,omitempty"`
	Signature          string               `json:"signature"`
	Message            string               `json:"message"`
	Proof              Proof                `json:"proof"`
	IsGeneratingProof  bool                 `json:"is_generating_proof"`
	IsVerifying        bool                 `json:"is_verifying"`
	Verdict            Verdict              `json:"verdict"`
	VerificationResult *bool                `json:"verification_result"`
	Error              *Failure             `json:"error,omitempty"`
}
