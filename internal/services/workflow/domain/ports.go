package domain

import (
	"context"

	"zkcommit/internal/core/commitref"
)

// CommitFetcher resolves a commit reference to its signed payload
type CommitFetcher interface {
	CommitSignature(ctx context.Context, ref commitref.Reference) (CommitSignature, error)
}

// ProofService is the remote prover and verifier
type ProofService interface {
	Generate(ctx context.Context, signature, message string) (Proof, error)
	Verify(ctx context.Context, proof Proof) (bool, error)
}
