package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"zkcommit/internal/core/commitref"
	perr "zkcommit/internal/platform/errors"
	dom "zkcommit/internal/services/workflow/domain"
)

// fakeFetcher serves commits from a map keyed by Reference.String()
type fakeFetcher struct {
	mu      sync.Mutex
	commits map[string]dom.CommitSignature
	calls   int
}

func (f *fakeFetcher) CommitSignature(_ context.Context, ref commitref.Reference) (dom.CommitSignature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	sig, ok := f.commits[ref.String()]
	if !ok {
		return dom.CommitSignature{}, perr.NotFoundf("github commit not found")
	}
	return sig, nil
}

// fakeProver issues proofs and accepts exactly the bytes it issued
type fakeProver struct {
	mu        sync.Mutex
	issued    map[string]bool
	genCalls  int
	verCalls  int
	genErr    error
	verifyErr error
}

func newFakeProver() *fakeProver { return &fakeProver{issued: map[string]bool{}} }

func (p *fakeProver) Generate(_ context.Context, sig, msg string) (dom.Proof, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.genCalls++
	if p.genErr != nil {
		return nil, p.genErr
	}
	sum := sha256.Sum256([]byte(sig + "\x00" + msg))
	b, _ := json.Marshal(map[string]string{"protocol": "fake", "commitment": hex.EncodeToString(sum[:])})
	p.issued[string(b)] = true
	return dom.Proof(b), nil
}

func (p *fakeProver) Verify(_ context.Context, proof dom.Proof) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verCalls++
	if p.verifyErr != nil {
		return false, p.verifyErr
	}
	return p.issued[string(proof)], nil
}

const (
	testURL = "https://github.com/acme/widgets/commit/abc123"
	testSig = "-----BEGIN SSH SIGNATURE-----\nU1NIU0lH\n-----END SSH SIGNATURE-----"
	testMsg = "tree 1f\nauthor a <a@b> 1 +0000\n\nadd widget\n"
)

func newFakes() (*fakeFetcher, *fakeProver) {
	return &fakeFetcher{commits: map[string]dom.CommitSignature{
		"acme/widgets@abc123": {Signature: testSig, Message: testMsg},
	}}, newFakeProver()
}
