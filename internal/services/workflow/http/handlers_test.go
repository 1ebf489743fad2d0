package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zkcommit/internal/core/commitref"
	perr "zkcommit/internal/platform/errors"
	phttp "zkcommit/internal/platform/net/http"
	dom "zkcommit/internal/services/workflow/domain"
	"zkcommit/internal/services/workflow/service"
)

const (
	commitURL = "https://github.com/acme/widgets/commit/abc123"
	sigText   = "-----BEGIN SSH SIGNATURE-----\nU1NIU0lH\n-----END SSH SIGNATURE-----"
	msgText   = "tree 1f\n\nadd widget\n"
)

type stubFetcher struct{}

func (stubFetcher) CommitSignature(_ context.Context, ref commitref.Reference) (dom.CommitSignature, error) {
	if ref.String() != "acme/widgets@abc123" {
		return dom.CommitSignature{}, perr.NotFoundf("github commit not found")
	}
	return dom.CommitSignature{Signature: sigText, Message: msgText}, nil
}

// stubProver accepts only the last proof it issued, byte for byte
type stubProver struct {
	mu     sync.Mutex
	issued string
	genErr error
}

func (p *stubProver) Generate(context.Context, string, string) (dom.Proof, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.genErr != nil {
		return nil, p.genErr
	}
	p.issued = `{"pi": "p/q@r", "n": 7}`
	return dom.Proof(p.issued), nil
}

func (p *stubProver) Verify(_ context.Context, proof dom.Proof) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return string(proof) == p.issued, nil
}

type envelope struct {
	StatusCode int            `json:"status_code"`
	Code       perr.ErrorCode `json:"code"`
	Error      string         `json:"error"`
	Field      string         `json:"field"`
	Data       map[string]any `json:"data"`
}

type harness struct {
	t      *testing.T
	mux    *chi.Mux
	prover *stubProver
	sess   *service.Sessions
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	prover := &stubProver{}
	sess := service.NewSessions(stubFetcher{}, prover, 0)
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Route("/workflows", func(sub phttp.Router) { Register(sub, sess) })
	return &harness{t: t, mux: mux, prover: prover, sess: sess}
}

func (h *harness) do(method, path, body string) (int, envelope, string) {
	h.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, req)
	var env envelope
	if rr.Body.Len() > 0 {
		require.NoError(h.t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	}
	return rr.Code, env, rr.Body.String()
}

func (h *harness) create(body string) string {
	h.t.Helper()
	code, env, raw := h.do(stdhttp.MethodPost, "/workflows", body)
	require.Equal(h.t, stdhttp.StatusCreated, code, raw)
	id, _ := env.Data["id"].(string)
	require.NotEmpty(h.t, id)
	return id
}

func TestWorkflowHappyPathOverHTTP(t *testing.T) {
	h := newHarness(t)
	id := h.create(`{"commit_url":"` + commitURL + `"}`)
	base := "/workflows/" + id

	code, env, raw := h.do(stdhttp.MethodPost, base+"/load", "")
	require.Equal(t, stdhttp.StatusOK, code, raw)
	assert.Equal(t, "ready", env.Data["phase"])
	assert.Equal(t, sigText, env.Data["signature"])
	assert.Equal(t, msgText, env.Data["message"])

	code, env, raw = h.do(stdhttp.MethodPost, base+"/generate-proof", "")
	require.Equal(t, stdhttp.StatusOK, code, raw)
	assert.Equal(t, "proof_ready", env.Data["phase"])
	assert.Contains(t, raw, `"proof":{"pi":"p/q@r","n":7}`)

	// the stored proof keeps the service's whitespace so the stub recognises it
	code, env, _ = h.do(stdhttp.MethodPost, base+"/verify-proof", "")
	require.Equal(t, stdhttp.StatusOK, code)
	assert.Equal(t, "verified", env.Data["phase"])
	assert.Equal(t, true, env.Data["verification_result"])

	code, env, _ = h.do(stdhttp.MethodPut, base+"/proof", `{"proof_text":"tampered"}`)
	require.Equal(t, stdhttp.StatusOK, code)
	assert.Equal(t, "proof_ready", env.Data["phase"])
	assert.Nil(t, env.Data["verification_result"])

	code, env, _ = h.do(stdhttp.MethodPost, base+"/verify-proof", "")
	require.Equal(t, stdhttp.StatusOK, code)
	assert.Equal(t, "verification_failed", env.Data["phase"])
	assert.Equal(t, false, env.Data["verification_result"])

	code, _, _ = h.do(stdhttp.MethodDelete, base, "")
	assert.Equal(t, stdhttp.StatusNoContent, code)
	code, env, _ = h.do(stdhttp.MethodGet, base, "")
	assert.Equal(t, stdhttp.StatusNotFound, code)
	assert.Equal(t, perr.ErrorCodeNotFound, env.Code)
}

func TestLoadErrorsCarrySnapshot(t *testing.T) {
	h := newHarness(t)
	id := h.create("")
	base := "/workflows/" + id

	code, env, raw := h.do(stdhttp.MethodPost, base+"/load", `{"commit_url":"https://github.com/acme"}`)
	require.Equal(t, stdhttp.StatusUnprocessableEntity, code, raw)
	assert.Equal(t, perr.ErrorCodeInvalidArgument, env.Code)
	require.NotNil(t, env.Data, "error responses keep the snapshot")
	assert.Equal(t, "idle", env.Data["phase"])
	failure, _ := env.Data["error"].(map[string]any)
	assert.Equal(t, "parse", failure["kind"])

	code, env, _ = h.do(stdhttp.MethodPost, base+"/load", `{"commit_url":"https://github.com/acme/widgets/commit/missing"}`)
	assert.Equal(t, stdhttp.StatusNotFound, code)
	failure, _ = env.Data["error"].(map[string]any)
	assert.Equal(t, "fetch", failure["kind"])
}

func TestEditEndpoints(t *testing.T) {
	h := newHarness(t)
	id := h.create("")
	base := "/workflows/" + id

	code, env, _ := h.do(stdhttp.MethodPut, base+"/signature", `{"signature":"s","message":"m"}`)
	require.Equal(t, stdhttp.StatusOK, code)
	assert.Equal(t, "ready", env.Data["phase"])

	code, _, _ = h.do(stdhttp.MethodPut, base+"/signature", `{}`)
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, code)

	code, env, _ = h.do(stdhttp.MethodPut, base+"/commit-url", `{"commit_url":"`+commitURL+`"}`)
	require.Equal(t, stdhttp.StatusOK, code)
	assert.Equal(t, commitURL, env.Data["commit_url"])

	code, env, _ = h.do(stdhttp.MethodPut, base+"/commit-url", `{}`)
	assert.Equal(t, stdhttp.StatusBadRequest, code)
	assert.Equal(t, "commit_url", env.Field)

	code, env, raw := h.do(stdhttp.MethodPut, base+"/proof", `{"proof":{"a":[1, 2]}}`)
	require.Equal(t, stdhttp.StatusOK, code)
	assert.Equal(t, "proof_ready", env.Data["phase"])
	assert.Contains(t, raw, `"proof":{"a":[1,2]}`)

	code, _, _ = h.do(stdhttp.MethodPut, base+"/proof", `{"proof":{},"proof_text":"x"}`)
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, code)

	code, env, _ = h.do(stdhttp.MethodPut, base+"/proof", `{"proof":null}`)
	require.Equal(t, stdhttp.StatusOK, code)
	assert.Equal(t, "ready", env.Data["phase"])
	assert.Nil(t, env.Data["proof"])

	code, _, _ = h.do(stdhttp.MethodPut, base+"/proof", `{"bogus":1}`)
	assert.Equal(t, stdhttp.StatusBadRequest, code)
}

func TestGenerateAndVerifyRejections(t *testing.T) {
	h := newHarness(t)
	id := h.create("")
	base := "/workflows/" + id

	code, env, _ := h.do(stdhttp.MethodPost, base+"/generate-proof", "")
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, code)
	failure, _ := env.Data["error"].(map[string]any)
	assert.Equal(t, "input", failure["kind"])

	code, _, _ = h.do(stdhttp.MethodPost, base+"/verify-proof", "")
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, code)

	h.prover.genErr = perr.Upstreamf("proof service status 500")
	h.do(stdhttp.MethodPut, base+"/signature", `{"signature":"s","message":"m"}`)
	code, env, _ = h.do(stdhttp.MethodPost, base+"/generate-proof", "")
	assert.Equal(t, stdhttp.StatusBadGateway, code)
	assert.Equal(t, "ready", env.Data["phase"])
	failure, _ = env.Data["error"].(map[string]any)
	assert.Equal(t, "proof_service", failure["kind"])
}

func TestUnknownSession(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{"/workflows/not-a-uuid", "/workflows/6f1c8c7e-2f59-4c1e-9a51-3f0c7c1b2a10"} {
		code, env, _ := h.do(stdhttp.MethodGet, path, "")
		assert.Equal(t, stdhttp.StatusNotFound, code, path)
		assert.Equal(t, perr.ErrorCodeNotFound, env.Code)
	}
	code, _, _ := h.do(stdhttp.MethodDelete, "/workflows/not-a-uuid", "")
	assert.Equal(t, stdhttp.StatusNotFound, code)
	assert.Equal(t, 0, h.sess.Len())
}
