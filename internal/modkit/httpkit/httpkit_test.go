package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	perr "zkcommit/internal/platform/errors"
	phttp "zkcommit/internal/platform/net/http"
)

type echoIn struct {
	Name string `json:"name" validate:"required"`
}

func newRouter() (*chi.Mux, Router) {
	m := chi.NewRouter()
	return m, phttp.AdaptChi(m)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return env
}

func TestMountAPIV1AppliesScopeMiddleware(t *testing.T) {
	mux, r := newRouter()
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Scope", "v1")
			next.ServeHTTP(w, r)
		})
	}
	MountAPIV1(r, []func(http.Handler) http.Handler{mw}, func(api Router) {
		MountUnder(api, "/things", nil, func(sub Router) {
			GetJSON(sub, "/{id}", func(r *http.Request) (any, error) {
				return map[string]string{"id": Param(r, "id")}, nil
			})
		})
	})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/things/42", nil))
	if rr.Code != http.StatusOK || rr.Header().Get("X-Scope") != "v1" {
		t.Fatalf("status=%d scope=%q", rr.Code, rr.Header().Get("X-Scope"))
	}
	if !strings.Contains(rr.Body.String(), `"id":"42"`) {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestSugarBindsAndMapsErrors(t *testing.T) {
	mux, r := newRouter()
	PostJSON(r, "/echo", func(_ *http.Request, in echoIn) (any, error) {
		return Created(in), nil
	})
	Post(r, "/fail", func(*http.Request) (any, error) {
		return ErrorWith(perr.Conflictf("busy"), map[string]int{"n": 1}), nil
	})
	DeleteJSON(r, "/gone", func(*http.Request) (any, error) { return NoContent(), nil })

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"a"}`)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("echo status = %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("validation status = %d", rr.Code)
	}
	if env := decode(t, rr); env.Field != "name" {
		t.Fatalf("field = %q", env.Field)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/fail", nil))
	if rr.Code != http.StatusConflict || !strings.Contains(rr.Body.String(), `"n":1`) {
		t.Fatalf("fail = %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/gone", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rr.Code)
	}
}

func TestCommonStackRecoversAndTagsRequests(t *testing.T) {
	mux, r := newRouter()
	MountAPIV1(r, CommonStack(StackOptions{}), func(api Router) {
		api.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}
	if env := decode(t, rr); env.RequestID == "" {
		t.Fatalf("envelope missing request id")
	}
}

func TestCommonStackTimeoutToggle(t *testing.T) {
	if n, m := len(CommonStack(StackOptions{})), len(CommonStack(StackOptions{Timeout: 1})); m != n+1 {
		t.Fatalf("timeout should add one middleware: %d vs %d", n, m)
	}
}
