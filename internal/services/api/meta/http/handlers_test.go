package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	phttp "zkcommit/internal/platform/net/http"
)

func serve(t *testing.T, d Deps, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), d)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	var env map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", rr.Body.String(), err)
	}
	data, _ := env["data"].(map[string]any)
	return rr, data
}

func TestHealthAndVersion(t *testing.T) {
	d := Deps{ServiceName: "zkcommit", StartedAt: time.Now().Add(-time.Minute)}
	rr, data := serve(t, d, "/health")
	if rr.Code != stdhttp.StatusOK || data["ok"] != true || data["service"] != "zkcommit" {
		t.Fatalf("health = %d %v", rr.Code, data)
	}
	rr, data = serve(t, d, "/version")
	if rr.Code != stdhttp.StatusOK || data["service"] != "zkcommit" {
		t.Fatalf("version = %d %v", rr.Code, data)
	}
}

func TestReadyReportsMissingClients(t *testing.T) {
	rr, data := serve(t, Deps{Checks: map[string]bool{"github": true, "proof_service": true}}, "/ready")
	if rr.Code != stdhttp.StatusOK || data["status"] != "ok" {
		t.Fatalf("ready = %d %v", rr.Code, data)
	}

	rr, data = serve(t, Deps{Checks: map[string]bool{"github": true, "proof_service": false}}, "/ready")
	if rr.Code != stdhttp.StatusServiceUnavailable || data["status"] != "fail" {
		t.Fatalf("not ready = %d %v", rr.Code, data)
	}
	checks, _ := data["checks"].([]any)
	if len(checks) != 2 {
		t.Fatalf("checks = %v", checks)
	}
}

func TestServiceCountsSessions(t *testing.T) {
	rr, data := serve(t, Deps{ServiceName: "zkcommit", StartedAt: time.Now(), Sessions: func() int { return 3 }}, "/service")
	if rr.Code != stdhttp.StatusOK || data["sessions"] != float64(3) {
		t.Fatalf("service = %d %v", rr.Code, data)
	}
}
