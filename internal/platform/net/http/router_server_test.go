package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"zkcommit/internal/platform/config"
	phttp "zkcommit/internal/platform/net/http"
)

func TestServerRoutesThroughAdapter(t *testing.T) {
	optCalled := false
	srv := phttp.NewServer(config.New().Prefix("ZKTEST_"), func(*chi.Mux) { optCalled = true })
	if !optCalled {
		t.Fatalf("expected option hook to run")
	}
	if srv.Addr() != ":4000" {
		t.Fatalf("default addr = %q", srv.Addr())
	}

	r := srv.Router()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-MW", "yes")
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api", func(api phttp.Router) {
		api.Group(func(g phttp.Router) {
			g.Get("/items/{id}", func(w http.ResponseWriter, req *http.Request) {
				_, _ = io.WriteString(w, phttp.URLParam(req, "id"))
			})
		})
		api.Post("/m", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })
		api.Put("/m", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
		api.Delete("/m", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	})
	phttp.MountProfiler(r, "/debug", true)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/items/42")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(b) != "42" || resp.Header.Get("X-MW") != "yes" {
		t.Fatalf("unexpected body %q headers %v", b, resp.Header)
	}

	for method, want := range map[string]int{
		http.MethodPost:   http.StatusCreated,
		http.MethodPut:    http.StatusAccepted,
		http.MethodDelete: http.StatusNoContent,
	} {
		req, _ := http.NewRequest(method, ts.URL+"/api/m", nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != want {
			t.Fatalf("%s: %d want %d", method, resp.StatusCode, want)
		}
	}

	resp, err = http.Get(ts.URL + "/debug/pprof/")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pprof status %d", resp.StatusCode)
	}
}

func TestProfilerDisabled(t *testing.T) {
	m := chi.NewRouter()
	phttp.MountProfiler(phttp.AdaptChi(m), "/debug", false)
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when disabled, got %d", rec.Code)
	}
}

func TestServerRunStopsOnCancel(t *testing.T) {
	t.Setenv("ZKRUN_API_PORT", "47613")
	srv := phttp.NewServer(config.New().Prefix("ZKRUN_"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
