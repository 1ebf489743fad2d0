// Package testkit provides testing helpers
package testkit

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// MustPanic asserts that fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustContain asserts that haystack contains needle. If not, writes haystack to a temp file for debugging
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		tmpfile := filepath.Join(t.TempDir(), "test_output.txt")
		_ = os.WriteFile(tmpfile, []byte(haystack), 0o600)
		t.Fatalf("expected output to contain %q\n\nfull output written to %s", needle, tmpfile)
	}
}

// Gate wraps a handler so every request blocks until Release is called.
// Entered receives one value per request that reached the handler
type Gate struct {
	next    http.Handler
	release chan struct{}
	hits    atomic.Int32
	Entered chan struct{}
}

// NewGate builds a Gate in front of next
func NewGate(next http.Handler) *Gate {
	return &Gate{
		next:    next,
		release: make(chan struct{}),
		Entered: make(chan struct{}, 16),
	}
}

// ServeHTTP counts the hit, signals Entered, and waits for Release or client cancel
func (g *Gate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.hits.Add(1)
	g.Entered <- struct{}{}
	select {
	case <-g.release:
	case <-r.Context().Done():
		return
	}
	g.next.ServeHTTP(w, r)
}

// Release unblocks every pending and future request
func (g *Gate) Release() { close(g.release) }

// Hits returns how many requests reached the gate
func (g *Gate) Hits() int { return int(g.hits.Load()) }
