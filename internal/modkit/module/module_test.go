package module

import (
	"testing"

	phttp "zkcommit/internal/platform/net/http"
	kit "zkcommit/internal/platform/testkit"
)

type sessionPort interface{ Len() int }

type counter struct{ n int }

func (c counter) Len() int { return c.n }

type ports struct {
	Sessions sessionPort
	hidden   sessionPort
}

type stubModule struct{ ports any }

func (s stubModule) MountRoutes(phttp.Router) {}
func (s stubModule) Ports() any               { return s.ports }
func (s stubModule) Name() string             { return "stub" }

func TestPortsOfFindsFieldOrDirect(t *testing.T) {
	m := stubModule{ports: ports{Sessions: counter{n: 2}}}
	got, ok := PortsOf[sessionPort](m)
	if !ok || got.Len() != 2 {
		t.Fatalf("PortsOf field: %v %v", got, ok)
	}

	direct := stubModule{ports: counter{n: 5}}
	if got := MustPortsOf[sessionPort](direct); got.Len() != 5 {
		t.Fatalf("direct port = %d", got.Len())
	}
}

func TestPortsOfMissing(t *testing.T) {
	if _, ok := PortsOf[sessionPort](stubModule{}); ok {
		t.Fatalf("nil ports should not match")
	}
	// unexported fields are not walked
	if _, ok := PortsOf[sessionPort](stubModule{ports: ports{hidden: counter{}}}); ok {
		t.Fatalf("unexported field should not match")
	}
	kit.MustPanic(t, func() { _ = MustPortsOf[sessionPort](stubModule{ports: 42}) })
}

func TestPortsOfPointerBundle(t *testing.T) {
	m := stubModule{ports: &ports{Sessions: counter{n: 7}}}
	got, ok := PortsOf[sessionPort](m)
	if !ok || got.Len() != 7 {
		t.Fatalf("pointer bundle: %v %v", got, ok)
	}
	var nilPorts *ports
	if _, ok := PortsOf[sessionPort](stubModule{ports: nilPorts}); ok {
		t.Fatalf("nil pointer bundle should not match")
	}
}
