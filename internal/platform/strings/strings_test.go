package strings

import (
	"testing"

	kit "zkcommit/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	if got := IfEmpty(nil, []string{"GET"}); len(got) != 1 || got[0] != "GET" {
		t.Fatalf("IfEmpty default = %v", got)
	}
	if got := IfEmpty([]int{1}, []int{2}); got[0] != 1 {
		t.Fatalf("IfEmpty kept = %v", got)
	}
}

func TestMustPrefix(t *testing.T) {
	cases := map[string]string{
		"workflows":    "/workflows",
		" /meta/ ":     "/meta",
		"//a/b//":      "/a/b",
		"/workflows/x": "/workflows/x",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { MustPrefix("  / ") })
}

func TestPtrDeref(t *testing.T) {
	if Ptr("") != nil {
		t.Fatalf("Ptr(\"\") should be nil")
	}
	if p := Ptr("x"); p == nil || *p != "x" {
		t.Fatalf("Ptr(x) = %v", p)
	}
	if Deref(nil) != "" || Deref(Ptr("y")) != "y" {
		t.Fatalf("Deref mismatch")
	}
}

func TestFirstNonBlank(t *testing.T) {
	if got := FirstNonBlank("", "  ", "b", "c"); got != "b" {
		t.Fatalf("FirstNonBlank = %q", got)
	}
	if got := FirstNonBlank(" "); got != "" {
		t.Fatalf("FirstNonBlank all blank = %q", got)
	}
}
