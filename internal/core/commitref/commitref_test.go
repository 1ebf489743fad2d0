package commitref

import (
	"testing"

	perr "zkcommit/internal/platform/errors"
)

func TestParse_WellFormed(t *testing.T) {
	cases := []struct {
		in   string
		want Reference
	}{
		{
			in:   "https://github.com/acme/widgets/commit/abc123",
			want: Reference{Owner: "acme", Repository: "widgets", Ref: "abc123"},
		},
		{
			in:   "  https://github.com/acme/widgets/commit/abc123  ",
			want: Reference{Owner: "acme", Repository: "widgets", Ref: "abc123"},
		},
		{
			in:   "https://github.com/acme/widgets/commit/abc123?diff=split#r1",
			want: Reference{Owner: "acme", Repository: "widgets", Ref: "abc123"},
		},
		{
			// marker segment is positional only
			in:   "https://github.com/acme/widgets/tree/main",
			want: Reference{Owner: "acme", Repository: "widgets", Ref: "main"},
		},
		{
			in:   "acme/widgets/commit/deadbeef",
			want: Reference{Owner: "acme", Repository: "widgets", Ref: "deadbeef"},
		},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := []string{
		"",
		"abc123",
		"widgets/commit/abc123",
		"https://github.com/acme/widgets/commit/",
		"https://github.com//widgets/commit/abc",
		"https://github.com/acme//commit/abc",
	}
	for _, in := range cases {
		_, err := Parse(in)
		if err == nil {
			t.Fatalf("Parse(%q) expected error", in)
		}
		if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("Parse(%q) code = %v, want invalid_argument", in, perr.CodeOf(err))
		}
		if e, _ := perr.As(err); e.Field() != "commit_url" {
			t.Fatalf("Parse(%q) field = %q", in, e.Field())
		}
	}
}

func TestReference_StringAndPath(t *testing.T) {
	r := Reference{Owner: "acme", Repository: "widgets", Ref: "abc123"}
	if r.String() != "acme/widgets@abc123" {
		t.Fatalf("String() = %q", r.String())
	}
	if r.Path() != "/repos/acme/widgets/commits/abc123" {
		t.Fatalf("Path() = %q", r.Path())
	}
}
