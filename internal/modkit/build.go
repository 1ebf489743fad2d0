package modkit

import (
	"net/http"

	pstrings "zkcommit/internal/platform/strings"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
}

// Build applies Option funcs over defaults and returns a plain struct
// defName and defPrefix are the module's own choices; options override them
func Build(defName, defPrefix string, opts ...Option) Built {
	c := buildCfg{name: defName, prefix: defPrefix}
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:   c.name,
		Prefix: pstrings.MustPrefix(c.prefix),
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
	}
}
