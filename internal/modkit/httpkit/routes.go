package httpkit

import "net/http"

// MountUnder mounts a subrouter at prefix; mw runs for that subtree only
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		sub.Use(mw...)
		mount(sub)
	})
}
