package httpkit

import "net/http"

// MountUnder mounts a subrouter at prefix, applies the per-module
// middlewares, then hands the scoped router to mount. Modules use this so
// their prefix, middleware, and routes wire up in one place
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}
