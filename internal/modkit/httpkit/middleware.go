package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "progdex/internal/platform/net/http"
	"progdex/internal/platform/net/middleware"
)

// CommonStack is the baseline middleware for the versioned API. Compose
// auth per route group with Protected rather than here
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// correlation first so everything below logs with a request id
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLog(middleware.AccessLogOptions{Slow: 2 * time.Second}),

		// cross-origin, compression, path hygiene
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}

// Auth wires the auth middleware to the platform JSON writer so refusals
// come back as the same envelope handlers produce
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
