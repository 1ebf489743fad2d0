package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"zkcommit/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	// Origins allowed by CORS, empty means any
	Origins []string
	// Timeout cancels the request context, 0 disables it
	Timeout time.Duration
	// Slow marks access log lines at warn level
	Slow time.Duration
}

// CommonStack returns a baseline per scope middleware slice
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	mw := []func(http.Handler) http.Handler{
		// correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// observability wraps recovery so panics still get an access line
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.RecoverJSON,

		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
	}
	if o.Timeout > 0 {
		mw = append(mw, middleware.Timeout(o.Timeout))
	}
	return mw
}
