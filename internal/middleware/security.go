package middleware

import (
	"net/http"
)

// SecureHeaders sets the standard browser hardening headers.
type SecureHeaders struct {
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeOptions    string
	ReferrerPolicy        string
}

// DefaultSecureHeaders returns the policy used by the dashboard server.
func DefaultSecureHeaders() *SecureHeaders {
	return &SecureHeaders{
		ContentSecurityPolicy: "default-src 'self'; connect-src 'self' ws: wss:",
		FrameOptions:          "DENY",
		ContentTypeOptions:    "nosniff",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}
}

// Handler applies the headers to every response.
func (sh *SecureHeaders) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sh.ContentSecurityPolicy != "" {
			w.Header().Set("Content-Security-Policy", sh.ContentSecurityPolicy)
		}
		if sh.FrameOptions != "" {
			w.Header().Set("X-Frame-Options", sh.FrameOptions)
		}
		if sh.ContentTypeOptions != "" {
			w.Header().Set("X-Content-Type-Options", sh.ContentTypeOptions)
		}
		if sh.ReferrerPolicy != "" {
			w.Header().Set("Referrer-Policy", sh.ReferrerPolicy)
		}
		next.ServeHTTP(w, r)
	})
}
