package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ataredge/tutorhub/internal/ctxkeys"
)

// SecurityHeaders sets browser hardening headers on every response.
// The CSP allows inline scripts only with the per-request nonce.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		h.Set("Content-Security-Policy", contentSecurityPolicy(r))

		cfg := ctxkeys.Config(r.Context())
		if cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func contentSecurityPolicy(r *http.Request) string {
	scriptSrc := "'self'"
	if nonce := GetNonce(r.Context()); nonce != "" {
		scriptSrc += fmt.Sprintf(" 'nonce-%s'", nonce)
	}

	imgSrc := "'self' data:"
	cfg := ctxkeys.Config(r.Context())
	switch {
	case cfg != nil && cfg.S3PublicURL != "":
		imgSrc += " " + cfg.S3PublicURL
	case cfg != nil && cfg.S3Endpoint != "":
		imgSrc += " " + cfg.S3Endpoint
	default:
		imgSrc += " https:"
	}

	directives := []string{
		"default-src 'self'",
		"script-src " + scriptSrc,
		"style-src 'self' 'unsafe-inline'",
		"img-src " + imgSrc,
		"font-src 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"object-src 'none'",
	}
	return strings.Join(directives, "; ")
}
