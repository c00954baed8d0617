package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/a-h/templ"
)

const nonceBytes = 18

// NonceMiddleware attaches a fresh CSP nonce to every request.
func NonceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := templ.WithNonce(r.Context(), newNonce())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetNonce returns the request nonce, or "" outside NonceMiddleware.
func GetNonce(ctx context.Context) string {
	return templ.GetNonce(ctx)
}

func newNonce() string {
	b := make([]byte, nonceBytes)
	_, _ = rand.Read(b)
	return base64.RawStdEncoding.EncodeToString(b)
}
