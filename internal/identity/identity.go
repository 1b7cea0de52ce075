// Package identity derives a stable, opaque VisitorToken from request
// metadata, used by the counter store's UV deduplication.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"strings"
)

// CookieName is the client-set cookie carrying a previously minted token.
const CookieName = "busuanziId"

// CookieMaxAge is one year in seconds, matching the spec's long-lived
// identity cookie.
const CookieMaxAge = 365 * 24 * 60 * 60

// Deriver produces a VisitorToken from an inbound request.
type Deriver struct{}

// New constructs a Deriver. It holds no state; the derivation is pure.
func New() *Deriver {
	return &Deriver{}
}

// Derive returns the visitor's token and whether it was freshly minted
// (as opposed to read back from the client's cookie). On fresh=true the
// caller is responsible for setting the response cookie via SetCookie.
func (d *Deriver) Derive(r *http.Request) (token string, fresh bool) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, false
	}

	ip := clientIPForIdentity(r)
	ua := r.UserAgent()
	sum := md5.Sum([]byte(ip + ua))
	return strings.ToUpper(hex.EncodeToString(sum[:])), true
}

// clientIPForIdentity implements the spec's exact fallback chain: first
// comma-separated value of X-Forwarded-For, then X-Real-IP, then the
// fixed string 127.0.0.1. This is narrower than pkg/clientip.GetIP (which
// also checks Cloudflare/DigitalOcean headers and validates/normalizes
// the address); the identity derivation needs byte-for-byte compatibility
// with a long-deployed client, not IP validation.
func clientIPForIdentity(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return "127.0.0.1"
}

// SetCookie sets the busuanziId cookie on w for a freshly minted token.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   CookieMaxAge,
		SameSite: http.SameSiteNoneMode,
		Secure:   true,
	})
}
