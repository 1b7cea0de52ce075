package identity

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// SignedToken mints and verifies "identity.signature" tokens, where
// signature = hex(HMAC-SHA1(identity, secret)). This is not used by the
// public counting path (which is bound to spec.md's bit-exact MD5
// contract), and no other package in this module calls it either:
// internal/adminauth checks the admin token without it.
type SignedToken struct {
	secret []byte
}

// NewSignedToken constructs a signer keyed by secret.
func NewSignedToken(secret string) *SignedToken {
	return &SignedToken{secret: []byte(secret)}
}

// Sign returns "identity.signature" for the given identity.
func (s *SignedToken) Sign(identity string) string {
	return identity + "." + s.signature(identity)
}

// Verify splits token into identity and signature and reports whether the
// signature matches. Returns the identity and true on success.
func (s *SignedToken) Verify(token string) (identity string, ok bool) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return "", false
	}
	identity, sig := parts[0], parts[1]
	expected := s.signature(identity)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return identity, true
}

func (s *SignedToken) signature(identity string) string {
	h := hmac.New(sha1.New, s.secret)
	_, _ = h.Write([]byte(identity))
	return hex.EncodeToString(h.Sum(nil))
}
