// Package adminauth implements the admin token check and per-IP lockout
// described by spec.md §6: Bearer token, raw X-Admin-Token header, or a
// token= query parameter (for clients, like SSE, that can't set headers).
package adminauth

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	maxFails     = 5
	lockoutWindow = 300 * time.Second
)

type failEntry struct {
	count    int
	lastFail time.Time
}

// Checker validates admin requests against a static token and tracks
// per-IP failures, locking out an IP after maxFails within lockoutWindow.
type Checker struct {
	token string

	mu    sync.Mutex
	fails map[string]*failEntry
}

// New constructs a Checker for the given admin token. An empty token
// disables auth entirely (dev mode); callers must log a warning once at
// startup, matching spec.md §6.
func New(token string) *Checker {
	return &Checker{token: token, fails: make(map[string]*failEntry)}
}

// Unprotected reports whether this Checker has no token configured.
func (c *Checker) Unprotected() bool {
	return c.token == ""
}

// Result is the outcome of an auth check.
type Result struct {
	Authorized      bool
	LockedOut       bool
	RemainingLockout time.Duration
}

// Check validates r against the configured token and the caller's ip. On
// failure it records a strike against ip; on success it clears any prior
// strikes for ip. If the Checker is unprotected, every request is
// authorized.
func (c *Checker) Check(r *http.Request, ip string) Result {
	if c.Unprotected() {
		return Result{Authorized: true}
	}

	c.mu.Lock()
	if entry, ok := c.fails[ip]; ok {
		elapsed := time.Since(entry.lastFail)
		if entry.count >= maxFails && elapsed < lockoutWindow {
			remaining := lockoutWindow - elapsed
			c.mu.Unlock()
			return Result{Authorized: false, LockedOut: true, RemainingLockout: remaining}
		}
	}
	c.mu.Unlock()

	if c.authorized(r) {
		c.mu.Lock()
		delete(c.fails, ip)
		c.mu.Unlock()
		return Result{Authorized: true}
	}

	c.mu.Lock()
	entry, ok := c.fails[ip]
	if !ok || time.Since(entry.lastFail) >= lockoutWindow {
		entry = &failEntry{}
		c.fails[ip] = entry
	}
	entry.count++
	entry.lastFail = time.Now()
	c.mu.Unlock()

	return Result{Authorized: false}
}

func (c *Checker) authorized(r *http.Request) bool {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if tok, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return tok == c.token
		}
		return auth == c.token
	}

	if tok := r.Header.Get("X-Admin-Token"); tok != "" {
		return tok == c.token
	}

	if tok := r.URL.Query().Get("token"); tok != "" {
		if decoded, err := url.QueryUnescape(tok); err == nil {
			return decoded == c.token
		}
		return tok == c.token
	}

	return false
}

// RemainingLockoutSeconds is a convenience for building the JSON body
// required by spec.md §7's RateLimited surface.
func RemainingLockoutSeconds(d time.Duration) string {
	return strconv.Itoa(int(d.Seconds()))
}
