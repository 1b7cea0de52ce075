// Package keys turns an inbound (host, path) pair into a SiteKey and a
// compound PageKey. Exactly one Policy is active per process; it is
// chosen once at startup and never swapped against a live store.
package keys

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/counterhub/counterhub/core/cache"
)

// Keys is the (site_key, page_key) pair derived from a referer.
type Keys struct {
	SiteKey string
	PageKey string
}

// Policy selects which Deriver implementation is active.
type Policy string

const (
	// PolicyPlaintext is the default: site_key = host, page_key = host + ":" + path.
	PolicyPlaintext Policy = "plaintext"
	// PolicyHashed is the legacy policy: MD5-derived, truncated keys.
	PolicyHashed Policy = "hashed"
)

// PathStyle controls what the hashed policy feeds into its page digest.
type PathStyle string

const (
	// PathStylePath hashes only the path.
	PathStylePath PathStyle = "path"
	// PathStyleHostPath hashes host + "&" + path.
	PathStyleHostPath PathStyle = "host_path"
)

// Deriver turns (host, path) into Keys.
type Deriver interface {
	Derive(host, path string) Keys
}

// New constructs the Deriver for policy. pathStyle is only consulted under
// PolicyHashed.
func New(policy Policy, pathStyle PathStyle) Deriver {
	if policy == PolicyHashed {
		return &HashedDeriver{pathStyle: pathStyle, cache: cache.NewLRUCache[string, string](4096)}
	}
	return PlaintextDeriver{}
}

// PlaintextDeriver is the default policy.
type PlaintextDeriver struct{}

// Derive implements Deriver.
func (PlaintextDeriver) Derive(host, path string) Keys {
	return Keys{
		SiteKey: host,
		PageKey: host + ":" + path,
	}
}

// HashedDeriver is the optional legacy policy. Keys are truncated MD5
// digests of host and path, caching the digest for hot hosts/paths so
// repeated pageviews don't re-hash every request.
type HashedDeriver struct {
	pathStyle PathStyle
	cache     *cache.LRUCache[string, string]
}

// mid16 returns s[8:24], the spec's documented substring of a hex digest.
func mid16(s string) string {
	if len(s) < 24 {
		return s
	}
	return s[8:24]
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// digest computes mid16(hex(MD5(input))), the exact value the spec feeds
// into a key. cacheKey namespaces the memo lookup (distinct from input)
// so the host-digest cache and the page-digest cache can't collide.
func (d *HashedDeriver) digest(cacheKey, input string) string {
	if d.cache != nil {
		if v, ok := d.cache.Get(cacheKey); ok {
			return v
		}
	}
	v := mid16(md5Hex(input))
	if d.cache != nil {
		d.cache.Put(cacheKey, v)
	}
	return v
}

// Derive implements Deriver.
func (d *HashedDeriver) Derive(host, path string) Keys {
	siteKey := d.digest("h:"+host, host)

	pathUnique := path
	if d.pathStyle == PathStyleHostPath {
		pathUnique = host + "&" + path
	}
	pageSuffix := d.digest("p:"+pathUnique, pathUnique)

	return Keys{
		SiteKey: siteKey,
		PageKey: siteKey + ":" + pageSuffix,
	}
}
