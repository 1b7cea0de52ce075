package httpapi

import "net/url"

// parseReferer extracts (host, path) from the raw x-bsz-referer header
// value. An empty or unparseable host is the InvalidReferer case per
// spec.md §6/§7.
func parseReferer(raw string) (host, path string, ok bool) {
	if raw == "" {
		return "", "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", "", false
	}
	path = u.Path
	if path == "" {
		path = "/"
	}
	return u.Host, path, true
}
