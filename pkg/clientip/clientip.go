package clientip

import (
	"net"
	"net/http"
	"strings"
)

// headerPriority lists proxy headers checked in order before falling back
// to the connection's RemoteAddr.
var headerPriority = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP extracts the real client IP from r, checking proxy headers in
// priority order and falling back to RemoteAddr. It never panics and
// always returns a non-empty string.
func GetIP(r *http.Request) string {
	for _, name := range headerPriority {
		value := r.Header.Get(name)
		if value == "" {
			continue
		}

		if name == "X-Forwarded-For" {
			for _, candidate := range strings.Split(value, ",") {
				if ip := validate(strings.TrimSpace(candidate)); ip != "" {
					return ip
				}
			}
			continue
		}

		if ip := validate(strings.TrimSpace(value)); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := validate(host); ip != "" {
		return ip
	}

	return r.RemoteAddr
}

// validate parses and normalizes s, rejecting the unspecified address.
func validate(s string) string {
	ip := net.ParseIP(s)
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
