// Package urlcanon normalizes article URLs into the key used for deduplication.
package urlcanon

import (
	"net"
	"net/url"
	"strings"
)

var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"fbclid":       {},
	"gclid":        {},
}

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// IsTrackingParam reports whether a query key is stripped by Canonicalize.
func IsTrackingParam(key string) bool {
	_, ok := trackingParams[key]
	return ok
}

// Canonicalize returns the dedup key for raw.
//
// The scheme and host are lowercased, leading "www." labels and a default port
// are dropped, tracking parameters are removed while the remaining parameters keep
// their order and encoding, trailing slashes are trimmed from the path ("/" stays),
// and userinfo and fragment are discarded. Input that does not parse as an absolute
// URL is returned unchanged. Canonicalize is idempotent.
func Canonicalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	scheme := strings.ToLower(u.Scheme)

	host := strings.ToLower(u.Hostname())
	for strings.HasPrefix(host, "www.") && len(host) > len("www.") {
		host = host[len("www."):]
	}
	if host == "" {
		return raw
	}
	if port := u.Port(); port != "" && defaultPorts[scheme] != port {
		host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		// IPv6 literal
		host = "[" + host + "]"
	}

	path := strings.TrimRight(u.EscapedPath(), "/")
	if path == "" {
		path = "/"
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(host)
	b.WriteString(path)
	if query := filterQuery(u.RawQuery); query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	return b.String()
}

// filterQuery drops tracking and empty pairs from a raw query string.
// Surviving pairs are copied byte for byte so their encoding is untouched.
func filterQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	pairs := strings.Split(rawQuery, "&")
	kept := pairs[:0]
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if IsTrackingParam(key) {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}
