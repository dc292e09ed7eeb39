package urlutil

import (
	"net/url"
	"sort"
	"strings"
)

// NormalizeURL returns a canonical form of raw suitable for use as a queue
// key. Scheme and host are lowercased, a single trailing slash is removed
// from the path, utm_* query parameters are dropped and the remaining ones
// sorted. The fragment is kept only when keepFragment is set.
//
// It reports false if raw is not an absolute URL with a host.
func NormalizeURL(raw string, keepFragment bool) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(u.Scheme))
	b.WriteString("://")
	b.WriteString(strings.ToLower(u.Host))
	b.WriteString(strings.TrimSuffix(u.EscapedPath(), "/"))

	if params := queryParams(u.RawQuery); len(params) > 0 {
		b.WriteByte('?')
		b.WriteString(strings.Join(params, "&"))
	}
	if keepFragment && u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.EscapedFragment())
	}
	return b.String(), true
}

func queryParams(rawQuery string) []string {
	if rawQuery == "" {
		return nil
	}
	var params []string
	for _, p := range strings.Split(rawQuery, "&") {
		if p == "" || strings.HasPrefix(p, "utm_") {
			continue
		}
		params = append(params, p)
	}
	sort.Strings(params)
	return params
}
