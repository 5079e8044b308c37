// Package urlutil canonicalizes audit target URLs so the same page
// audited twice stores the same URL.
package urlutil

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParams are query parameters stripped during canonicalization.
var trackingParams = map[string]bool{
	"gclid":   true,
	"fbclid":  true,
	"msclkid": true,
}

// Canonicalize normalizes an audit target URL: lowercases scheme and
// host, strips default ports, fragments, and tracking parameters, and
// sorts the remaining query. The path is preserved; an empty path
// becomes "/".
func Canonicalize(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if u.Scheme == "http" && strings.HasSuffix(u.Host, ":80") {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	} else if u.Scheme == "https" && strings.HasSuffix(u.Host, ":443") {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}

	if u.RawQuery != "" {
		u.RawQuery = cleanQuery(u.Query())
	}

	return u.String(), nil
}

// cleanQuery drops tracking parameters and re-encodes the rest in
// sorted order.
func cleanQuery(query url.Values) string {
	kept := url.Values{}
	for key, values := range query {
		lower := strings.ToLower(key)
		if trackingParams[lower] || strings.HasPrefix(lower, "utm_") {
			continue
		}
		for _, v := range values {
			kept.Add(key, v)
		}
	}

	if len(kept) == 0 {
		return ""
	}

	keys := make([]string, 0, len(kept))
	for k := range kept {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		for _, v := range kept[k] {
			parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

// Host returns the lowercased host of a URL, without credentials.
func Host(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return strings.ToLower(u.Host), nil
}
