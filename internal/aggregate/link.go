package aggregate

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters that identify a click, not a job.
// Two apply links differing only in these refer to the same posting.
var trackingParams = map[string]bool{
	"fbclid":   true,
	"gclid":    true,
	"msclkid":  true,
	"mc_cid":   true,
	"mc_eid":   true,
	"ref":      true,
	"ref_src":  true,
	"source":   true,
	"utm_ref":  true,
}

// NormalizeApplyLink canonicalizes an apply link for deduplication:
// scheme and host are case-folded, tracking query parameters stripped,
// the fragment dropped, and a trailing slash removed. Remaining query
// parameters are re-encoded in sorted order so equal links always
// produce equal strings.
func NormalizeApplyLink(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(strings.ToLower(raw))
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	query := u.Query()
	for name := range query {
		if trackingParams[name] || strings.HasPrefix(name, "utm_") {
			query.Del(name)
		}
	}
	u.RawQuery = query.Encode() // Encode sorts keys

	return u.String()
}
