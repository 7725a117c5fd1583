package seotag

import (
	"fmt"
	"regexp"
	"strings"
)

// SiteFilters builds absolute and relative URLs from the site's URL and base path.
type SiteFilters struct {
	SiteURL string // scheme and host, e.g. "https://example.com"
	BaseURL string // optional path prefix, e.g. "/blog"
}

// NewSiteFilters returns filters for the site described by cfg.
func NewSiteFilters(cfg SiteConfig) SiteFilters {
	return SiteFilters{SiteURL: cfg.URL, BaseURL: cfg.BaseURL}
}

// RelativeURL prefixes p with the base path. Absolute URLs are returned unchanged.
func (f SiteFilters) RelativeURL(p string) string {
	if IsAbsoluteURL(p) {
		return p
	}
	base := strings.TrimSuffix(f.BaseURL, "/")
	var b strings.Builder
	if base != "" {
		b.WriteString(ensureLeadingSlash(base))
	}
	b.WriteString(ensureLeadingSlash(p))
	return f.URIEscape(b.String())
}

// AbsoluteURL prefixes p with the site URL and base path. Without a site URL
// the result is the same as RelativeURL.
func (f SiteFilters) AbsoluteURL(p string) string {
	if IsAbsoluteURL(p) {
		return p
	}
	site := strings.TrimSuffix(f.SiteURL, "/")
	if site == "" {
		return f.RelativeURL(p)
	}
	return f.URIEscape(site + f.RelativeURL(p))
}

// URIEscape percent-encodes every byte that may not appear in a URI.
// Reserved delimiters and well-formed %XX escapes are kept, so escaping an
// already escaped URL returns it unchanged. A stray "%" becomes "%25".
func (f SiteFilters) URIEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteString(s[i : i+3])
			i += 2
		case strings.IndexByte(uriChars, c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// uriChars are the unreserved and reserved characters of RFC 3986.
const uriChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" +
	"-._~" + ":/?#[]@" + "!$&'()*+,;="

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

// IsAbsoluteURL reports whether s starts with a URI scheme ("https:",
// "data:") or is protocol-relative ("//cdn.example/x.png").
func IsAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "//") || schemePrefix.MatchString(s)
}

func ensureLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
