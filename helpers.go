package seotag

import (
	"net/url"
	"path"
	"strings"

	"github.com/gosimple/slug"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	return slug.Make(strings.TrimSpace(s))
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
// Empty segments are skipped.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	segs := FilterEmpty(pathSegments)
	if len(segs) == 0 {
		return u.String()
	}
	u.Path = path.Join(u.Path, path.Join(segs...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitTags splits a comma separated form value into trimmed, non-empty tags.
func SplitTags(s string) []string {
	return FilterEmpty(strings.Split(s, ","))
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// FilterRelatedPosts finds posts that share at least one tag with current.
func FilterRelatedPosts(current Post, posts []Post) []Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := normalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}
