package seotag

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
)

// ErrInvalidArgument is returned when a resolver is built without a page or filters.
var ErrInvalidArgument = errors.New("seotag: invalid argument")

// Page is the front matter of a single page, keyed by field name.
type Page map[string]any

// Filters are the URL helpers the host site provides to the resolver.
type Filters interface {
	AbsoluteURL(p string) string
	URIEscape(s string) string
}

type imageKind int

const (
	imageNone imageKind = iota
	imageString
	imageRecord
)

// ImageResolver resolves the escaped, absolute URL of a page's image.
//
// The image is taken from the first of image.twitter, image.facebook,
// image.path, or the image key itself when it is a string. Results are
// computed once per resolver and never change afterwards.
type ImageResolver struct {
	page    Page
	filters Filters

	recordOnce sync.Once
	record     map[string]any

	resolveOnce sync.Once
	resolved    any
	ok          bool
}

// NewImageResolver binds a resolver to page and filters.
func NewImageResolver(page Page, filters Filters) (*ImageResolver, error) {
	if page == nil {
		return nil, fmt.Errorf("%w: page is required", ErrInvalidArgument)
	}
	if filters == nil {
		return nil, fmt.Errorf("%w: filters are required", ErrInvalidArgument)
	}
	return &ImageResolver{page: page, filters: filters}, nil
}

// Resolve returns the image URL. Strings come back escaped and absolute;
// non-string candidates are returned as they appear in the front matter.
func (r *ImageResolver) Resolve() (any, bool) {
	r.resolveOnce.Do(func() {
		raw := r.rawPath()
		if raw == nil {
			return
		}
		abs := r.absoluteURL(raw)
		if s, isString := abs.(string); isString {
			r.resolved, r.ok = r.filters.URIEscape(s), true
			return
		}
		r.resolved, r.ok = abs, true
	})
	return r.resolved, r.ok
}

// URL returns the resolved image when it is a string.
func (r *ImageResolver) URL() (string, bool) {
	v, ok := r.Resolve()
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (r *ImageResolver) String() string {
	v, ok := r.Resolve()
	if !ok {
		return ""
	}
	if s, isString := v.(string); isString {
		return s
	}
	return fmt.Sprint(v)
}

// FallbackData returns a copy of the normalized image record, which always
// carries a "path" key. Platform consumers read extra keys such as "alt" from it.
func (r *ImageResolver) FallbackData() map[string]any {
	rec := r.imageRecord()
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func (r *ImageResolver) imageRecord() map[string]any {
	r.recordOnce.Do(func() {
		kind, s, rec := classifyImage(r.page["image"])
		switch kind {
		case imageRecord:
			r.record = make(map[string]any, len(rec)+1)
			r.record["path"] = nil
			for k, v := range rec {
				r.record[k] = v
			}
		case imageString:
			r.record = map[string]any{"path": s}
		default:
			r.record = map[string]any{"path": nil}
		}
	})
	return r.record
}

func classifyImage(v any) (imageKind, string, map[string]any) {
	switch t := v.(type) {
	case string:
		return imageString, t, nil
	case map[string]any:
		return imageRecord, "", t
	case map[string]string:
		rec := make(map[string]any, len(t))
		for k, s := range t {
			rec[k] = s
		}
		return imageRecord, "", rec
	case map[any]any:
		rec := make(map[string]any, len(t))
		for k, s := range t {
			if key, isString := k.(string); isString {
				rec[key] = s
			}
		}
		return imageRecord, "", rec
	default:
		return imageNone, "", nil
	}
}

func (r *ImageResolver) rawPath() any {
	rec := r.imageRecord()
	for _, key := range []string{"twitter", "facebook", "path"} {
		if v := rec[key]; present(v) {
			return v
		}
	}
	return nil
}

// present treats nil and false as missing values.
func present(v any) bool {
	if v == nil {
		return false
	}
	if b, isBool := v.(bool); isBool && !b {
		return false
	}
	return true
}

func (r *ImageResolver) absoluteURL(raw any) any {
	s, isString := raw.(string)
	if !isString || IsAbsoluteURL(s) {
		return raw
	}
	if strings.HasPrefix(s, "/") {
		return r.filters.AbsoluteURL(s)
	}
	joined := path.Join(r.pageDir(), s)
	// path.Join drops the trailing slash that names a directory.
	if (s == "" || strings.HasSuffix(s, "/")) && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return r.filters.AbsoluteURL(joined)
}

func (r *ImageResolver) pageDir() string {
	dir, _ := r.page["url"].(string)
	if dir == "" {
		return "/"
	}
	if !strings.HasSuffix(dir, "/") {
		dir = path.Dir(dir)
	}
	return dir
}
