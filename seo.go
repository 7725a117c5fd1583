package seotag

import (
	"encoding/json"
	"strings"
)

// FrontMatter returns the page metadata the image resolver and templates read.
// Posts without an image inherit cfg.DefaultImage.
func (p Post) FrontMatter(cfg SiteConfig) Page {
	page := Page{
		"url":         "/blog/" + p.Slug + "/",
		"title":       p.Title,
		"description": p.Summary,
		"date":        p.Date,
	}
	switch {
	case p.Image != nil:
		page["image"] = p.Image
	case cfg.DefaultImage != "":
		page["image"] = cfg.DefaultImage
	}
	return page
}

// ResolveImage resolves the post's image against the site. The returned
// record is the normalized image front matter.
func ResolveImage(cfg SiteConfig, post Post) (string, map[string]any) {
	r, err := NewImageResolver(post.FrontMatter(cfg), NewSiteFilters(cfg))
	if err != nil {
		return "", nil
	}
	u, _ := r.URL()
	return u, r.FallbackData()
}

// BuildPageMeta assembles the <head> metadata for a single post.
func BuildPageMeta(cfg SiteConfig, post Post) PageMeta {
	img, rec := ResolveImage(cfg, post)
	alt, _ := rec["alt"].(string)
	return PageMeta{
		Title:       post.Title,
		Description: post.Summary,
		URL:         BuildURL(cfg.URL, cfg.BaseURL, "blog", post.Slug),
		OGType:      "article",
		Image:       img,
		ImageAlt:    alt,
		Twitter:     cfg.Twitter,
		JSONLD:      BlogPostingJsonLD(post, cfg),
	}
}

// HomePageMeta assembles the <head> metadata for the listing page.
func HomePageMeta(cfg SiteConfig) PageMeta {
	meta := PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         BuildURL(cfg.URL, cfg.BaseURL),
		OGType:      "website",
		Twitter:     cfg.Twitter,
		JSONLD:      WebsiteJsonLD(cfg),
	}
	if cfg.DefaultImage != "" {
		r, err := NewImageResolver(Page{"url": "/", "image": cfg.DefaultImage}, NewSiteFilters(cfg))
		if err == nil {
			meta.Image, _ = r.URL()
		}
	}
	return meta
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL, cfg.BaseURL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return marshalJsonLD(data)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(post Post, cfg SiteConfig) string {
	postURL := BuildURL(cfg.URL, cfg.BaseURL, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.Date,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if img, _ := ResolveImage(cfg, post); img != "" {
		data["image"] = img
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	return marshalJsonLD(data)
}

func marshalJsonLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
