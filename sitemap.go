package seotag

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName    xml.Name     `xml:"urlset"`
	XMLNS      string       `xml:"xmlns,attr"`
	XMLNSImage string       `xml:"xmlns:image,attr"`
	URLs       []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string         `xml:"loc"`
	LastMod string         `xml:"lastmod,omitempty"`
	Images  []sitemapImage `xml:"image:image,omitempty"`
}

type sitemapImage struct {
	Loc string `xml:"image:loc"`
}

func (a *App) sitemap(posts []Post) sitemapURLSet {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base, a.Config.BaseURL)},
	}
	for _, p := range posts {
		u := sitemapURL{
			Loc:     BuildURL(base, a.Config.BaseURL, "blog", p.Slug),
			LastMod: p.Date,
		}
		if img, _ := ResolveImage(a.Config, p); img != "" {
			u.Images = []sitemapImage{{Loc: img}}
		}
		urls = append(urls, u)
	}
	return sitemapURLSet{
		XMLNS:      "http://www.sitemaps.org/schemas/sitemap/0.9",
		XMLNSImage: "http://www.google.com/schemas/sitemap-image/1.1",
		URLs:       urls,
	}
}

func (a *App) renderSitemap(c echo.Context, posts []Post) error {
	return renderXML(c, "application/xml; charset=utf-8", a.sitemap(posts))
}
