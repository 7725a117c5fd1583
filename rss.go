package seotag

import (
	"encoding/xml"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName    xml.Name   `xml:"rss"`
	Version    string     `xml:"version,attr"`
	XMLNSMedia string     `xml:"xmlns:media,attr"`
	Channel    rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description"`
	PubDate     string        `xml:"pubDate"`
	GUID        string        `xml:"guid"`
	Media       *rssMediaItem `xml:"media:content,omitempty"`
}

type rssMediaItem struct {
	URL    string `xml:"url,attr"`
	Medium string `xml:"medium,attr"`
}

func (a *App) feed(posts []Post) rssXML {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		pubDate := ""
		if t, err := time.Parse("2006-01-02", p.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		postURL := BuildURL(base, a.Config.BaseURL, "blog", p.Slug)
		item := rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Summary,
			PubDate:     pubDate,
			GUID:        postURL,
		}
		if img, _ := ResolveImage(a.Config, p); img != "" {
			item.Media = &rssMediaItem{URL: img, Medium: "image"}
		}
		items = append(items, item)
	}
	return rssXML{
		Version:    "2.0",
		XMLNSMedia: "http://search.yahoo.com/mrss/",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        BuildURL(base, a.Config.BaseURL),
			Description: a.Config.Description,
			Items:       items,
		},
	}
}

func (a *App) renderRSS(c echo.Context, posts []Post) error {
	return renderXML(c, "application/rss+xml; charset=utf-8", a.feed(posts))
}
