package folio

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/liamso/folio/content"
	"github.com/liamso/folio/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description,omitempty"`
	Category    string `xml:"category"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// feedItems converts index summaries, newest first, into RSS items.
func feedItems(base string, articles []content.Summary) []rssItem {
	items := make([]rssItem, 0, len(articles))
	for _, s := range articles {
		link := views.BuildURL(base, "blog", s.Slug)
		items = append(items, rssItem{
			Title:       s.Title,
			Link:        link,
			Description: views.Description(s.Metadata),
			Category:    s.Category,
			PubDate:     s.Date.Format(time.RFC1123Z),
			GUID:        link,
		})
	}
	return items
}

func (a *App) renderRSS(c echo.Context, articles []content.Summary) error {
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        views.BuildURL(a.Config.URL),
			Description: a.Config.Description,
			Items:       feedItems(a.Config.URL, articles),
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(feed)
}
