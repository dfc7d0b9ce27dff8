package philofeed

import (
	"encoding/xml"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
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
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	Author      string  `xml:"author,omitempty"`
	Category    string  `xml:"category"`
	PubDate     string  `xml:"pubDate,omitempty"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// maxFeedDescription bounds item descriptions; bodies can be long essays.
const maxFeedDescription = 280

func (a *App) handleFeed(c echo.Context) error {
	cat, ok := ParseCategory(c.Param("category"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return a.renderRSS(c, cat, a.Store.List(cat))
}

func (a *App) renderRSS(c echo.Context, cat Category, records []ContentRecord) error {
	base := a.Config.URL
	sectionURL := BuildURL(base, "section", string(cat))
	items := make([]rssItem, 0, len(records))
	// Newest first.
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		items = append(items, rssItem{
			Title:       r.Title,
			Link:        sectionURL,
			Description: truncateRunes(r.Content, maxFeedDescription),
			Author:      r.Author,
			Category:    cat.Label(),
			PubDate:     recordTime(r.ID).Format(time.RFC1123Z),
			GUID: rssGUID{
				Value: string(cat) + "-" + strconv.FormatInt(r.ID, 10),
			},
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name + " | " + CategoryName(string(cat)),
			Link:        sectionURL,
			Description: a.Config.Description,
			Language:    "es",
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

// recordTime recovers the creation time from a millisecond id.
func recordTime(id int64) time.Time {
	return time.UnixMilli(id).UTC()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
