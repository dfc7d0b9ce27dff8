package philofeed

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, DefaultSections)
}

// renderSitemap lists the home page and every section. A category section's
// lastmod is the creation date of its newest record.
func (a *App) renderSitemap(c echo.Context, sections []Section) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
	}
	for _, s := range sections {
		u := sitemapURL{Loc: BuildURL(base, "section", s.ID)}
		if s.Category != "" {
			if recs := a.Store.List(s.Category); len(recs) > 0 {
				u.LastMod = recordTime(recs[len(recs)-1].ID).Format("2006-01-02")
			}
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
