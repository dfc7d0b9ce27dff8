package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// EmptyFeedText is shown in a category container with no records.
const EmptyFeedText = "Aún no has agregado contenido en esta categoría."

// ConfirmDeleteText is the yes/no prompt shown before a delete.
const ConfirmDeleteText = "¿Estás seguro de que quieres eliminar este contenido?"

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PathEscape wraps url.PathEscape for use in component attributes.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// SectionURL is the navigation URL for a section.
func SectionURL(id string) string {
	return "/section/" + PathEscape(id) + "/"
}

// FeedURL is the partial URL repainting a category container.
func FeedURL(category string) string {
	return "/category/" + PathEscape(category) + "/"
}

// ContentURL addresses one record for htmx deletes.
func ContentURL(category string, id int64) string {
	return "/content/" + PathEscape(category) + "/" + strconv.FormatInt(id, 10) + "/"
}

// DeleteURL is the confirmation page for one record.
func DeleteURL(category string, id int64) string {
	return ContentURL(category, id) + "delete/"
}

// NavClass returns the CSS classes for a nav link.
func NavClass(active bool) string {
	if active {
		return "nav-link active"
	}
	return "nav-link"
}

// SectionClass returns the CSS classes for a page section.
func SectionClass(active bool) string {
	if active {
		return "page-section active"
	}
	return "page-section"
}

// Paragraphs splits body text on blank lines. Single line breaks inside a
// paragraph are preserved as separate lines.
func Paragraphs(body string) [][]string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	var out [][]string
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		out = append(out, strings.Split(block, "\n"))
	}
	return out
}

// hxHeaders builds the hx-headers JSON carrying the CSRF token.
func hxHeaders(csrf string) string {
	b, err := json.Marshal(map[string]string{"X-CSRF-Token": csrf})
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
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
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
