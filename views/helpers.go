package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/liamso/folio/content"
)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
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

// ArticlePath is the site-relative link to an article.
func ArticlePath(slug string) string {
	return "/blog/" + url.PathEscape(slug) + "/"
}

// CategoryAnchor converts a category name to a fragment identifier.
func CategoryAnchor(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	anchor := strings.TrimRight(b.String(), "-")
	if anchor == "" {
		return "category"
	}
	return "category-" + anchor
}

// Description picks the summary line shown for an article in listings and meta tags.
func Description(m content.Metadata) string {
	for _, key := range []string{"summary", "description"} {
		if s := m.StringField(key); s != "" {
			return s
		}
	}
	return ""
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block.
func WebsiteJsonLD(site Site) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      BuildURL(site.URL),
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for an article.
func BlogPostingJsonLD(site Site, a content.Article) string {
	articleURL := BuildURL(site.URL, "blog", a.Slug)
	data := map[string]interface{}{
		"@context":       "https://schema.org",
		"@type":          "BlogPosting",
		"headline":       a.Title,
		"datePublished":  a.Date.Format(content.DateLayout),
		"url":            articleURL,
		"articleSection": a.Category,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   articleURL,
		},
	}
	if d := Description(a.Metadata); d != "" {
		data["description"] = d
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
