package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/liamso/folio/content"
)

var testSite = Site{Name: "Liam So", URL: "https://example.com", Description: "Notes", Author: "Liam"}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func summary(slug, title, date, category string) content.Summary {
	d, _ := time.Parse(content.DateLayout, date)
	return content.Summary{Slug: slug, Metadata: content.Metadata{Title: title, Date: d, Category: category}}
}

func testIndex() *content.Index {
	return &content.Index{Categories: []content.Category{
		{Name: "tech", Articles: []content.Summary{
			summary("b", "Post B", "2024-06-01", "tech"),
			summary("a", "Post <A>", "2024-01-01", "tech"),
		}},
		{Name: "Life & Travel", Articles: []content.Summary{
			summary("c", "Post C", "2024-03-01", "Life & Travel"),
		}},
	}}
}

func TestArticleInjectsContentVerbatim(t *testing.T) {
	d, _ := time.Parse(content.DateLayout, "2024-06-01")
	a := content.Article{
		Slug:        "b",
		Metadata:    content.Metadata{Title: "Tom & <Jerry>", Date: d, Category: "tech"},
		ContentHTML: `<h2 id="x">Hello</h2><p>&lt;b&gt;</p>`,
	}
	got := renderString(t, Article(testSite, a))
	if !strings.Contains(got, a.ContentHTML) {
		t.Errorf("ContentHTML not injected verbatim: %s", got)
	}
	if !strings.Contains(got, "Tom &amp; &lt;Jerry&gt;") {
		t.Errorf("title should be escaped: %s", got)
	}
	if !strings.Contains(got, `<time datetime="2024-06-01">2024-06-01</time>`) {
		t.Errorf("date missing: %s", got)
	}
	if !strings.Contains(got, `href="/blog/"`) {
		t.Errorf("back link missing: %s", got)
	}
	if !strings.Contains(got, `"@type":"BlogPosting"`) {
		t.Errorf("JSON-LD missing: %s", got)
	}
}

func TestBlogGroupsByCategory(t *testing.T) {
	got := renderString(t, Blog(testSite, testIndex()))
	tech := strings.Index(got, `id="category-tech"`)
	life := strings.Index(got, `id="category-life-travel"`)
	if tech < 0 || life < 0 || tech > life {
		t.Fatalf("categories missing or out of order: %s", got)
	}
	b := strings.Index(got, `/blog/b/`)
	a := strings.Index(got, `/blog/a/`)
	if b < 0 || a < 0 || b > a {
		t.Errorf("articles out of order: %s", got)
	}
	if !strings.Contains(got, "Post &lt;A&gt;") {
		t.Errorf("summary titles should be escaped: %s", got)
	}
	if !strings.Contains(got, "Life &amp; Travel") {
		t.Errorf("category names should be escaped: %s", got)
	}
}

func TestHomeLimitsRecent(t *testing.T) {
	got := renderString(t, Home(testSite, testIndex(), 2))
	if !strings.Contains(got, "/blog/b/") || !strings.Contains(got, "/blog/c/") {
		t.Errorf("expected two newest articles: %s", got)
	}
	if strings.Contains(got, "/blog/a/") {
		t.Errorf("oldest article should be cut: %s", got)
	}
	empty := renderString(t, Home(testSite, &content.Index{}, 5))
	if !strings.Contains(empty, "Nothing published yet.") {
		t.Errorf("empty home = %s", empty)
	}
}

func TestCategoryAnchor(t *testing.T) {
	tests := []struct {
		input, expected string
	}{
		{"tech", "category-tech"},
		{"Life & Travel", "category-life-travel"},
		{"  Go 1.22  ", "category-go-1-22"},
		{"日本", "category"},
	}
	for _, tt := range tests {
		if got := CategoryAnchor(tt.input); got != tt.expected {
			t.Errorf("CategoryAnchor(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDescription(t *testing.T) {
	m := content.Metadata{Extra: map[string]any{"description": "from description", "summary": "  "}}
	if got := Description(m); got != "from description" {
		t.Errorf("Description = %q", got)
	}
	m.Extra["summary"] = "from summary"
	if got := Description(m); got != "from summary" {
		t.Errorf("Description = %q", got)
	}
	if got := Description(content.Metadata{}); got != "" {
		t.Errorf("Description of empty metadata = %q", got)
	}
}
