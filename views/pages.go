package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/liamso/folio/content"
)

// esc is shorthand for templ's HTML escaper.
func esc(s string) string {
	return templ.EscapeString(s)
}

// page accumulates markup and the first write error.
type page struct {
	w   io.Writer
	err error
}

func (p *page) raw(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *page) component(ctx context.Context, c templ.Component) {
	if p.err != nil {
		return
	}
	p.err = c.Render(ctx, p.w)
}

// Layout wraps body in the shared document shell.
func Layout(site Site, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := site.Name
		if meta.Title != "" && meta.Title != site.Name {
			title = meta.Title + " | " + site.Name
		}
		desc := meta.Description
		if desc == "" {
			desc = site.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		p := &page{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/>`,
			`<meta name="viewport" content="width=device-width, initial-scale=1"/>`,
			`<title>`, esc(title), `</title>`)
		if desc != "" {
			p.raw(`<meta name="description" content="`, esc(desc), `"/>`,
				`<meta property="og:description" content="`, esc(desc), `"/>`)
		}
		p.raw(`<meta property="og:title" content="`, esc(title), `"/>`,
			`<meta property="og:type" content="`, esc(ogType), `"/>`)
		if meta.URL != "" {
			p.raw(`<link rel="canonical" href="`, esc(meta.URL), `"/>`,
				`<meta property="og:url" content="`, esc(meta.URL), `"/>`)
		}
		p.raw(`<link rel="alternate" type="application/rss+xml" title="`, esc(site.Name), `" href="/feed.xml"/>`,
			`<link rel="icon" href="/favicon.svg"/>`,
			`<link rel="stylesheet" href="/public/styles.css"/>`)
		if meta.JSONLD != "" {
			p.raw(`<script type="application/ld+json">`, meta.JSONLD, `</script>`)
		}
		p.raw(`</head><body><div class="page"><header class="site-header">`,
			`<a href="/" class="site-name">`, esc(site.Name), `</a>`,
			`<nav><a href="/blog/">Blog</a></nav></header><main>`)
		p.component(ctx, body)
		p.raw(`</main></div></body></html>`)
		return p.err
	})
}

func articleList(p *page, articles []content.Summary) {
	p.raw(`<ul class="article-list">`)
	for _, s := range articles {
		p.raw(`<li><a href="`, esc(ArticlePath(s.Slug)), `">`, esc(s.Title), `</a>`,
			`<time datetime="`, s.Date.Format(content.DateLayout), `">`,
			s.Date.Format(content.DateLayout), `</time>`)
		if d := Description(s.Metadata); d != "" {
			p.raw(`<p class="summary">`, esc(d), `</p>`)
		}
		p.raw(`</li>`)
	}
	p.raw(`</ul>`)
}

// Home renders the landing page with the most recent articles.
func Home(site Site, idx *content.Index, recent int) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		p.raw(`<section class="intro"><h1>`, esc(site.Name), `</h1>`)
		if site.Description != "" {
			p.raw(`<p>`, esc(site.Description), `</p>`)
		}
		p.raw(`</section><section class="recent"><h2>Latest writing</h2>`)
		all := idx.All()
		if recent > 0 && len(all) > recent {
			all = all[:recent]
		}
		if len(all) == 0 {
			p.raw(`<p>Nothing published yet.</p>`)
		} else {
			articleList(p, all)
		}
		p.raw(`<a href="/blog/">All articles</a></section>`)
		return p.err
	})
	return Layout(site, PageMeta{
		Title:  site.Name,
		URL:    BuildURL(site.URL),
		JSONLD: WebsiteJsonLD(site),
	}, body)
}

// Blog renders every article grouped by category.
func Blog(site Site, idx *content.Index) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		p.raw(`<h1>Blog</h1>`)
		if len(idx.Categories) > 1 {
			p.raw(`<nav class="categories">`)
			for _, c := range idx.Categories {
				p.raw(`<a href="#`, CategoryAnchor(c.Name), `">`, esc(c.Name), `</a>`)
			}
			p.raw(`</nav>`)
		}
		for _, c := range idx.Categories {
			p.raw(`<section class="category" id="`, CategoryAnchor(c.Name), `"><h2>`, esc(c.Name), `</h2>`)
			articleList(p, c.Articles)
			p.raw(`</section>`)
		}
		return p.err
	})
	return Layout(site, PageMeta{
		Title: "Blog",
		URL:   BuildURL(site.URL, "blog"),
	}, body)
}

// Article renders a single article. ContentHTML is trusted output of the
// markdown renderer and is written verbatim.
func Article(site Site, a content.Article) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		date := a.Date.Format(content.DateLayout)
		p.raw(`<div class="article-head"><a href="/blog/" class="back">&larr; back to blog</a>`,
			`<time datetime="`, date, `">`, date, `</time></div>`,
			`<article class="article"><h1>`, esc(a.Title), `</h1>`,
			`<p class="category"><a href="/blog/#`, CategoryAnchor(a.Category), `">`, esc(a.Category), `</a></p>`)
		p.component(ctx, templ.Raw(a.ContentHTML))
		p.raw(`</article>`)
		return p.err
	})
	return Layout(site, PageMeta{
		Title:       a.Title,
		Description: Description(a.Metadata),
		URL:         BuildURL(site.URL, "blog", a.Slug),
		OGType:      "article",
		JSONLD:      BlogPostingJsonLD(site, a),
	}, body)
}

// NotFound renders the 404 page.
func NotFound(site Site) templ.Component {
	return message(site, "Not found", "The page you were looking for does not exist.")
}

// ServerError renders the 500 page.
func ServerError(site Site) templ.Component {
	return message(site, "Something went wrong", "Please try again later.")
}

func message(site Site, title, text string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		p.raw(`<section class="message"><h1>`, esc(title), `</h1><p>`, esc(text),
			`</p><a href="/">`, esc(strings.TrimSpace("Back to "+site.Name)), `</a></section>`)
		return p.err
	})
	return Layout(site, PageMeta{Title: title}, body)
}
