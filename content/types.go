// Package content turns authored markdown articles into rendered HTML and a
// category-grouped index. Content is read through a Store, so the same
// pipeline runs over a directory, an in-memory set, or a SQLite database.
package content

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// DateLayout is the display and wire format for article dates.
const DateLayout = "2006-01-02"

// Metadata is the typed projection of an article's front matter.
type Metadata struct {
	Title    string
	Date     time.Time
	Category string
	Extra    map[string]any // every other key, untouched
}

// Summary is the index entry for one article. It carries no rendered body.
type Summary struct {
	Slug string
	Metadata
}

// Article is a fully rendered article.
type Article struct {
	Slug string
	Metadata
	ContentHTML string
}

// Library is the read surface the presentation layer depends on.
type Library interface {
	GetArticle(slug string) (Article, error)
	GetCategorizedArticles() (*Index, error)
}

// Category is one group of the index.
type Category struct {
	Name     string
	Articles []Summary
}

// Index holds every article grouped by category. Categories appear in the
// order they were first seen while scanning; articles inside a category are
// newest first, ties broken by slug.
type Index struct {
	Categories []Category
}

// Lookup returns the articles filed under name.
func (idx *Index) Lookup(name string) ([]Summary, bool) {
	for _, c := range idx.Categories {
		if c.Name == name {
			return c.Articles, true
		}
	}
	return nil, false
}

// Names returns category names in index order.
func (idx *Index) Names() []string {
	names := make([]string, len(idx.Categories))
	for i, c := range idx.Categories {
		names[i] = c.Name
	}
	return names
}

// All returns every summary across categories, newest first.
func (idx *Index) All() []Summary {
	var all []Summary
	for _, c := range idx.Categories {
		all = append(all, c.Articles...)
	}
	sortSummaries(all)
	return all
}

// Len returns the number of articles in the index.
func (idx *Index) Len() int {
	n := 0
	for _, c := range idx.Categories {
		n += len(c.Articles)
	}
	return n
}

func (idx *Index) clone() *Index {
	out := &Index{Categories: make([]Category, len(idx.Categories))}
	for i, c := range idx.Categories {
		arts := make([]Summary, len(c.Articles))
		for j, s := range c.Articles {
			s.Extra = cloneExtra(s.Extra)
			arts[j] = s
		}
		out.Categories[i] = Category{Name: c.Name, Articles: arts}
	}
	return out
}

func sortSummaries(s []Summary) {
	sort.SliceStable(s, func(i, j int) bool {
		if !s[i].Date.Equal(s[j].Date) {
			return s[i].Date.After(s[j].Date)
		}
		return s[i].Slug < s[j].Slug
	})
}

type summaryJSON struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Category string `json:"category"`
}

type articleJSON struct {
	summaryJSON
	ContentHTML string `json:"contentHtml"`
}

func (s Summary) toJSON() summaryJSON {
	return summaryJSON{
		Slug:     s.Slug,
		Title:    s.Title,
		Date:     s.Date.Format(DateLayout),
		Category: s.Category,
	}
}

// MarshalJSON encodes the summary as {slug, title, date, category}.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.toJSON())
}

// MarshalJSON encodes the article as {slug, title, date, category, contentHtml}.
func (a Article) MarshalJSON() ([]byte, error) {
	return json.Marshal(articleJSON{
		summaryJSON: Summary{Slug: a.Slug, Metadata: a.Metadata}.toJSON(),
		ContentHTML: a.ContentHTML,
	})
}

// MarshalJSON encodes the index as an object keyed by category, keeping index order.
func (idx *Index) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range idx.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		arts := c.Articles
		if arts == nil {
			arts = []Summary{}
		}
		val, err := json.Marshal(arts)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func cloneExtra(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
