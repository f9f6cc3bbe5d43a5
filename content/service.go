package content

import (
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"

	"github.com/liamso/folio/markdown"
)

// Renderer converts a markdown body to HTML. Implementations must be
// deterministic and free of I/O.
type Renderer interface {
	Render(body []byte) (string, error)
}

// Logger is the subset of echo.Logger the service writes to.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Service is the accessor facade over a Store. It holds no mutable state;
// every call reads the store afresh.
type Service struct {
	store    Store
	renderer Renderer
	logger   Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRenderer replaces the default goldmark renderer.
func WithRenderer(r Renderer) ServiceOption {
	return func(s *Service) {
		s.renderer = r
	}
}

// WithLogger sets the logger used for content diagnostics.
func WithLogger(l Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a Service reading from store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = markdown.New(markdown.Options{})
	}
	if s.logger == nil {
		s.logger = log.New("content")
	}
	return s
}

// Store returns the underlying content store.
func (s *Service) Store() Store {
	return s.store
}

// ListSlugs returns every article identifier in the store.
func (s *Service) ListSlugs() ([]string, error) {
	return s.store.ListSlugs()
}

// GetArticle loads, parses and renders one article. Unknown or non URL-safe
// slugs yield a *NotFoundError; content defects yield an *ArticleError.
func (s *Service) GetArticle(slug string) (Article, error) {
	if !ValidSlug(slug) {
		return Article{}, &NotFoundError{Slug: slug}
	}
	raw, err := s.store.ReadSource(slug)
	if err != nil {
		return Article{}, err
	}
	meta, body, err := Parse(raw)
	if err != nil {
		s.logger.Warnf("article %s: %v", slug, err)
		return Article{}, &ArticleError{Slug: slug, Err: err}
	}
	html, err := s.renderer.Render(body)
	if err != nil {
		return Article{}, &ArticleError{Slug: slug, Err: fmt.Errorf("render: %w", err)}
	}
	s.logger.Debugf("rendered article %s (%d bytes)", slug, len(html))
	return Article{Slug: slug, Metadata: meta, ContentHTML: html}, nil
}

// GetCategorizedArticles builds the index over every slug in the store.
func (s *Service) GetCategorizedArticles() (*Index, error) {
	slugs, err := s.store.ListSlugs()
	if err != nil {
		return nil, err
	}
	idx, err := BuildIndex(s.store, slugs)
	if err != nil {
		var ie *IndexError
		if errors.As(err, &ie) {
			s.logger.Warnf("index build failed for %v", ie.Slugs())
		}
		return nil, err
	}
	s.logger.Debugf("indexed %d articles in %d categories", idx.Len(), len(idx.Categories))
	return idx, nil
}
