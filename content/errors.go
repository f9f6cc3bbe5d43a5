package content

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError is returned when a slug is not present in the store.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("content: article %q not found", e.Slug)
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// MalformedFrontMatterError means the metadata block is absent or cannot be decoded.
type MalformedFrontMatterError struct {
	Err error
}

func (e *MalformedFrontMatterError) Error() string {
	return fmt.Sprintf("malformed front matter: %v", e.Err)
}

func (e *MalformedFrontMatterError) Unwrap() error { return e.Err }

// MissingFieldError names a required front matter key that was not set.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// InvalidDateError means the date field could not be read as a calendar date.
type InvalidDateError struct {
	Value any
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %v", e.Value)
}

// InvalidSlugError is reported for documents whose identifier is not URL-safe.
type InvalidSlugError struct {
	Slug string
}

func (e *InvalidSlugError) Error() string {
	return fmt.Sprintf("slug %q is not URL-safe", e.Slug)
}

// ArticleError ties a content defect to the article it was found in.
type ArticleError struct {
	Slug string
	Err  error
}

func (e *ArticleError) Error() string {
	return fmt.Sprintf("article %q: %v", e.Slug, e.Err)
}

func (e *ArticleError) Unwrap() error { return e.Err }

// IndexError aggregates every article that failed while building the index.
type IndexError struct {
	Failures []*ArticleError
}

func (e *IndexError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "content: index build failed for %d article(s)", len(e.Failures))
	for _, f := range e.Failures {
		b.WriteString("\n  - ")
		b.WriteString(f.Error())
	}
	return b.String()
}

// Slugs returns the identifiers of every failing article.
func (e *IndexError) Slugs() []string {
	out := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f.Slug
	}
	return out
}

func (e *IndexError) Unwrap() []error {
	out := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f
	}
	return out
}
