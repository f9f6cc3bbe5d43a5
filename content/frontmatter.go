package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// Front matter keys every article must set.
const (
	FieldTitle    = "title"
	FieldDate     = "date"
	FieldCategory = "category"
)

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Parse splits raw into typed metadata and the markdown body. YAML, TOML and
// JSON front matter blocks are accepted.
func Parse(raw []byte) (Metadata, []byte, error) {
	var fields map[string]any
	body, err := frontmatter.MustParse(bytes.NewReader(raw), &fields)
	if err != nil {
		return Metadata{}, nil, &MalformedFrontMatterError{Err: err}
	}
	meta, err := metadataFromFields(fields)
	if err != nil {
		return Metadata{}, nil, err
	}
	return meta, body, nil
}

func metadataFromFields(fields map[string]any) (Metadata, error) {
	title, err := requiredString(fields, FieldTitle)
	if err != nil {
		return Metadata{}, err
	}
	rawDate, ok := fields[FieldDate]
	if !ok || rawDate == nil || rawDate == "" {
		return Metadata{}, &MissingFieldError{Field: FieldDate}
	}
	date, err := parseDate(rawDate)
	if err != nil {
		return Metadata{}, err
	}
	category, err := requiredString(fields, FieldCategory)
	if err != nil {
		return Metadata{}, err
	}

	var extra map[string]any
	for k, v := range fields {
		switch k {
		case FieldTitle, FieldDate, FieldCategory:
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return Metadata{
		Title:    title,
		Date:     date,
		Category: category,
		Extra:    extra,
	}, nil
}

func requiredString(fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", &MissingFieldError{Field: key}
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	if s == "" {
		return "", &MissingFieldError{Field: key}
	}
	return s, nil
}

func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, &InvalidDateError{Value: v}
}

// StringField returns an extra front matter value when it is a non-empty string.
func (m Metadata) StringField(key string) string {
	s, _ := m.Extra[key].(string)
	return strings.TrimSpace(s)
}
