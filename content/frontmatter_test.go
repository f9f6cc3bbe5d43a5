package content

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseYAML(t *testing.T) {
	raw := "---\ntitle: Hello World\ndate: 2024-03-01\ncategory: Tech \nsummary: First post\ntags: [go, web]\n---\n# Hello\n\nBody text.\n"

	meta, body, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Title != "Hello World" {
		t.Errorf("Title = %q, want %q", meta.Title, "Hello World")
	}
	if want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC); !meta.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", meta.Date, want)
	}
	if meta.Category != "Tech" {
		t.Errorf("Category = %q, want %q", meta.Category, "Tech")
	}
	if meta.StringField("summary") != "First post" {
		t.Errorf("summary extra = %#v", meta.Extra["summary"])
	}
	if _, ok := meta.Extra["tags"]; !ok {
		t.Errorf("tags should pass through in Extra: %#v", meta.Extra)
	}
	for _, k := range []string{FieldTitle, FieldDate, FieldCategory} {
		if _, ok := meta.Extra[k]; ok {
			t.Errorf("required key %q should not be duplicated in Extra", k)
		}
	}
	if !strings.HasPrefix(string(body), "# Hello") {
		t.Errorf("body = %q, want markdown without front matter", body)
	}
}

func TestParseCategoryKeptAsAuthored(t *testing.T) {
	raw := "---\ntitle: x\ndate: 2024-01-01\ncategory: \"  Life Notes \"\n---\n"
	meta, _, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Category != "  Life Notes " {
		t.Errorf("Category = %q, want it untouched", meta.Category)
	}
}

func TestParseTOML(t *testing.T) {
	raw := "+++\ntitle = \"Toml post\"\ndate = \"2023-11-05\"\ncategory = \"life\"\n+++\nbody\n"
	meta, body, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Title != "Toml post" || meta.Category != "life" {
		t.Errorf("meta = %+v", meta)
	}
	if meta.Date.Format(DateLayout) != "2023-11-05" {
		t.Errorf("Date = %v", meta.Date)
	}
	if strings.TrimSpace(string(body)) != "body" {
		t.Errorf("body = %q", body)
	}
}

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-06-01T10:30:00Z", time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-06-01T10:30:00", time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-06-01 10:30:00", time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		raw := "---\ntitle: t\ndate: \"" + tt.value + "\"\ncategory: c\n---\n"
		meta, _, err := Parse([]byte(raw))
		if err != nil {
			t.Errorf("Parse(date %q) failed: %v", tt.value, err)
			continue
		}
		if !meta.Date.Equal(tt.want) {
			t.Errorf("date %q parsed as %v, want %v", tt.value, meta.Date, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(error) bool
	}{
		{
			name: "no front matter",
			raw:  "# Just markdown\n",
			check: func(err error) bool {
				var e *MalformedFrontMatterError
				return errors.As(err, &e)
			},
		},
		{
			name: "broken yaml",
			raw:  "---\ntitle: [unclosed\ndate: 2024-01-01\n---\nbody\n",
			check: func(err error) bool {
				var e *MalformedFrontMatterError
				return errors.As(err, &e)
			},
		},
		{
			name:  "missing title",
			raw:   "---\ndate: 2024-01-01\ncategory: tech\n---\n",
			check: missingField(FieldTitle),
		},
		{
			name:  "missing date",
			raw:   "---\ntitle: x\ncategory: tech\n---\n",
			check: missingField(FieldDate),
		},
		{
			name:  "empty category",
			raw:   "---\ntitle: x\ndate: 2024-01-01\ncategory: \"\"\n---\n",
			check: missingField(FieldCategory),
		},
		{
			name: "bad date",
			raw:  "---\ntitle: x\ndate: last tuesday\ncategory: tech\n---\n",
			check: func(err error) bool {
				var e *InvalidDateError
				return errors.As(err, &e)
			},
		},
		{
			name: "numeric date",
			raw:  "---\ntitle: x\ndate: 20240101\ncategory: tech\n---\n",
			check: func(err error) bool {
				var e *InvalidDateError
				return errors.As(err, &e)
			},
		},
	}
	for _, tt := range tests {
		_, _, err := Parse([]byte(tt.raw))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !tt.check(err) {
			t.Errorf("%s: unexpected error type %T: %v", tt.name, err, err)
		}
	}
}

func missingField(field string) func(error) bool {
	return func(err error) bool {
		var e *MissingFieldError
		return errors.As(err, &e) && e.Field == field
	}
}
