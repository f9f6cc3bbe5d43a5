package content

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Store is the capability the pipeline reads content through.
type Store interface {
	// ListSlugs returns every article identifier, sorted ascending.
	ListSlugs() ([]string, error)
	// ReadSource returns the raw document for slug, or a *NotFoundError.
	ReadSource(slug string) ([]byte, error)
}

// Versioner is implemented by stores that can fingerprint their contents.
// The value changes whenever any article is added, removed or edited.
type Versioner interface {
	Version() (string, error)
}

// Ext is the file extension of article documents.
const Ext = ".md"

var reSlug = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._~-]*$`)

// ValidSlug reports whether s is a URL-safe article identifier: ASCII
// letters, digits and the unreserved marks . _ ~ -, starting with a letter
// or digit.
func ValidSlug(s string) bool {
	return reSlug.MatchString(s)
}

// DirStore reads one <slug>.md document per article from the top level of a
// filesystem. The extension is matched case-insensitively. Sub-directories
// and other files are not articles.
type DirStore struct {
	fsys fs.FS
}

// NewDirStore creates a DirStore over fsys, typically os.DirFS(dir).
func NewDirStore(fsys fs.FS) *DirStore {
	return &DirStore{fsys: fsys}
}

func (s *DirStore) entries() ([]fs.DirEntry, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("content: scan directory: %w", err)
	}
	var out []fs.DirEntry
	for _, e := range entries {
		if e.IsDir() || !isArticleFile(e.Name()) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func isArticleFile(name string) bool {
	return strings.EqualFold(path.Ext(name), Ext)
}

// stem strips the article extension. A file named only ".md" has an empty
// stem, which the index reports as an invalid slug.
func stem(name string) string {
	return name[:len(name)-len(Ext)]
}

// ListSlugs returns the stem of every .md file, sorted. Stems are not
// validated here; BuildIndex reports the ones that are not URL-safe.
func (s *DirStore) ListSlugs() ([]string, error) {
	entries, err := s.entries()
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(entries))
	for _, e := range entries {
		slugs = append(slugs, stem(e.Name()))
	}
	sort.Strings(slugs)
	return slices.Compact(slugs), nil
}

// ReadSource reads <slug>.md.
func (s *DirStore) ReadSource(slug string) ([]byte, error) {
	name := slug + Ext
	if slug == "" || strings.ContainsAny(slug, `/\`) || !fs.ValidPath(name) || path.Base(name) != name {
		return nil, &NotFoundError{Slug: slug}
	}
	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		name, err = s.resolve(slug)
		if err != nil {
			return nil, err
		}
		data, err = fs.ReadFile(s.fsys, name)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Slug: slug}
		}
		return nil, fmt.Errorf("content: read %s: %w", name, err)
	}
	return data, nil
}

// resolve finds the file for slug when its extension is not lower case.
func (s *DirStore) resolve(slug string) (string, error) {
	entries, err := s.entries()
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if stem(e.Name()) == slug {
			return e.Name(), nil
		}
	}
	return "", &NotFoundError{Slug: slug}
}

// Version hashes the name, size and modification time of every article file.
func (s *DirStore) Version() (string, error) {
	entries, err := s.entries()
	if err != nil {
		return "", err
	}
	h := sha256.New()
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			return "", fmt.Errorf("content: stat %s: %w", e.Name(), err)
		}
		fmt.Fprintf(h, "%s\x00%d\x00%d\n", e.Name(), info.Size(), info.ModTime().UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MemStore is an in-memory Store, safe for concurrent use.
type MemStore struct {
	mu      sync.RWMutex
	docs    map[string][]byte
	version uint64
}

// NewMemStore creates a MemStore seeded with docs keyed by slug.
func NewMemStore(docs map[string]string) *MemStore {
	m := &MemStore{docs: make(map[string][]byte, len(docs))}
	for slug, doc := range docs {
		m.docs[slug] = []byte(doc)
	}
	return m
}

// Put adds or replaces a document.
func (m *MemStore) Put(slug, doc string) {
	m.mu.Lock()
	m.docs[slug] = []byte(doc)
	m.version++
	m.mu.Unlock()
}

// Delete removes a document.
func (m *MemStore) Delete(slug string) {
	m.mu.Lock()
	delete(m.docs, slug)
	m.version++
	m.mu.Unlock()
}

func (m *MemStore) ListSlugs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slugs := make([]string, 0, len(m.docs))
	for slug := range m.docs {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs, nil
}

func (m *MemStore) ReadSource(slug string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[slug]
	if !ok {
		return nil, &NotFoundError{Slug: slug}
	}
	return append([]byte(nil), doc...), nil
}

func (m *MemStore) Version() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return strconv.FormatUint(m.version, 10), nil
}
