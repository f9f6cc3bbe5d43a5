package content

// BuildIndex parses the metadata of every slug and groups the results by
// category. Bodies are not rendered. If any article fails, the whole build
// fails with an *IndexError naming every failing slug.
func BuildIndex(store Store, slugs []string) (*Index, error) {
	var failures []*ArticleError
	idx := &Index{}
	pos := make(map[string]int)

	for _, slug := range slugs {
		meta, err := loadMetadata(store, slug)
		if err != nil {
			failures = append(failures, &ArticleError{Slug: slug, Err: err})
			continue
		}
		i, ok := pos[meta.Category]
		if !ok {
			i = len(idx.Categories)
			pos[meta.Category] = i
			idx.Categories = append(idx.Categories, Category{Name: meta.Category})
		}
		idx.Categories[i].Articles = append(idx.Categories[i].Articles, Summary{Slug: slug, Metadata: meta})
	}
	if len(failures) > 0 {
		return nil, &IndexError{Failures: failures}
	}
	for i := range idx.Categories {
		sortSummaries(idx.Categories[i].Articles)
	}
	return idx, nil
}

func loadMetadata(store Store, slug string) (Metadata, error) {
	if !ValidSlug(slug) {
		return Metadata{}, &InvalidSlugError{Slug: slug}
	}
	raw, err := store.ReadSource(slug)
	if err != nil {
		return Metadata{}, err
	}
	meta, _, err := Parse(raw)
	return meta, err
}
