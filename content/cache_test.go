package content

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

// countingStore counts reads and hides the MemStore's Versioner.
type countingStore struct {
	inner *MemStore
	mu    sync.Mutex
	reads int
}

func (c *countingStore) ListSlugs() ([]string, error) { return c.inner.ListSlugs() }

func (c *countingStore) ReadSource(slug string) ([]byte, error) {
	c.mu.Lock()
	c.reads++
	c.mu.Unlock()
	return c.inner.ReadSource(slug)
}

func (c *countingStore) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

// gatedStore blocks the first read of slug until release is closed.
type gatedStore struct {
	*MemStore
	slug    string
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) ReadSource(slug string) ([]byte, error) {
	if slug == g.slug {
		first := false
		g.once.Do(func() { first = true })
		if first {
			close(g.entered)
			<-g.release
		}
	}
	return g.MemStore.ReadSource(slug)
}

func TestCacheDropsLoadsStartedBeforeInvalidate(t *testing.T) {
	store := &gatedStore{
		MemStore: sampleStore(),
		slug:     "a",
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	cache := NewCache(NewService(store), time.Hour)

	done := make(chan error, 1)
	go func() {
		_, err := cache.GetArticle("a")
		done <- err
	}()
	<-store.entered

	cache.Invalidate()
	// Another reader resyncs to the unchanged store version while the
	// first load is still running.
	if _, err := cache.GetCategorizedArticles(); err != nil {
		t.Fatalf("GetCategorizedArticles failed: %v", err)
	}
	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}

	cache.mu.RLock()
	_, published := cache.articles["a"]
	cache.mu.RUnlock()
	if published {
		t.Error("load started before Invalidate was published")
	}

	if _, err := cache.GetArticle("a"); err != nil {
		t.Fatalf("GetArticle after invalidate failed: %v", err)
	}
	cache.mu.RLock()
	_, published = cache.articles["a"]
	cache.mu.RUnlock()
	if !published {
		t.Error("fresh load was not published")
	}
}

func TestCacheInvalidatesOnVersionChange(t *testing.T) {
	store := sampleStore()
	cache := NewCache(NewService(store), time.Hour)

	a1, err := cache.GetArticle("a")
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	idx1, err := cache.GetCategorizedArticles()
	if err != nil {
		t.Fatalf("GetCategorizedArticles failed: %v", err)
	}

	store.Put("a", doc("Post A edited", "2024-07-01", "tech", "# A2\n"))

	a2, err := cache.GetArticle("a")
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if a2.Title == a1.Title || a2.ContentHTML == a1.ContentHTML {
		t.Errorf("cache served stale article: %+v", a2)
	}
	idx2, err := cache.GetCategorizedArticles()
	if err != nil {
		t.Fatalf("GetCategorizedArticles failed: %v", err)
	}
	tech, _ := idx2.Lookup("tech")
	if got := slugsOf(tech); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("tech after edit = %v, want [a b]", got)
	}
	if reflect.DeepEqual(idx1, idx2) {
		t.Errorf("index should differ after edit")
	}
}

func TestCacheMatchesService(t *testing.T) {
	store := sampleStore()
	svc := NewService(store)
	cache := NewCache(svc, time.Hour)

	for i := 0; i < 2; i++ {
		want, _ := svc.GetCategorizedArticles()
		got, err := cache.GetCategorizedArticles()
		if err != nil {
			t.Fatalf("cache index failed: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("pass %d: cached index differs", i)
		}
		wantA, _ := svc.GetArticle("c")
		gotA, _ := cache.GetArticle("c")
		if !reflect.DeepEqual(gotA, wantA) {
			t.Errorf("pass %d: cached article differs", i)
		}
	}
	if _, err := cache.GetArticle("missing-slug"); !IsNotFound(err) {
		t.Errorf("GetArticle(missing-slug) = %v, want not found", err)
	}
}

func TestCacheReturnsCopies(t *testing.T) {
	cache := NewCache(NewService(sampleStore()), time.Hour)
	idx, _ := cache.GetCategorizedArticles()
	idx.Categories[0].Articles[0].Title = "mutated"
	idx.Categories = nil

	again, err := cache.GetCategorizedArticles()
	if err != nil {
		t.Fatalf("GetCategorizedArticles failed: %v", err)
	}
	if len(again.Categories) != 2 || again.Categories[0].Articles[0].Title != "Post B" {
		t.Errorf("caller mutation leaked into cache: %+v", again)
	}
}

func TestCacheTTLWithoutVersioner(t *testing.T) {
	store := &countingStore{inner: sampleStore()}
	cache := NewCache(NewService(store), time.Hour)

	for i := 0; i < 3; i++ {
		if _, err := cache.GetArticle("a"); err != nil {
			t.Fatalf("GetArticle failed: %v", err)
		}
	}
	if n := store.count(); n != 1 {
		t.Errorf("reads = %d, want 1 while the entry is fresh", n)
	}
	cache.Invalidate()
	if _, err := cache.GetArticle("a"); err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if n := store.count(); n != 2 {
		t.Errorf("reads = %d, want 2 after Invalidate", n)
	}

	expiring := NewCache(NewService(store), 10*time.Millisecond)
	expiring.GetArticle("b")
	time.Sleep(20 * time.Millisecond)
	expiring.GetArticle("b")
	if n := store.count(); n != 4 {
		t.Errorf("reads = %d, want 4 after TTL expiry", n)
	}
}

func TestCacheDoesNotCacheErrors(t *testing.T) {
	store := sampleStore()
	store.Put("broken", "no front matter")
	cache := NewCache(NewService(store), time.Hour)

	if _, err := cache.GetCategorizedArticles(); err == nil {
		t.Fatal("expected index error")
	}
	store.Put("broken", doc("Fixed", "2024-01-02", "life", ""))
	idx, err := cache.GetCategorizedArticles()
	if err != nil {
		t.Fatalf("GetCategorizedArticles after fix failed: %v", err)
	}
	if idx.Len() != 4 {
		t.Errorf("Len = %d, want 4", idx.Len())
	}
}

func TestCacheConcurrentReads(t *testing.T) {
	store := sampleStore()
	cache := NewCache(NewService(store), time.Hour)
	want, _ := NewService(store).GetCategorizedArticles()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			idx, err := cache.GetCategorizedArticles()
			if err != nil {
				errs <- err
				return
			}
			if !reflect.DeepEqual(idx, want) {
				t.Errorf("goroutine %d saw a different index", i)
			}
			if _, err := cache.GetArticle([]string{"a", "b", "c"}[i%3]); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent read failed: %v", err)
	}
}
