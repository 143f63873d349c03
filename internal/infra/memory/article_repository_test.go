package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"blog-service/internal/domain"
)

func TestArticleRepositoryCaches(t *testing.T) {
	loader := &countingLoader{ArticleLoader: NewStaticArticleLoader(sampleArticle())}
	repo := NewArticleRepository(loader, time.Minute)

	if _, err := repo.GetArticle(context.Background(), "sleep-cycles"); err != nil {
		t.Fatalf("get article: %v", err)
	}
	if loader.articleCalls() != 1 {
		t.Fatalf("expected loader once, got %d", loader.articleCalls())
	}

	if _, err := repo.GetArticle(context.Background(), "sleep-cycles"); err != nil {
		t.Fatalf("get article 2: %v", err)
	}
	if loader.articleCalls() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.articleCalls())
	}
}

func TestArticleRepositoryExpires(t *testing.T) {
	loader := &countingLoader{ArticleLoader: NewStaticArticleLoader(sampleArticle())}
	repo := NewArticleRepository(loader, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetArticle(context.Background(), "sleep-cycles")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetArticle(context.Background(), "sleep-cycles")

	if loader.articleCalls() != 2 {
		t.Fatalf("expected reload after ttl, got %d calls", loader.articleCalls())
	}
}

func TestArticleRepositoryCatalogCachedAndCopied(t *testing.T) {
	loader := &countingLoader{ArticleLoader: NewStaticArticleLoader(sampleArticle())}
	repo := NewArticleRepository(loader, time.Minute)

	refs, err := repo.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	refs[0].Title = "mutated"

	again, _ := repo.Catalog(context.Background())
	if again[0].Title != "How Sleep Cycles Shape Your Day" {
		t.Fatalf("cached catalog was mutated: %+v", again[0])
	}
	if loader.catalogCalls() != 1 {
		t.Fatalf("expected catalog loaded once, got %d", loader.catalogCalls())
	}
}

func TestArticleRepositoryNotFoundNotCached(t *testing.T) {
	loader := &countingLoader{ArticleLoader: NewStaticArticleLoader()}
	repo := NewArticleRepository(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := repo.GetArticle(context.Background(), "missing"); !errors.Is(err, domain.ErrArticleNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if loader.articleCalls() != 2 {
		t.Fatalf("expected misses to reach loader, got %d", loader.articleCalls())
	}
}

type countingLoader struct {
	ArticleLoader
	mu       sync.Mutex
	articles int
	catalogs int
}

func (l *countingLoader) LoadArticle(ctx context.Context, slug string) (domain.Article, error) {
	l.mu.Lock()
	l.articles++
	l.mu.Unlock()
	return l.ArticleLoader.LoadArticle(ctx, slug)
}

func (l *countingLoader) Catalog(ctx context.Context) ([]domain.ArticleRef, error) {
	l.mu.Lock()
	l.catalogs++
	l.mu.Unlock()
	return l.ArticleLoader.Catalog(ctx)
}

func (l *countingLoader) articleCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.articles
}

func (l *countingLoader) catalogCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.catalogs
}

func sampleArticle() domain.Article {
	return domain.Article{
		Slug:     "sleep-cycles",
		Category: "health",
		Title:    "How Sleep Cycles Shape Your Day",
		Quiz: domain.Quiz{Questions: []domain.Question{
			{ID: "q1", Prompt: "Roughly how long is one sleep cycle?", Options: []string{"30 minutes", "90 minutes"}, CorrectIndex: 1},
		}},
	}
}
