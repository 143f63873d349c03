package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"blog-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ArticleLoader fetches article content from a backing store (YAML catalog, Postgres).
type ArticleLoader interface {
	LoadArticle(ctx context.Context, slug string) (domain.Article, error)
	Catalog(ctx context.Context) ([]domain.ArticleRef, error)
}

// ArticleRepository caches articles and the catalog with TTL to avoid repeated loader hits.
type ArticleRepository struct {
	loader ArticleLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu      sync.RWMutex
	cache   map[string]cachedArticle
	catalog cachedCatalog
}

type cachedArticle struct {
	article   domain.Article
	expiresAt time.Time
}

type cachedCatalog struct {
	refs      []domain.ArticleRef
	expiresAt time.Time
}

const catalogFlightKey = "\x00catalog"

func NewArticleRepository(loader ArticleLoader, ttl time.Duration) *ArticleRepository {
	return &ArticleRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedArticle),
	}
}

func (r *ArticleRepository) GetArticle(ctx context.Context, slug string) (domain.Article, error) {
	r.mu.RLock()
	if entry, ok := r.cache[slug]; ok && entry.expiresAt.After(r.clock()) {
		r.mu.RUnlock()
		return entry.article, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(slug, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[slug]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.article, nil
		}
		r.mu.RUnlock()

		article, err := r.loader.LoadArticle(ctx, slug)
		if err != nil {
			return domain.Article{}, err
		}

		r.mu.Lock()
		r.cache[slug] = cachedArticle{article: article, expiresAt: now.Add(r.ttlWithJitter())}
		r.mu.Unlock()
		return article, nil
	})
	if err != nil {
		return domain.Article{}, err
	}
	return result.(domain.Article), nil
}

func (r *ArticleRepository) Catalog(ctx context.Context) ([]domain.ArticleRef, error) {
	r.mu.RLock()
	if r.catalog.refs != nil && r.catalog.expiresAt.After(r.clock()) {
		refs := r.catalog.refs
		r.mu.RUnlock()
		return copyRefs(refs), nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(catalogFlightKey, func() (interface{}, error) {
		refs, err := r.loader.Catalog(ctx)
		if err != nil {
			return nil, err
		}
		if refs == nil {
			refs = []domain.ArticleRef{}
		}
		r.mu.Lock()
		r.catalog = cachedCatalog{refs: refs, expiresAt: r.clock().Add(r.ttlWithJitter())}
		r.mu.Unlock()
		return refs, nil
	})
	if err != nil {
		return nil, err
	}
	return copyRefs(result.([]domain.ArticleRef)), nil
}

func copyRefs(refs []domain.ArticleRef) []domain.ArticleRef {
	out := make([]domain.ArticleRef, len(refs))
	copy(out, refs)
	return out
}

func (r *ArticleRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticArticleLoader is a simple loader backed by an in-memory slice (useful for tests/demos).
// Catalog order follows the slice order.
type StaticArticleLoader struct {
	articles []domain.Article
}

func NewStaticArticleLoader(articles ...domain.Article) *StaticArticleLoader {
	return &StaticArticleLoader{articles: articles}
}

func (l *StaticArticleLoader) LoadArticle(_ context.Context, slug string) (domain.Article, error) {
	for _, a := range l.articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return domain.Article{}, domain.ErrArticleNotFound
}

func (l *StaticArticleLoader) Catalog(_ context.Context) ([]domain.ArticleRef, error) {
	refs := make([]domain.ArticleRef, 0, len(l.articles))
	for _, a := range l.articles {
		refs = append(refs, a.Ref())
	}
	return refs, nil
}
