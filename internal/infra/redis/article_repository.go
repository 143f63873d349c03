package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"blog-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ArticleLoader fetches article content from a backing store (YAML catalog, Postgres).
type ArticleLoader interface {
	LoadArticle(ctx context.Context, slug string) (domain.Article, error)
	Catalog(ctx context.Context) ([]domain.ArticleRef, error)
}

// ArticleRepository caches articles in Redis and falls back to a loader on cache miss.
// Articles are stored as JSON strings: SET blog:article:{slug} {json}
// The catalog is stored as:              SET blog:catalog {json}
type ArticleRepository struct {
	client *redis.Client
	loader ArticleLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

const catalogKey = "blog:catalog"

func NewArticleRepository(client *redis.Client, loader ArticleLoader, ttl time.Duration) *ArticleRepository {
	return &ArticleRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *ArticleRepository) GetArticle(ctx context.Context, slug string) (domain.Article, error) {
	key := articleKey(slug)
	var article domain.Article
	if ok := r.readCached(ctx, key, &article); ok {
		return article, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		var cached domain.Article
		if ok := r.readCached(ctx, key, &cached); ok {
			return cached, nil
		}
		loaded, err := r.loader.LoadArticle(ctx, slug)
		if err != nil {
			return domain.Article{}, err
		}
		r.writeCached(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return domain.Article{}, err
	}
	return result.(domain.Article), nil
}

func (r *ArticleRepository) Catalog(ctx context.Context) ([]domain.ArticleRef, error) {
	var refs []domain.ArticleRef
	if ok := r.readCached(ctx, catalogKey, &refs); ok {
		return refs, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		loaded, err := r.loader.Catalog(ctx)
		if err != nil {
			return nil, err
		}
		r.writeCached(ctx, catalogKey, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	out := result.([]domain.ArticleRef)
	return append([]domain.ArticleRef(nil), out...), nil
}

// Invalidate drops cached content so the next read goes to the loader.
func (r *ArticleRepository) Invalidate(ctx context.Context, slugs ...string) error {
	keys := []string{catalogKey}
	for _, slug := range slugs {
		keys = append(keys, articleKey(slug))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate articles: %w", err)
	}
	return nil
}

func (r *ArticleRepository) readCached(ctx context.Context, key string, dst interface{}) bool {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and transport errors both fall through to the loader.
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (r *ArticleRepository) writeCached(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	// best-effort; a failed write only costs another loader hit
	_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
}

func articleKey(slug string) string {
	return "blog:article:" + slug
}

func (r *ArticleRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
