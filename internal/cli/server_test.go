package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"blog-service/internal/config"
	"blog-service/internal/domain"
	"blog-service/internal/infra/memory"
	"blog-service/internal/infra/sqlite"
	"blog-service/internal/logger"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBookmarkBackend(t *testing.T) {
	var cfg config.Config
	assert.Equal(t, "memory", defaultBookmarkBackend(cfg))

	cfg.Redis.Addr = "localhost:6379"
	assert.Equal(t, "redis", defaultBookmarkBackend(cfg))

	cfg.SQLite.Path = "data/blog.db"
	assert.Equal(t, "sqlite", defaultBookmarkBackend(cfg))

	cfg.Postgres.URL = "postgres://localhost/blog"
	assert.Equal(t, "postgres", defaultBookmarkBackend(cfg))
}

func TestOpenBookmarks(t *testing.T) {
	ctx := context.Background()

	t.Run("memory by default", func(t *testing.T) {
		s := &stores{}
		repo, backend, err := openBookmarks(ctx, config.Config{}, s)
		require.NoError(t, err)
		assert.Equal(t, "memory", backend)
		assert.IsType(t, &memory.BookmarkStore{}, repo)
	})

	t.Run("sqlite file", func(t *testing.T) {
		var cfg config.Config
		cfg.SQLite.Path = filepath.Join(t.TempDir(), "blog.db")
		cfg.Bookmarks.Namespace = "default"
		s := &stores{}
		defer s.Close()

		repo, backend, err := openBookmarks(ctx, cfg, s)
		require.NoError(t, err)
		assert.Equal(t, "sqlite", backend)
		assert.IsType(t, &sqlite.BookmarkStore{}, repo)

		require.NoError(t, repo.Set(ctx, "black-holes", true))
		on, err := repo.Get(ctx, "black-holes")
		require.NoError(t, err)
		assert.True(t, on)
	})

	t.Run("redis without addr", func(t *testing.T) {
		var cfg config.Config
		cfg.Bookmarks.Backend = "redis"
		_, _, err := openBookmarks(ctx, cfg, &stores{})
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		var cfg config.Config
		cfg.Bookmarks.Backend = "etcd"
		_, _, err := openBookmarks(ctx, cfg, &stores{})
		assert.ErrorContains(t, err, "unknown backend")
	})
}

func TestLoadCatalogDefaultsToEmbeddedContent(t *testing.T) {
	catalog, err := loadCatalog("")
	require.NoError(t, err)
	refs, err := catalog.Catalog(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, refs)
	assert.Equal(t, "sleep-cycles", refs[0].Slug)
}

func TestRunDBCheckRequiresAStore(t *testing.T) {
	err := runDBCheck(context.Background(), config.Config{}, nil)
	assert.EqualError(t, err, "no database configured")
}

func TestShippedConfigOpensBookmarksInFreshCheckout(t *testing.T) {
	shipped, err := filepath.Abs(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	cfg, err := config.Load(shipped)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	s := &stores{}
	defer s.Close()
	repo, backend, err := openBookmarks(context.Background(), cfg, s)
	require.NoError(t, err)
	assert.Equal(t, defaultBookmarkBackend(cfg), backend)
	require.NoError(t, repo.Set(context.Background(), "sleep-cycles", true))

	if backend == "sqlite" {
		_, err := os.Stat(cfg.SQLite.Path)
		assert.NoError(t, err)
	}
}

type recordingSeed struct {
	articles []domain.Article
}

func (r *recordingSeed) seed(_ context.Context, articles []domain.Article) (int, error) {
	r.articles = append(r.articles, articles...)
	return len(articles), nil
}

func TestSeedEmptyCatalogLoadsBuiltInContent(t *testing.T) {
	rec := &recordingSeed{}
	seeded, err := seedEmptyCatalog(context.Background(), memory.NewStaticArticleLoader(), "", rec.seed, logger.Nop())
	require.NoError(t, err)

	builtIn, err := loadCatalog("")
	require.NoError(t, err)
	assert.Len(t, seeded, len(builtIn.Articles()))
	assert.Equal(t, seeded, rec.articles)
}

func TestSeedEmptyCatalogLeavesPopulatedStoreAlone(t *testing.T) {
	rec := &recordingSeed{}
	src := memory.NewStaticArticleLoader(domain.Article{Slug: "black-holes", Title: "Black holes"})

	seeded, err := seedEmptyCatalog(context.Background(), src, "", rec.seed, logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, seeded)
	assert.Empty(t, rec.articles)
}

func TestRefreshCacheDropsSeededKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, mr.Set("blog:catalog", "[]"))
	require.NoError(t, mr.Set("blog:article:sleep-cycles", "{}"))
	require.NoError(t, mr.Set("blog:article:untouched", "{}"))

	err := refreshCache(context.Background(), client, []domain.Article{{Slug: "sleep-cycles"}})
	require.NoError(t, err)

	assert.False(t, mr.Exists("blog:catalog"))
	assert.False(t, mr.Exists("blog:article:sleep-cycles"))
	assert.True(t, mr.Exists("blog:article:untouched"))
}

func TestRootCommandFlags(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	cmd := newRootCmd()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"start", "migrate", "seed", "dbcheck"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
	assert.Equal(t, defaultConfigPath, cmd.PersistentFlags().Lookup("config").DefValue)

	t.Setenv("CONFIG_PATH", "/etc/blog.yaml")
	assert.Equal(t, "/etc/blog.yaml", newRootCmd().PersistentFlags().Lookup("config").DefValue)
}
