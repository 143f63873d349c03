package cli

import (
	"context"
	"fmt"

	"blog-service/internal/config"
	"blog-service/internal/domain"
	"blog-service/internal/infra/postgres"
	infraredis "blog-service/internal/infra/redis"
	"blog-service/internal/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewSeedCmd upserts the article catalog into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var contentDir string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load article content into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			if contentDir != "" {
				cfg.Content.Dir = contentDir
			}
			return runSeed(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().StringVar(&contentDir, "content-dir", "", "directory of article YAML files (defaults to built-in content)")
	return cmd
}

func runSeed(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	catalog, err := loadCatalog(cfg.Content.Dir)
	if err != nil {
		return err
	}
	if err := runMigrations(ctx, cfg, log); err != nil {
		return err
	}

	articles := catalog.Articles()
	n, err := postgresSeeder(cfg.Postgres.URL)(ctx, articles)
	if err != nil {
		return err
	}
	log.Info("articles seeded", "count", n)

	if cfg.Redis.Addr != "" {
		client := newRedisClient(cfg)
		defer client.Close()
		if err := refreshCache(ctx, client, articles); err != nil {
			return err
		}
		log.Info("article cache invalidated", "addr", cfg.Redis.Addr)
	}
	return nil
}

type seedFunc func(ctx context.Context, articles []domain.Article) (int, error)

type catalogReader interface {
	Catalog(ctx context.Context) ([]domain.ArticleRef, error)
}

func postgresSeeder(dsn string) seedFunc {
	return func(ctx context.Context, articles []domain.Article) (int, error) {
		db := postgres.OpenBun(dsn)
		defer db.Close()
		return postgres.NewSeeder(db).Seed(ctx, articles)
	}
}

// seedEmptyCatalog seeds the catalog from dir when src has no articles yet.
// It returns the seeded articles, or nil when src was already populated.
func seedEmptyCatalog(ctx context.Context, src catalogReader, dir string, seed seedFunc, log *logger.Logger) ([]domain.Article, error) {
	refs, err := src.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if len(refs) > 0 {
		return nil, nil
	}

	catalog, err := loadCatalog(dir)
	if err != nil {
		return nil, err
	}
	articles := catalog.Articles()
	n, err := seed(ctx, articles)
	if err != nil {
		return nil, err
	}
	log.Warn("articles table was empty, seeded content catalog", "count", n, "dir", dir)
	return articles, nil
}

// refreshCache drops cached copies of the given articles and the catalog listing.
func refreshCache(ctx context.Context, client *redis.Client, articles []domain.Article) error {
	slugs := make([]string, 0, len(articles))
	for _, a := range articles {
		slugs = append(slugs, a.Slug)
	}
	return infraredis.NewArticleRepository(client, nil, 0).Invalidate(ctx, slugs...)
}
