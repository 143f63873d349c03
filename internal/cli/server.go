package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-service/internal/app"
	"blog-service/internal/config"
	"blog-service/internal/content"
	"blog-service/internal/infra/memory"
	"blog-service/internal/infra/postgres"
	infraredis "blog-service/internal/infra/redis"
	"blog-service/internal/infra/sqlite"
	"blog-service/internal/logger"
	transport "blog-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	var contentDir string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the blog server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			if contentDir != "" {
				cfg.Content.Dir = contentDir
			}
			return runServer(cmd.Context(), cfg, *port, log)
		},
	}
	cmd.Flags().StringVar(&contentDir, "content-dir", "", "directory of article YAML files (defaults to built-in content)")
	return cmd
}

func runServer(ctx context.Context, cfg config.Config, portFlag string, log *logger.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	conns, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer conns.Close()

	var loader memory.ArticleLoader
	if conns.pool != nil {
		pgLoader := postgres.NewArticleLoader(conns.pool)
		if !cfg.Content.NoSeed {
			seeded, err := seedEmptyCatalog(ctx, pgLoader, cfg.Content.Dir, postgresSeeder(cfg.Postgres.URL), log)
			if err != nil {
				return err
			}
			if seeded != nil && conns.redis != nil {
				if err := refreshCache(ctx, conns.redis, seeded); err != nil {
					return err
				}
			}
		}
		loader = pgLoader
	} else {
		catalog, err := loadCatalog(cfg.Content.Dir)
		if err != nil {
			return err
		}
		loader = catalog
	}

	contentTTL := cfg.Content.TTL
	var articles app.ArticleRepository
	if conns.redis != nil {
		articles = infraredis.NewArticleRepository(conns.redis, loader, contentTTL)
	} else {
		articles = memory.NewArticleRepository(loader, contentTTL)
	}

	mountTTL := cfg.Quiz.MountTTL
	var mounts app.MountRepository
	if conns.redis != nil {
		mounts = infraredis.NewMountStore(conns.redis, mountTTL)
	} else {
		mounts = memory.NewMountStore(mountTTL)
	}

	bookmarks, backend, err := openBookmarks(ctx, cfg, conns)
	if err != nil {
		return err
	}
	log.Info("stores ready", "bookmarks", backend, "redis", conns.redis != nil, "postgres", conns.pool != nil)

	articleService := app.NewArticleService(articles, bookmarks)
	quizService := app.NewQuizService(articles, mounts)
	router, err := transport.NewRouter(articleService, quizService, log)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting blog service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func loadCatalog(dir string) (*content.Catalog, error) {
	if dir == "" {
		return content.Default()
	}
	return content.Load(os.DirFS(dir))
}

type stores struct {
	redis  *redis.Client
	pool   *pgxpool.Pool
	closer []func()
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	s := &stores{}
	if cfg.Redis.Addr != "" {
		s.redis = newRedisClient(cfg)
		s.closer = append(s.closer, func() { _ = s.redis.Close() })
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.pool = pool
		s.closer = append(s.closer, pool.Close)
	}
	return s, nil
}

func (s *stores) Close() {
	for i := len(s.closer) - 1; i >= 0; i-- {
		s.closer[i]()
	}
}

// openBookmarks picks the configured bookmark backend, or the most durable available one.
func openBookmarks(ctx context.Context, cfg config.Config, s *stores) (app.BookmarkRepository, string, error) {
	backend := cfg.Bookmarks.Backend
	if backend == "" {
		backend = defaultBookmarkBackend(cfg)
	}
	ns := cfg.Bookmarks.Namespace

	switch backend {
	case "memory":
		return memory.NewBookmarkStore(), backend, nil
	case "redis":
		if s.redis == nil {
			return nil, "", errors.New("bookmarks: redis backend selected but redis.addr is empty")
		}
		return infraredis.NewBookmarkStore(s.redis, ns), backend, nil
	case "postgres":
		if s.pool == nil {
			return nil, "", errors.New("bookmarks: postgres backend selected but postgres.url is empty")
		}
		return postgres.NewBookmarkStore(s.pool, ns), backend, nil
	case "sqlite":
		if cfg.SQLite.Path == "" {
			return nil, "", errors.New("bookmarks: sqlite backend selected but sqlite.path is empty")
		}
		store, err := sqlite.NewBookmarkStore(ctx, cfg.SQLite.Path, ns)
		if err != nil {
			return nil, "", err
		}
		s.closer = append(s.closer, func() { _ = store.Stop() })
		return store, backend, nil
	default:
		return nil, "", errors.New("bookmarks: unknown backend " + backend)
	}
}

func defaultBookmarkBackend(cfg config.Config) string {
	switch {
	case cfg.Postgres.URL != "":
		return "postgres"
	case cfg.SQLite.Path != "":
		return "sqlite"
	case cfg.Redis.Addr != "":
		return "redis"
	default:
		return "memory"
	}
}
