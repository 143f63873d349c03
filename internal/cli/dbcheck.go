package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog-service/internal/config"
	"blog-service/internal/infra/sqlite"
	"blog-service/internal/logger"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewDBCheckCmd runs connectivity smoke tests against every configured store.
func NewDBCheckCmd(configPath *string) *cobra.Command {
	var sqlitePath string
	cmd := &cobra.Command{
		Use:   "dbcheck",
		Short: "Check connectivity to the configured databases",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			if sqlitePath != "" {
				cfg.SQLite.Path = sqlitePath
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			return runDBCheck(ctx, cfg, log)
		},
	}
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite file to check (overrides config)")
	return cmd
}

func runDBCheck(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	checked := 0
	var errs []error

	if cfg.SQLite.Path != "" {
		checked++
		res, err := sqlite.CheckConnectivity(ctx, cfg.SQLite.Path)
		if err != nil {
			errs = append(errs, err)
		} else {
			log.Info("sqlite reachable", "path", res.Path, "sqlite_version", res.DriverVersion, "checks", res.Checks)
		}
	}

	if cfg.Postgres.URL != "" {
		checked++
		if err := pingPostgres(ctx, cfg.Postgres.URL); err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		} else {
			log.Info("postgres reachable")
		}
	}

	if cfg.Redis.Addr != "" {
		checked++
		client := newRedisClient(cfg)
		err := client.Ping(ctx).Err()
		_ = client.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		} else {
			log.Info("redis reachable", "addr", cfg.Redis.Addr)
		}
	}

	if checked == 0 {
		return errors.New("no database configured")
	}
	return errors.Join(errs...)
}

func pingPostgres(ctx context.Context, url string) error {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer pool.Close()
	return pool.Ping(ctx)
}

func newRedisClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
