package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BookmarkStore persists bookmark flags in the bookmarks table, scoped by namespace.
type BookmarkStore struct {
	pool      *pgxpool.Pool
	namespace string
}

func NewBookmarkStore(pool *pgxpool.Pool, namespace string) *BookmarkStore {
	return &BookmarkStore{pool: pool, namespace: namespace}
}

func (s *BookmarkStore) Get(ctx context.Context, slug string) (bool, error) {
	const op = "postgres.BookmarkStore.Get"

	var bookmarked bool
	err := s.pool.QueryRow(ctx,
		`SELECT bookmarked FROM bookmarks WHERE namespace=$1 AND slug=$2`,
		s.namespace, slug,
	).Scan(&bookmarked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return bookmarked, nil
}

func (s *BookmarkStore) Set(ctx context.Context, slug string, bookmarked bool) error {
	const op = "postgres.BookmarkStore.Set"

	_, err := s.pool.Exec(ctx, `
		INSERT INTO bookmarks (namespace, slug, bookmarked, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, slug)
		DO UPDATE SET bookmarked=EXCLUDED.bookmarked, updated_at=EXCLUDED.updated_at`,
		s.namespace, slug, bookmarked,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *BookmarkStore) List(ctx context.Context) ([]string, error) {
	const op = "postgres.BookmarkStore.List"

	rows, err := s.pool.Query(ctx,
		`SELECT slug FROM bookmarks WHERE namespace=$1 AND bookmarked ORDER BY slug`,
		s.namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		slugs = append(slugs, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return slugs, nil
}
