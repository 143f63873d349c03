package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// BookmarkStore persists bookmark flags in a file-based SQLite database.
type BookmarkStore struct {
	db        *sql.DB
	namespace string
}

const bookmarksSchema = `
CREATE TABLE IF NOT EXISTS bookmarks (
	namespace  TEXT NOT NULL,
	slug       TEXT NOT NULL,
	bookmarked INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (namespace, slug)
)`

// NewBookmarkStore opens (or creates) the database at storagePath, including its parent
// directory, and ensures the schema.
func NewBookmarkStore(ctx context.Context, storagePath, namespace string) (*BookmarkStore, error) {
	const op = "storage.sqlite.NewBookmarkStore"

	if dir := filepath.Dir(storagePath); dir != "." && storagePath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := db.ExecContext(ctx, bookmarksSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &BookmarkStore{db: db, namespace: namespace}, nil
}

func (s *BookmarkStore) Stop() error {
	return s.db.Close()
}

func (s *BookmarkStore) Get(ctx context.Context, slug string) (bool, error) {
	const op = "storage.sqlite.Get"

	var bookmarked int
	err := s.db.QueryRowContext(ctx,
		"SELECT bookmarked FROM bookmarks WHERE namespace = ? AND slug = ?",
		s.namespace, slug,
	).Scan(&bookmarked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return bookmarked == 1, nil
}

func (s *BookmarkStore) Set(ctx context.Context, slug string, bookmarked bool) error {
	const op = "storage.sqlite.Set"

	value := 0
	if bookmarked {
		value = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks(namespace, slug, bookmarked, updated_at) VALUES(?, ?, ?, ?)
		ON CONFLICT(namespace, slug) DO UPDATE SET bookmarked = excluded.bookmarked, updated_at = excluded.updated_at`,
		s.namespace, slug, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *BookmarkStore) List(ctx context.Context) ([]string, error) {
	const op = "storage.sqlite.List"

	rows, err := s.db.QueryContext(ctx,
		"SELECT slug FROM bookmarks WHERE namespace = ? AND bookmarked = 1 ORDER BY slug",
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
		return slugs, fmt.Errorf("%s: %w", op, err)
	}
	return slugs, nil
}
