package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"blog-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ArticleLoader loads article JSONB from Postgres.
type ArticleLoader struct {
	pool *pgxpool.Pool
}

func NewArticleLoader(pool *pgxpool.Pool) *ArticleLoader {
	return &ArticleLoader{pool: pool}
}

func (l *ArticleLoader) LoadArticle(ctx context.Context, slug string) (domain.Article, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM articles WHERE slug=$1`, slug).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Article{}, domain.ErrArticleNotFound
		}
		return domain.Article{}, fmt.Errorf("load article: %w", err)
	}
	var article domain.Article
	if err := json.Unmarshal(raw, &article); err != nil {
		return domain.Article{}, fmt.Errorf("unmarshal article: %w", err)
	}
	article.Quiz.Normalize()
	return article, nil
}

func (l *ArticleLoader) Catalog(ctx context.Context) ([]domain.ArticleRef, error) {
	rows, err := l.pool.Query(ctx, `SELECT slug, title, category FROM articles ORDER BY position, slug`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	refs := []domain.ArticleRef{}
	for rows.Next() {
		var ref domain.ArticleRef
		if err := rows.Scan(&ref.Slug, &ref.Title, &ref.Category); err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return refs, nil
}
