package app

import (
	"context"
	"errors"
	"strings"

	"blog-service/internal/domain"
)

// ArticleRepository loads article content (from cache/backing store).
type ArticleRepository interface {
	GetArticle(ctx context.Context, slug string) (domain.Article, error)
	Catalog(ctx context.Context) ([]domain.ArticleRef, error)
}

// BookmarkRepository persists the per-article bookmark flag (memory, SQLite, Redis, Postgres).
type BookmarkRepository interface {
	Get(ctx context.Context, slug string) (bool, error)
	Set(ctx context.Context, slug string, bookmarked bool) error
	List(ctx context.Context) ([]string, error)
}

// ArticleService serves article pages and their bookmark toggle.
type ArticleService struct {
	articles  ArticleRepository
	bookmarks BookmarkRepository
}

func NewArticleService(articles ArticleRepository, bookmarks BookmarkRepository) *ArticleService {
	return &ArticleService{articles: articles, bookmarks: bookmarks}
}

// Catalog lists articles in reading order, optionally restricted to one category.
func (s *ArticleService) Catalog(ctx context.Context, category string) ([]domain.ArticleRef, error) {
	refs, err := s.articles.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return refs, nil
	}
	filtered := refs[:0:0]
	for _, ref := range refs {
		if strings.EqualFold(ref.Category, category) {
			filtered = append(filtered, ref)
		}
	}
	return filtered, nil
}

// Page assembles the article with prev/next links and its bookmark state.
func (s *ArticleService) Page(ctx context.Context, slug string) (domain.ArticlePage, error) {
	article, err := s.articles.GetArticle(ctx, slug)
	if err != nil {
		return domain.ArticlePage{}, err
	}
	refs, err := s.articles.Catalog(ctx)
	if err != nil {
		return domain.ArticlePage{}, err
	}
	bookmarked, err := s.bookmarks.Get(ctx, slug)
	if err != nil {
		return domain.ArticlePage{}, err
	}

	page := domain.NewArticlePage(article)
	page.Bookmarked = bookmarked
	for i, ref := range refs {
		if ref.Slug != slug {
			continue
		}
		if i > 0 {
			prev := refs[i-1]
			page.Prev = &prev
		}
		if i < len(refs)-1 {
			next := refs[i+1]
			page.Next = &next
		}
		break
	}
	return page, nil
}

// SetBookmark stores the bookmark flag for an existing article.
func (s *ArticleService) SetBookmark(ctx context.Context, slug string, bookmarked bool) error {
	if _, err := s.articles.GetArticle(ctx, slug); err != nil {
		return err
	}
	return s.bookmarks.Set(ctx, slug, bookmarked)
}

// ToggleBookmark flips the bookmark flag and returns the new value.
func (s *ArticleService) ToggleBookmark(ctx context.Context, slug string) (bool, error) {
	if _, err := s.articles.GetArticle(ctx, slug); err != nil {
		return false, err
	}
	current, err := s.bookmarks.Get(ctx, slug)
	if err != nil {
		return false, err
	}
	if err := s.bookmarks.Set(ctx, slug, !current); err != nil {
		return false, err
	}
	return !current, nil
}

// Bookmarked reports the bookmark flag for an existing article.
func (s *ArticleService) Bookmarked(ctx context.Context, slug string) (bool, error) {
	if _, err := s.articles.GetArticle(ctx, slug); err != nil {
		return false, err
	}
	return s.bookmarks.Get(ctx, slug)
}

// Bookmarks returns bookmarked articles in catalog order, skipping slugs that no longer exist.
func (s *ArticleService) Bookmarks(ctx context.Context) ([]domain.ArticleRef, error) {
	slugs, err := s.bookmarks.List(ctx)
	if err != nil {
		return nil, err
	}
	marked := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		marked[slug] = struct{}{}
	}
	refs, err := s.articles.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ArticleRef, 0, len(marked))
	for _, ref := range refs {
		if _, ok := marked[ref.Slug]; ok {
			out = append(out, ref)
		}
	}
	return out, nil
}

// IsNotFound reports whether err maps to a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrArticleNotFound) || errors.Is(err, domain.ErrMountNotFound)
}
