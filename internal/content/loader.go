// Package content loads the article catalog from YAML files.
package content

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"blog-service/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed articles/*.yaml
var defaultFS embed.FS

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(defaultFS, "articles")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Catalog is an immutable, ordered set of articles.
type Catalog struct {
	articles map[string]domain.Article
	order    []domain.ArticleRef
}

// Load parses every *.yaml file at the root of fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	const op = "content.Load"

	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	list := make([]domain.Article, 0, len(names))
	byslug := make(map[string]domain.Article, len(names))
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		var article domain.Article
		if err := yaml.Unmarshal(raw, &article); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
		if article.Slug == "" {
			article.Slug = slugFromFile(name)
		}
		article.Quiz.Normalize()
		if err := article.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
		if _, dup := byslug[article.Slug]; dup {
			return nil, fmt.Errorf("%s: duplicate slug %q", op, article.Slug)
		}
		byslug[article.Slug] = article
		list = append(list, article)
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Position != list[j].Position {
			return list[i].Position < list[j].Position
		}
		return list[i].Slug < list[j].Slug
	})
	order := make([]domain.ArticleRef, 0, len(list))
	for _, a := range list {
		order = append(order, a.Ref())
	}
	return &Catalog{articles: byslug, order: order}, nil
}

func (c *Catalog) LoadArticle(_ context.Context, slug string) (domain.Article, error) {
	if article, ok := c.articles[slug]; ok {
		return article, nil
	}
	return domain.Article{}, domain.ErrArticleNotFound
}

func (c *Catalog) Catalog(_ context.Context) ([]domain.ArticleRef, error) {
	out := make([]domain.ArticleRef, len(c.order))
	copy(out, c.order)
	return out, nil
}

// Articles returns full articles in catalog order.
func (c *Catalog) Articles() []domain.Article {
	out := make([]domain.Article, 0, len(c.order))
	for _, ref := range c.order {
		out = append(out, c.articles[ref.Slug])
	}
	return out
}

func slugFromFile(name string) string {
	base := path.Base(name)
	return base[:len(base)-len(path.Ext(base))]
}
