package content

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"blog-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLoads(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	refs, err := catalog.Catalog(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 6)
	assert.Equal(t, "sleep-cycles", refs[0].Slug)
	assert.Equal(t, "mindful-breathing", refs[len(refs)-1].Slug)

	categories := map[string]bool{}
	for _, a := range catalog.Articles() {
		categories[a.Category] = true
		assert.NoError(t, a.Validate())
		assert.NotEmpty(t, a.FAQ, a.Slug)
		assert.False(t, a.PublishedAt.IsZero(), a.Slug)
	}
	for _, c := range []string{"health", "science", "art", "literature", "finance", "wellness"} {
		assert.True(t, categories[c], "missing category %s", c)
	}
}

func TestLoadOrdersAndNormalizes(t *testing.T) {
	fsys := fstest.MapFS{
		"b.yaml": {Data: []byte(`
title: B
position: 1
quiz:
  questions:
    - prompt: p
      options: [x, y]
      correct: 1
`)},
		"a.yaml": {Data: []byte(`
title: A
position: 1
quiz:
  questions:
    - prompt: p
      options: [x, y]
    - prompt: q
      options: [x, y, z]
      correct: 2
`)},
		"notes.txt": {Data: []byte("ignored")},
	}

	catalog, err := Load(fsys)
	require.NoError(t, err)

	refs, _ := catalog.Catalog(context.Background())
	require.Len(t, refs, 2)
	assert.Equal(t, "a", refs[0].Slug)
	assert.Equal(t, "b", refs[1].Slug)

	article, err := catalog.LoadArticle(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "q1", article.Quiz.Questions[0].ID)
	assert.Equal(t, "q2", article.Quiz.Questions[1].ID)

	_, err = catalog.LoadArticle(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrArticleNotFound))
}

func TestLoadRejectsInvalidContent(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.yaml": {Data: []byte(`
title: Broken
quiz:
  questions:
    - prompt: p
      options: [only-one]
`)},
	}
	_, err := Load(fsys)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidQuiz)

	dup := fstest.MapFS{
		"one.yaml": {Data: []byte("slug: same\ntitle: One\nquiz:\n  questions:\n    - prompt: p\n      options: [x, y]\n")},
		"two.yaml": {Data: []byte("slug: same\ntitle: Two\nquiz:\n  questions:\n    - prompt: p\n      options: [x, y]\n")},
	}
	_, err = Load(dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate slug")
}
