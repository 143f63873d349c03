package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarkStoreNamespaces(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := newClient(mr)
	reader := NewBookmarkStore(client, "reader")
	other := NewBookmarkStore(client, "other")
	ctx := context.Background()

	require.NoError(t, reader.Set(ctx, "impressionism", true))
	require.NoError(t, reader.Set(ctx, "black-holes", true))
	require.NoError(t, reader.Set(ctx, "black-holes", false))

	ok, err := reader.Get(ctx, "impressionism")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = other.Get(ctx, "impressionism")
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := reader.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"impressionism"}, list)
	assert.True(t, mr.Exists("blog:bookmarks:reader"))
}
