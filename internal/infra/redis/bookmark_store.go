package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// BookmarkStore keeps bookmarked slugs in one Redis set per namespace:
//
//	SADD blog:bookmarks:{namespace} {slug}
type BookmarkStore struct {
	client *redis.Client
	key    string
}

func NewBookmarkStore(client *redis.Client, namespace string) *BookmarkStore {
	return &BookmarkStore{client: client, key: "blog:bookmarks:" + namespace}
}

func (s *BookmarkStore) Get(ctx context.Context, slug string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.key, slug).Result()
	if err != nil {
		return false, fmt.Errorf("redis.BookmarkStore.Get: %w", err)
	}
	return ok, nil
}

func (s *BookmarkStore) Set(ctx context.Context, slug string, bookmarked bool) error {
	var err error
	if bookmarked {
		err = s.client.SAdd(ctx, s.key, slug).Err()
	} else {
		err = s.client.SRem(ctx, s.key, slug).Err()
	}
	if err != nil {
		return fmt.Errorf("redis.BookmarkStore.Set: %w", err)
	}
	return nil
}

func (s *BookmarkStore) List(ctx context.Context) ([]string, error) {
	slugs, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis.BookmarkStore.List: %w", err)
	}
	sort.Strings(slugs)
	return slugs, nil
}
