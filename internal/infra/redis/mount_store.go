package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"blog-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// MountStore keeps quiz widget state in Redis so any instance can serve the next request.
// Each mount is one hash that expires after ttl of inactivity:
//
//	HSET blog:mount:{id} article {slug} revealed 0|1 created {unix-nano} a:{questionID} {option}
type MountStore struct {
	client *redis.Client
	ttl    time.Duration
}

const answerPrefix = "a:"

func NewMountStore(client *redis.Client, ttl time.Duration) *MountStore {
	return &MountStore{client: client, ttl: ttl}
}

func (s *MountStore) Save(ctx context.Context, mount domain.QuizMount) error {
	const op = "redis.MountStore.Save"

	key := mountKey(mount.ID)
	fields := map[string]interface{}{
		"article":  mount.ArticleSlug,
		"revealed": boolToInt(mount.Revealed),
		"created":  mount.CreatedAt.UnixNano(),
	}
	for questionID, option := range mount.Answers {
		fields[answerPrefix+questionID] = option
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fields)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *MountStore) Get(ctx context.Context, id string) (domain.QuizMount, error) {
	const op = "redis.MountStore.Get"

	values, err := s.client.HGetAll(ctx, mountKey(id)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.QuizMount{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(values) == 0 {
		return domain.QuizMount{}, domain.ErrMountNotFound
	}

	mount := domain.QuizMount{
		ID:          id,
		ArticleSlug: values["article"],
		Revealed:    values["revealed"] == "1",
		Answers:     make(map[string]int),
	}
	if nanos, err := strconv.ParseInt(values["created"], 10, 64); err == nil {
		mount.CreatedAt = time.Unix(0, nanos).UTC()
	}
	for field, raw := range values {
		if !strings.HasPrefix(field, answerPrefix) {
			continue
		}
		option, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		mount.Answers[strings.TrimPrefix(field, answerPrefix)] = option
	}
	return mount, nil
}

func (s *MountStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, mountKey(id)).Err(); err != nil {
		return fmt.Errorf("redis.MountStore.Delete: %w", err)
	}
	return nil
}

func mountKey(id string) string {
	return "blog:mount:" + id
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
