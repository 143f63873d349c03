package memory

import (
	"context"
	"sync"
	"time"

	"blog-service/internal/domain"
)

// MountStore is an in-memory implementation of app.MountRepository.
// Mounts that are never unmounted expire after ttl.
type MountStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu     sync.Mutex
	mounts map[string]storedMount
}

type storedMount struct {
	mount     domain.QuizMount
	expiresAt time.Time
}

func NewMountStore(ttl time.Duration) *MountStore {
	return &MountStore{
		ttl:    ttl,
		clock:  time.Now,
		mounts: make(map[string]storedMount),
	}
}

func (s *MountStore) Save(_ context.Context, mount domain.QuizMount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.pruneLocked(now)
	s.mounts[mount.ID] = storedMount{mount: cloneMount(mount), expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *MountStore) Get(_ context.Context, id string) (domain.QuizMount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.mounts[id]
	if !ok {
		return domain.QuizMount{}, domain.ErrMountNotFound
	}
	if s.ttl > 0 && !stored.expiresAt.After(s.clock()) {
		delete(s.mounts, id)
		return domain.QuizMount{}, domain.ErrMountNotFound
	}
	return cloneMount(stored.mount), nil
}

func (s *MountStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mounts, id)
	return nil
}

// Len reports the number of live mounts.
func (s *MountStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(s.clock())
	return len(s.mounts)
}

func (s *MountStore) pruneLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, stored := range s.mounts {
		if !stored.expiresAt.After(now) {
			delete(s.mounts, id)
		}
	}
}

func cloneMount(m domain.QuizMount) domain.QuizMount {
	answers := make(map[string]int, len(m.Answers))
	for k, v := range m.Answers {
		answers[k] = v
	}
	m.Answers = answers
	return m
}
