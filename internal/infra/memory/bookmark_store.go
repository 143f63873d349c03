package memory

import (
	"context"
	"sort"
	"sync"
)

// BookmarkStore keeps bookmark flags for the lifetime of the process.
type BookmarkStore struct {
	mu    sync.RWMutex
	marks map[string]struct{}
}

func NewBookmarkStore() *BookmarkStore {
	return &BookmarkStore{marks: make(map[string]struct{})}
}

func (s *BookmarkStore) Get(_ context.Context, slug string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.marks[slug]
	return ok, nil
}

func (s *BookmarkStore) Set(_ context.Context, slug string, bookmarked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bookmarked {
		s.marks[slug] = struct{}{}
	} else {
		delete(s.marks, slug)
	}
	return nil
}

func (s *BookmarkStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.marks))
	for slug := range s.marks {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out, nil
}
