package app

import (
	"context"
	"sync"
	"time"

	"blog-service/internal/domain"
	"blog-service/internal/quiz"
	"github.com/google/uuid"
)

// MountRepository abstracts where ephemeral widget state lives (in-memory, Redis).
type MountRepository interface {
	Save(ctx context.Context, mount domain.QuizMount) error
	Get(ctx context.Context, id string) (domain.QuizMount, error)
	Delete(ctx context.Context, id string) error
}

// QuizService runs one quiz widget per mounted article page.
type QuizService struct {
	articles ArticleRepository
	mounts   MountRepository
	now      func() time.Time
	newID    func() string
	locks    mountLocks
}

func NewQuizService(articles ArticleRepository, mounts MountRepository) *QuizService {
	return &QuizService{
		articles: articles,
		mounts:   mounts,
		now:      time.Now,
		newID:    uuid.NewString,
		locks:    mountLocks{held: make(map[string]*mountLock)},
	}
}

// Mount creates a fresh Idle widget for the article.
func (s *QuizService) Mount(ctx context.Context, slug string) (domain.QuizView, error) {
	article, err := s.articles.GetArticle(ctx, slug)
	if err != nil {
		return domain.QuizView{}, err
	}
	mount := domain.QuizMount{
		ID:          s.newID(),
		ArticleSlug: article.Slug,
		Answers:     map[string]int{},
		CreatedAt:   s.now(),
	}
	if err := s.mounts.Save(ctx, mount); err != nil {
		return domain.QuizView{}, err
	}
	return quiz.New(article.Quiz).View(mount.ID, mount.ArticleSlug), nil
}

// Select records an answer; the last selection per question wins.
func (s *QuizService) Select(ctx context.Context, mountID, questionID string, option int) (domain.QuizView, error) {
	return s.update(ctx, mountID, func(w *quiz.Widget) error {
		return w.SelectOption(questionID, option)
	})
}

// Submit reveals the results. Submitting a revealed widget returns the same view.
func (s *QuizService) Submit(ctx context.Context, mountID string) (domain.QuizView, error) {
	return s.update(ctx, mountID, func(w *quiz.Widget) error {
		w.Submit()
		return nil
	})
}

// View returns the current state without changing it.
func (s *QuizService) View(ctx context.Context, mountID string) (domain.QuizView, error) {
	mount, err := s.mounts.Get(ctx, mountID)
	if err != nil {
		return domain.QuizView{}, err
	}
	article, err := s.articles.GetArticle(ctx, mount.ArticleSlug)
	if err != nil {
		return domain.QuizView{}, err
	}
	return quiz.Restore(article.Quiz, mount.Answers, mount.Revealed).View(mount.ID, mount.ArticleSlug), nil
}

// Unmount discards the widget, as when the reader navigates away.
func (s *QuizService) Unmount(ctx context.Context, mountID string) error {
	unlock := s.locks.lock(mountID)
	defer unlock()
	return s.mounts.Delete(ctx, mountID)
}

// Evaluate scores a one-shot submission (e.g. an HTML form post) without storing anything.
func (s *QuizService) Evaluate(ctx context.Context, slug string, answers map[string]int) (domain.QuizView, error) {
	article, err := s.articles.GetArticle(ctx, slug)
	if err != nil {
		return domain.QuizView{}, err
	}
	w := quiz.New(article.Quiz)
	for questionID, option := range answers {
		if err := w.SelectOption(questionID, option); err != nil {
			return domain.QuizView{}, err
		}
	}
	w.Submit()
	return w.View("", article.Slug), nil
}

func (s *QuizService) update(ctx context.Context, mountID string, apply func(*quiz.Widget) error) (domain.QuizView, error) {
	unlock := s.locks.lock(mountID)
	defer unlock()

	mount, err := s.mounts.Get(ctx, mountID)
	if err != nil {
		return domain.QuizView{}, err
	}
	article, err := s.articles.GetArticle(ctx, mount.ArticleSlug)
	if err != nil {
		return domain.QuizView{}, err
	}

	w := quiz.Restore(article.Quiz, mount.Answers, mount.Revealed)
	if err := apply(w); err != nil {
		return domain.QuizView{}, err
	}
	mount.Answers = w.Answers()
	mount.Revealed = w.State() == quiz.Revealed
	if err := s.mounts.Save(ctx, mount); err != nil {
		return domain.QuizView{}, err
	}
	return w.View(mount.ID, mount.ArticleSlug), nil
}

// mountLocks serializes read-modify-write cycles per mount within this process.
type mountLocks struct {
	mu   sync.Mutex
	held map[string]*mountLock
}

type mountLock struct {
	sync.Mutex
	refs int
}

func (l *mountLocks) lock(id string) func() {
	l.mu.Lock()
	ml, ok := l.held[id]
	if !ok {
		ml = &mountLock{}
		l.held[id] = ml
	}
	ml.refs++
	l.mu.Unlock()

	ml.Lock()
	return func() {
		ml.Unlock()
		l.mu.Lock()
		ml.refs--
		if ml.refs == 0 {
			delete(l.held, id)
		}
		l.mu.Unlock()
	}
}
