package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"blog-service/internal/app"
	"blog-service/internal/domain"
	"blog-service/internal/infra/memory"
	"blog-service/internal/logger"
)

type testEnv struct {
	server *httptest.Server
	mounts *memory.MountStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	articles := memory.NewArticleRepository(memory.NewStaticArticleLoader(sampleArticles()...), time.Minute)
	mounts := memory.NewMountStore(time.Minute)
	articleService := app.NewArticleService(articles, memory.NewBookmarkStore())
	quizService := app.NewQuizService(articles, mounts)

	router, err := NewRouter(articleService, quizService, logger.Nop())
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testEnv{server: server, mounts: mounts}
}

func sampleArticles() []domain.Article {
	return []domain.Article{
		{
			Slug:     "sleep-cycles",
			Category: "health",
			Title:    "How Sleep Cycles Shape Your Day",
			Body:     []string{"A night of sleep is not one long stretch of rest."},
			FAQ:      []domain.FAQItem{{Question: "How many cycles?", Answer: "Four to six."}},
			Quiz: domain.Quiz{Questions: []domain.Question{
				{ID: "q1", Prompt: "Roughly how long is one sleep cycle?", Options: []string{"30 minutes", "90 minutes", "3 hours"}, CorrectIndex: 1},
				{ID: "q2", Prompt: "Which stage dominates early night?", Options: []string{"REM", "Light", "Deep", "Awake"}, CorrectIndex: 3},
			}},
		},
		{
			Slug:     "black-holes",
			Category: "science",
			Title:    "Black Holes in Plain Language",
			Body:     []string{"Nothing escapes the event horizon."},
			FAQ:      []domain.FAQItem{{Question: "Could one swallow Earth?", Answer: "No."}},
			Quiz: domain.Quiz{Questions: []domain.Question{
				{ID: "q1", Prompt: "Boundary name?", Options: []string{"Photon sphere", "Event horizon"}, CorrectIndex: 1},
			}},
		},
	}
}
