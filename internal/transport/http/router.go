package http

import (
	"net/http"

	"blog-service/internal/app"
	"blog-service/internal/logger"
	"github.com/gorilla/mux"
)

// NewRouter wires every HTTP surface of the blog: JSON API, websocket widget and HTML pages.
func NewRouter(articles *app.ArticleService, quizzes *app.QuizService, log *logger.Logger) (*mux.Router, error) {
	pages, err := NewPageHandler(articles, quizzes, log)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.Use(RequestLogger(log))
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/ws", NewWSHandler(quizzes, log).ServeWS)

	NewAPIHandler(articles, quizzes, log).Register(r)
	pages.Register(r)
	return r, nil
}
