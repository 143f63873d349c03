package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"blog-service/internal/app"
	"blog-service/internal/domain"
	"blog-service/internal/logger"
	"github.com/gorilla/mux"
)

//go:embed templates/*.html
var templateFS embed.FS

const answerField = "answer-"

// PageHandler renders the server-side HTML pages.
type PageHandler struct {
	articles  *app.ArticleService
	quizzes   *app.QuizService
	log       *logger.Logger
	templates *template.Template
}

type categoryGroup struct {
	Name     string
	Articles []domain.ArticleRef
}

type indexData struct {
	Categories []categoryGroup
	Bookmarks  []domain.ArticleRef
}

type articleData struct {
	Page domain.ArticlePage
	Quiz *domain.QuizView
}

func NewPageHandler(articles *app.ArticleService, quizzes *app.QuizService, log *logger.Logger) (*PageHandler, error) {
	tpl, err := template.New("pages").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"selected": func(view *domain.QuizView, questionID string, option int) bool {
			if view == nil {
				return false
			}
			got, ok := view.Answers[questionID]
			return ok && got == option
		},
		"outcome": func(view *domain.QuizView, questionID string) *domain.QuestionResult {
			if view == nil || view.Result == nil {
				return nil
			}
			for i := range view.Result.Questions {
				if view.Result.Questions[i].QuestionID == questionID {
					return &view.Result.Questions[i]
				}
			}
			return nil
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &PageHandler{articles: articles, quizzes: quizzes, log: log, templates: tpl}, nil
}

func (h *PageHandler) Register(r *mux.Router) {
	r.HandleFunc("/", h.index).Methods(http.MethodGet)
	r.HandleFunc("/articles/{slug}", h.article).Methods(http.MethodGet)
	r.HandleFunc("/articles/{slug}/quiz", h.submitQuiz).Methods(http.MethodPost)
	r.HandleFunc("/articles/{slug}/bookmark", h.toggleBookmark).Methods(http.MethodPost)
}

func (h *PageHandler) index(w http.ResponseWriter, r *http.Request) {
	refs, err := h.articles.Catalog(r.Context(), "")
	if err != nil {
		h.fail(w, err)
		return
	}
	bookmarks, err := h.articles.Bookmarks(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}

	byCategory := map[string][]domain.ArticleRef{}
	var names []string
	for _, ref := range refs {
		if _, ok := byCategory[ref.Category]; !ok {
			names = append(names, ref.Category)
		}
		byCategory[ref.Category] = append(byCategory[ref.Category], ref)
	}
	sort.Strings(names)
	data := indexData{Bookmarks: bookmarks}
	for _, name := range names {
		data.Categories = append(data.Categories, categoryGroup{Name: name, Articles: byCategory[name]})
	}
	h.render(w, http.StatusOK, "index.html", data)
}

func (h *PageHandler) article(w http.ResponseWriter, r *http.Request) {
	page, err := h.articles.Page(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		h.fail(w, err)
		return
	}
	h.render(w, http.StatusOK, "article.html", articleData{Page: page})
}

func (h *PageHandler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	answers, err := parseAnswers(r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.quizzes.Evaluate(r.Context(), slug, answers)
	if err != nil {
		h.fail(w, err)
		return
	}
	page, err := h.articles.Page(r.Context(), slug)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.render(w, http.StatusOK, "article.html", articleData{Page: page, Quiz: &view})
}

func (h *PageHandler) toggleBookmark(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if _, err := h.articles.ToggleBookmark(r.Context(), slug); err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, "/articles/"+slug, http.StatusSeeOther)
}

func (h *PageHandler) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Error("render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *PageHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("page failed", "error", err)
	}
	http.Error(w, http.StatusText(status), status)
}

// parseAnswers reads radio inputs named answer-{questionID}.
func parseAnswers(form map[string][]string) (map[string]int, error) {
	answers := make(map[string]int)
	for key, values := range form {
		if !strings.HasPrefix(key, answerField) || len(values) == 0 {
			continue
		}
		option, err := strconv.Atoi(values[len(values)-1])
		if err != nil {
			return nil, errors.New("invalid option for " + strings.TrimPrefix(key, answerField))
		}
		answers[strings.TrimPrefix(key, answerField)] = option
	}
	return answers, nil
}
