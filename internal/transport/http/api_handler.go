package http

import (
	"encoding/json"
	"net/http"

	"blog-service/internal/app"
	"blog-service/internal/logger"
	"github.com/gorilla/mux"
)

// APIHandler exposes articles, bookmarks and quiz mounts as JSON.
type APIHandler struct {
	articles *app.ArticleService
	quizzes  *app.QuizService
	log      *logger.Logger
}

func NewAPIHandler(articles *app.ArticleService, quizzes *app.QuizService, log *logger.Logger) *APIHandler {
	return &APIHandler{articles: articles, quizzes: quizzes, log: log}
}

type bookmarkPayload struct {
	Slug       string `json:"slug"`
	Bookmarked bool   `json:"bookmarked"`
}

type selectPayload struct {
	QuestionID string `json:"questionId"`
	Option     *int   `json:"option"`
}

func (h *APIHandler) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/articles", h.listArticles).Methods(http.MethodGet)
	api.HandleFunc("/articles/{slug}", h.getArticle).Methods(http.MethodGet)
	api.HandleFunc("/articles/{slug}/bookmark", h.getBookmark).Methods(http.MethodGet)
	api.HandleFunc("/articles/{slug}/bookmark", h.putBookmark).Methods(http.MethodPut)
	api.HandleFunc("/articles/{slug}/bookmark/toggle", h.toggleBookmark).Methods(http.MethodPost)
	api.HandleFunc("/bookmarks", h.listBookmarks).Methods(http.MethodGet)
	api.HandleFunc("/articles/{slug}/quiz", h.mountQuiz).Methods(http.MethodPost)
	api.HandleFunc("/quiz/{mountId}", h.viewQuiz).Methods(http.MethodGet)
	api.HandleFunc("/quiz/{mountId}", h.unmountQuiz).Methods(http.MethodDelete)
	api.HandleFunc("/quiz/{mountId}/select", h.selectOption).Methods(http.MethodPost)
	api.HandleFunc("/quiz/{mountId}/submit", h.submitQuiz).Methods(http.MethodPost)
}

func (h *APIHandler) listArticles(w http.ResponseWriter, r *http.Request) {
	refs, err := h.articles.Catalog(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, refs)
}

func (h *APIHandler) getArticle(w http.ResponseWriter, r *http.Request) {
	page, err := h.articles.Page(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *APIHandler) getBookmark(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	bookmarked, err := h.articles.Bookmarked(r.Context(), slug)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmarkPayload{Slug: slug, Bookmarked: bookmarked})
}

func (h *APIHandler) putBookmark(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	var payload bookmarkPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid bookmark payload"})
		return
	}
	if err := h.articles.SetBookmark(r.Context(), slug, payload.Bookmarked); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmarkPayload{Slug: slug, Bookmarked: payload.Bookmarked})
}

func (h *APIHandler) toggleBookmark(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	bookmarked, err := h.articles.ToggleBookmark(r.Context(), slug)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmarkPayload{Slug: slug, Bookmarked: bookmarked})
}

func (h *APIHandler) listBookmarks(w http.ResponseWriter, r *http.Request) {
	refs, err := h.articles.Bookmarks(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, refs)
}

func (h *APIHandler) mountQuiz(w http.ResponseWriter, r *http.Request) {
	view, err := h.quizzes.Mount(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *APIHandler) viewQuiz(w http.ResponseWriter, r *http.Request) {
	view, err := h.quizzes.View(r.Context(), mux.Vars(r)["mountId"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *APIHandler) unmountQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.quizzes.Unmount(r.Context(), mux.Vars(r)["mountId"]); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) selectOption(w http.ResponseWriter, r *http.Request) {
	var payload selectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.QuestionID == "" || payload.Option == nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid select payload"})
		return
	}
	view, err := h.quizzes.Select(r.Context(), mux.Vars(r)["mountId"], payload.QuestionID, *payload.Option)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *APIHandler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	view, err := h.quizzes.Submit(r.Context(), mux.Vars(r)["mountId"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
