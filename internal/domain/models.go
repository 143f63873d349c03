package domain

import (
	"fmt"
	"strconv"
	"time"
)

const (
	MinOptions = 2
	MaxOptions = 4
)

// FAQItem is one entry of the collapsible FAQ list under an article.
type FAQItem struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID           string   `json:"id" yaml:"id"`
	Prompt       string   `json:"prompt" yaml:"prompt"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correctIndex" yaml:"correct"`
}

// Quiz is an ordered collection of questions.
type Quiz struct {
	Questions []Question `json:"questions" yaml:"questions"`
}

// Normalize assigns positional IDs (q1, q2, ...) to questions that have none.
func (q *Quiz) Normalize() {
	for i := range q.Questions {
		if q.Questions[i].ID == "" {
			q.Questions[i].ID = "q" + strconv.Itoa(i+1)
		}
	}
}

// Validate checks the quiz can be rendered and scored.
func (q Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidQuiz)
	}
	seen := make(map[string]struct{}, len(q.Questions))
	for i, question := range q.Questions {
		if question.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrInvalidQuiz, i+1)
		}
		if _, dup := seen[question.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidQuiz, question.ID)
		}
		seen[question.ID] = struct{}{}
		if n := len(question.Options); n < MinOptions || n > MaxOptions {
			return fmt.Errorf("%w: question %q has %d options, want %d-%d", ErrInvalidQuiz, question.ID, n, MinOptions, MaxOptions)
		}
		if question.CorrectIndex < 0 || question.CorrectIndex >= len(question.Options) {
			return fmt.Errorf("%w: question %q correct index %d out of range", ErrInvalidQuiz, question.ID, question.CorrectIndex)
		}
	}
	return nil
}

// Question returns the question with the given ID.
func (q Quiz) Question(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Article is a long-form blog post with its FAQ and quiz.
type Article struct {
	Slug        string    `json:"slug" yaml:"slug"`
	Position    int       `json:"position" yaml:"position"`
	Category    string    `json:"category" yaml:"category"`
	Title       string    `json:"title" yaml:"title"`
	Summary     string    `json:"summary" yaml:"summary"`
	Body        []string  `json:"body" yaml:"body"`
	FAQ         []FAQItem `json:"faq" yaml:"faq"`
	Quiz        Quiz      `json:"quiz" yaml:"quiz"`
	PublishedAt time.Time `json:"publishedAt" yaml:"published_at"`
}

// Validate checks required fields and the embedded quiz.
func (a Article) Validate() error {
	if a.Slug == "" {
		return fmt.Errorf("%w: missing slug", ErrInvalidArticle)
	}
	if a.Title == "" {
		return fmt.Errorf("%w: %s: missing title", ErrInvalidArticle, a.Slug)
	}
	if err := a.Quiz.Validate(); err != nil {
		return fmt.Errorf("%s: %w", a.Slug, err)
	}
	return nil
}

// Ref returns the catalog entry for the article.
func (a Article) Ref() ArticleRef {
	return ArticleRef{Slug: a.Slug, Title: a.Title, Category: a.Category}
}

// ArticleRef is a catalog entry used for listings and prev/next navigation.
type ArticleRef struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// QuestionView is a question as shown to readers, without the answer key.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// ArticlePage is everything a rendered article page needs.
type ArticlePage struct {
	Slug        string         `json:"slug"`
	Category    string         `json:"category"`
	Title       string         `json:"title"`
	Summary     string         `json:"summary"`
	Body        []string       `json:"body"`
	FAQ         []FAQItem      `json:"faq"`
	Quiz        []QuestionView `json:"quiz"`
	PublishedAt time.Time      `json:"publishedAt"`
	Prev        *ArticleRef    `json:"prev,omitempty"`
	Next        *ArticleRef    `json:"next,omitempty"`
	Bookmarked  bool           `json:"bookmarked"`
}

// NewArticlePage builds the reader-facing view of an article.
func NewArticlePage(a Article) ArticlePage {
	questions := make([]QuestionView, 0, len(a.Quiz.Questions))
	for _, q := range a.Quiz.Questions {
		questions = append(questions, QuestionView{ID: q.ID, Prompt: q.Prompt, Options: q.Options})
	}
	return ArticlePage{
		Slug:        a.Slug,
		Category:    a.Category,
		Title:       a.Title,
		Summary:     a.Summary,
		Body:        a.Body,
		FAQ:         a.FAQ,
		Quiz:        questions,
		PublishedAt: a.PublishedAt,
	}
}

// QuizMount is the ephemeral state of one quiz widget on one mounted page.
type QuizMount struct {
	ID          string         `json:"id"`
	ArticleSlug string         `json:"articleSlug"`
	Answers     map[string]int `json:"answers"`
	Revealed    bool           `json:"revealed"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// QuestionResult is the revealed outcome for a single question.
type QuestionResult struct {
	QuestionID   string `json:"questionId"`
	Selected     *int   `json:"selected"`
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correctIndex"`
}

// QuizResult summarizes a revealed quiz.
type QuizResult struct {
	Score      int              `json:"score"`
	Total      int              `json:"total"`
	Unanswered int              `json:"unanswered"`
	Questions  []QuestionResult `json:"questions"`
}

// QuizView is what transports send back after each widget transition.
type QuizView struct {
	MountID     string         `json:"mountId,omitempty"`
	ArticleSlug string         `json:"articleSlug"`
	State       string         `json:"state"`
	Answers     map[string]int `json:"answers"`
	Result      *QuizResult    `json:"result,omitempty"`
}
