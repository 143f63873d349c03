package domain

import "errors"

var (
	// ErrArticleNotFound is returned when no article exists for a slug.
	ErrArticleNotFound = errors.New("article not found")
	// ErrQuestionNotFound indicates a selected question ID is not part of the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionOutOfRange indicates a selected option index is not one of the offered options.
	ErrOptionOutOfRange = errors.New("option out of range")
	// ErrMountNotFound is returned when a quiz mount expired or was never created.
	ErrMountNotFound = errors.New("quiz mount not found")
	// ErrInvalidQuiz marks quiz content that cannot be rendered.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrInvalidArticle marks article content missing required fields.
	ErrInvalidArticle = errors.New("invalid article")
)
