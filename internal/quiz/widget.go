// Package quiz implements the interactive multiple-choice widget shown under every article.
//
// A Widget starts Idle with no answers. Readers select options (last write wins per
// question) and submit once to reveal results. Revealed is terminal for the widget's
// lifetime; a fresh widget is built on the next page mount.
package quiz

import (
	"fmt"

	"blog-service/internal/domain"
)

// State is the reveal state of a widget.
type State int

const (
	Idle State = iota
	Revealed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Revealed:
		return "revealed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Widget holds per-question selections for one quiz instance.
// It is not safe for concurrent use.
type Widget struct {
	quiz    domain.Quiz
	answers map[string]int
	state   State
}

// New returns an Idle widget with every question unanswered.
func New(quiz domain.Quiz) *Widget {
	return &Widget{
		quiz:    quiz,
		answers: make(map[string]int, len(quiz.Questions)),
		state:   Idle,
	}
}

// Restore rebuilds a widget from stored answers. Entries that no longer match the quiz
// (removed questions, shrunk option lists) are dropped.
func Restore(quiz domain.Quiz, answers map[string]int, revealed bool) *Widget {
	w := New(quiz)
	for id, option := range answers {
		_ = w.SelectOption(id, option)
	}
	if revealed {
		w.state = Revealed
	}
	return w
}

// SelectOption records option as the answer for questionID, replacing any earlier
// selection. Selection stays open after reveal; results follow the latest answers.
func (w *Widget) SelectOption(questionID string, option int) error {
	question, ok := w.quiz.Question(questionID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, questionID)
	}
	if option < 0 || option >= len(question.Options) {
		return fmt.Errorf("%w: %s option %d", domain.ErrOptionOutOfRange, questionID, option)
	}
	w.answers[questionID] = option
	return nil
}

// Submit reveals the results. Further calls are no-ops.
func (w *Widget) Submit() domain.QuizResult {
	w.state = Revealed
	return w.Result()
}

func (w *Widget) State() State {
	return w.state
}

// Answers returns a copy of the current selections.
func (w *Widget) Answers() map[string]int {
	out := make(map[string]int, len(w.answers))
	for id, option := range w.answers {
		out[id] = option
	}
	return out
}

// Result scores the current selections. It is valid in any state; transports only
// expose it once the widget is revealed.
func (w *Widget) Result() domain.QuizResult {
	return Evaluate(w.quiz, w.answers)
}

// View renders the widget for transports.
func (w *Widget) View(mountID, articleSlug string) domain.QuizView {
	view := domain.QuizView{
		MountID:     mountID,
		ArticleSlug: articleSlug,
		State:       w.state.String(),
		Answers:     w.Answers(),
	}
	if w.state == Revealed {
		result := w.Result()
		view.Result = &result
	}
	return view
}

// Evaluate scores answers against the quiz's answer key. Unanswered questions are
// incorrect and still count towards the total.
func Evaluate(quiz domain.Quiz, answers map[string]int) domain.QuizResult {
	result := domain.QuizResult{
		Total:     len(quiz.Questions),
		Questions: make([]domain.QuestionResult, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		qr := domain.QuestionResult{QuestionID: q.ID, CorrectIndex: q.CorrectIndex}
		if selected, ok := answers[q.ID]; ok {
			selected := selected
			qr.Selected = &selected
			qr.Correct = selected == q.CorrectIndex
		} else {
			result.Unanswered++
		}
		if qr.Correct {
			result.Score++
		}
		result.Questions = append(result.Questions, qr)
	}
	return result
}
