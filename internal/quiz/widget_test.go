package quiz_test

import (
	"errors"
	"reflect"
	"testing"

	"blog-service/internal/domain"
	"blog-service/internal/quiz"
)

func TestNewWidgetStartsIdleAndEmpty(t *testing.T) {
	w := quiz.New(twoQuestionQuiz())

	if w.State() != quiz.Idle {
		t.Fatalf("expected idle, got %s", w.State())
	}
	if got := len(w.Answers()); got != 0 {
		t.Fatalf("expected no answers, got %d", got)
	}
	view := w.View("m1", "article")
	if view.Result != nil {
		t.Fatalf("expected no result before reveal, got %+v", view.Result)
	}
	if view.State != "idle" {
		t.Fatalf("expected idle view, got %q", view.State)
	}
}

func TestStateStrings(t *testing.T) {
	cases := map[quiz.State]string{
		quiz.Idle:      "idle",
		quiz.Revealed:  "revealed",
		quiz.State(42): "State(42)",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestSelectOptionIsolatesQuestions(t *testing.T) {
	w := quiz.New(twoQuestionQuiz())
	if err := w.SelectOption("q2", 3); err != nil {
		t.Fatalf("select q2: %v", err)
	}
	before := w.Answers()

	if err := w.SelectOption("q1", 1); err != nil {
		t.Fatalf("select q1: %v", err)
	}
	after := w.Answers()
	if after["q2"] != before["q2"] {
		t.Fatalf("q2 changed from %d to %d", before["q2"], after["q2"])
	}
	if after["q1"] != 1 {
		t.Fatalf("expected q1=1, got %d", after["q1"])
	}
	if w.State() != quiz.Idle {
		t.Fatalf("selection must not change state, got %s", w.State())
	}
}

func TestSelectOptionLastWriteWins(t *testing.T) {
	w := quiz.New(twoQuestionQuiz())
	_ = w.SelectOption("q1", 2)
	_ = w.SelectOption("q1", 0)

	result := w.Submit()
	if got := *result.Questions[0].Selected; got != 0 {
		t.Fatalf("expected option 0 evaluated, got %d", got)
	}
	if result.Questions[0].Correct {
		t.Fatalf("option 0 is not the correct answer for q1")
	}
}

func TestSelectOptionRejectsUnknownInput(t *testing.T) {
	w := quiz.New(twoQuestionQuiz())

	if err := w.SelectOption("q9", 0); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
	if err := w.SelectOption("q1", 4); !errors.Is(err, domain.ErrOptionOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if err := w.SelectOption("q1", -1); !errors.Is(err, domain.ErrOptionOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if len(w.Answers()) != 0 {
		t.Fatalf("rejected selections must not be recorded")
	}
}

func TestSubmitScoresPartialAnswers(t *testing.T) {
	w := quiz.New(twoQuestionQuiz())
	_ = w.SelectOption("q1", 1)
	_ = w.SelectOption("q2", 0)

	result := w.Submit()
	if result.Score != 1 || result.Total != 2 {
		t.Fatalf("expected 1/2, got %d/%d", result.Score, result.Total)
	}
	if !result.Questions[0].Correct {
		t.Fatalf("expected q1 correct")
	}
	if result.Questions[1].Correct {
		t.Fatalf("expected q2 incorrect")
	}
	if w.State() != quiz.Revealed {
		t.Fatalf("expected revealed, got %s", w.State())
	}
}

func TestSubmitWithNoAnswers(t *testing.T) {
	w := quiz.New(twoQuestionQuiz())

	result := w.Submit()
	if result.Score != 0 || result.Total != 2 || result.Unanswered != 2 {
		t.Fatalf("expected 0/2 with 2 unanswered, got %+v", result)
	}
	for _, qr := range result.Questions {
		if qr.Correct || qr.Selected != nil {
			t.Fatalf("expected unanswered incorrect result, got %+v", qr)
		}
	}
}

func TestSubmitIsIdempotent(t *testing.T) {
	w := quiz.New(twoQuestionQuiz())
	_ = w.SelectOption("q2", 3)

	first := w.Submit()
	second := w.Submit()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	if w.State() != quiz.Revealed {
		t.Fatalf("expected revealed to stick")
	}
}

func TestResultIsRederivable(t *testing.T) {
	w := quiz.New(twoQuestionQuiz())
	_ = w.SelectOption("q1", 1)
	submitted := w.Submit()

	for i := 0; i < 3; i++ {
		if got := w.Result(); !reflect.DeepEqual(got, submitted) {
			t.Fatalf("run %d: expected %+v, got %+v", i, submitted, got)
		}
	}
	if got := quiz.Evaluate(twoQuestionQuiz(), w.Answers()); !reflect.DeepEqual(got, submitted) {
		t.Fatalf("evaluate mismatch: %+v vs %+v", got, submitted)
	}
}

func TestSelectAfterRevealUpdatesResult(t *testing.T) {
	w := quiz.New(twoQuestionQuiz())
	w.Submit()

	if err := w.SelectOption("q2", 3); err != nil {
		t.Fatalf("select after reveal: %v", err)
	}
	view := w.View("m1", "article")
	if view.State != "revealed" {
		t.Fatalf("expected revealed, got %s", view.State)
	}
	if view.Result == nil || view.Result.Score != 1 {
		t.Fatalf("expected result to follow latest selection, got %+v", view.Result)
	}
}

func TestRestoreDropsStaleAnswers(t *testing.T) {
	w := quiz.Restore(twoQuestionQuiz(), map[string]int{"q1": 1, "q2": 7, "gone": 0}, true)

	if w.State() != quiz.Revealed {
		t.Fatalf("expected revealed")
	}
	answers := w.Answers()
	if len(answers) != 1 || answers["q1"] != 1 {
		t.Fatalf("expected only q1 restored, got %v", answers)
	}
}

func twoQuestionQuiz() domain.Quiz {
	return domain.Quiz{
		Questions: []domain.Question{
			{ID: "q1", Prompt: "First", Options: []string{"a", "b", "c"}, CorrectIndex: 1},
			{ID: "q2", Prompt: "Second", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 3},
		},
	}
}
